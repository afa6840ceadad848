package models

// Stat defaults applied at ingestion when a feed omits a field.
const (
	DefaultOffRating  = 110.0
	DefaultDefRating  = 110.0
	DefaultPace       = 100.0
	DefaultEFGPct     = 0.52
	DefaultTOVPct     = 14.0
	DefaultFTRate     = 0.25
	DefaultFG3Pct     = 0.36
	DefaultFG3ARate   = 0.40
	DefaultRebPct     = 50.0
	DefaultPFPerGame  = 20.0
	DefaultOppFG3Pct  = 0.36
	DefaultRestDays   = 1
	maxBlendedShift   = 3.0
	seasonBlendWeight = 0.6
	last15BlendWeight = 0.3
	last5BlendWeight  = 0.1
)

// TeamBaselineStrength carries season and recent-form performance for one team.
type TeamBaselineStrength struct {
	Team          string  `json:"team" validate:"required"`
	GamesPlayed   int     `json:"games_played" validate:"gte=0"`
	NetRating     float64 `json:"net_rating"`
	OffRating     float64 `json:"off_rating"`
	DefRating     float64 `json:"def_rating"`
	Pace          float64 `json:"pace"`
	HomeNetRating float64 `json:"home_net_rating"`
	RoadNetRating float64 `json:"road_net_rating"`
	Last15Net     float64 `json:"last_15_net_rating"`
	Last5Net      float64 `json:"last_5_net_rating"`
	BlendedNet    float64 `json:"blended_net_rating"`
	SOS           float64 `json:"sos"`

	EFGPct    float64 `json:"efg_pct"`
	TOVPct    float64 `json:"tov_pct"`
	OREBPct   float64 `json:"oreb_pct"`
	RebPct    float64 `json:"reb_pct"`
	FTRate    float64 `json:"ft_rate"`
	FG3Pct    float64 `json:"fg3_pct"`
	FG3ARate  float64 `json:"fg3a_rate"`
	OppEFGPct float64 `json:"opp_efg_pct"`
	OppFG3Pct float64 `json:"opp_fg3_pct"`
	PFPerGame float64 `json:"pf_per_game"`

	// Volatility is in [0,1]; derived from 3PA rate and turnovers when the feed omits it.
	Volatility float64 `json:"volatility" validate:"gte=0,lte=1"`
	RestDays   int     `json:"rest_days" validate:"gte=0"`
}

// WithDefaults returns a copy with zero-valued rate stats replaced by league defaults
// and derived fields (blended rating, volatility) filled in.
func (t TeamBaselineStrength) WithDefaults() TeamBaselineStrength {
	out := t
	setDefault(&out.OffRating, DefaultOffRating)
	setDefault(&out.DefRating, DefaultDefRating)
	setDefault(&out.Pace, DefaultPace)
	setDefault(&out.EFGPct, DefaultEFGPct)
	setDefault(&out.TOVPct, DefaultTOVPct)
	setDefault(&out.FTRate, DefaultFTRate)
	setDefault(&out.FG3Pct, DefaultFG3Pct)
	setDefault(&out.FG3ARate, DefaultFG3ARate)
	setDefault(&out.RebPct, DefaultRebPct)
	setDefault(&out.PFPerGame, DefaultPFPerGame)
	setDefault(&out.OppFG3Pct, DefaultOppFG3Pct)
	if out.HomeNetRating == 0 && out.RoadNetRating == 0 {
		out.HomeNetRating = out.NetRating
		out.RoadNetRating = out.NetRating
	}
	if out.RestDays == 0 {
		out.RestDays = DefaultRestDays
	}
	if out.BlendedNet == 0 && (out.Last15Net != 0 || out.Last5Net != 0) {
		out.BlendedNet = BlendNetRating(out.NetRating, out.Last15Net, out.Last5Net)
	}
	if out.Volatility == 0 {
		out.Volatility = VolatilityScore(out.FG3ARate, out.TOVPct)
	}
	return out
}

// BlendNetRating mixes season and recent form 60/30/10, limiting the move away
// from the season figure to three points either way.
func BlendNetRating(season, last15, last5 float64) float64 {
	blended := seasonBlendWeight*season + last15BlendWeight*last15 + last5BlendWeight*last5
	shift := blended - season
	if shift > maxBlendedShift {
		shift = maxBlendedShift
	} else if shift < -maxBlendedShift {
		shift = -maxBlendedShift
	}
	return season + shift
}

// VolatilityScore rates game-to-game variance from three-point reliance and ball security.
func VolatilityScore(fg3aRate, tovPct float64) float64 {
	v := (fg3aRate-0.35)*2 + (tovPct-12)*0.05
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func setDefault(field *float64, def float64) {
	if *field == 0 {
		*field = def
	}
}

// LineupAdjustedStrength is a team's strength after applying the fused absence table.
type LineupAdjustedStrength struct {
	Team                   string                 `json:"team"`
	BaseNetRating          float64                `json:"base_net_rating"`
	AdjustedNetRating      float64                `json:"adjusted_net_rating"`
	AvailabilityFraction   float64                `json:"availability_fraction"`
	AvailabilityConfidence AvailabilityConfidence `json:"availability_confidence"`
	MissingPlayers         []string               `json:"missing_players"`
	StarsOut               []string               `json:"stars_out"`
	StarsUnconfirmed       []string               `json:"stars_unconfirmed"`
	ConfidencePenalty      float64                `json:"confidence_penalty"`
	Players                []PlayerStatusDetail   `json:"players"`
}
