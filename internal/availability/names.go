package availability

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Applied in order, before punctuation is stripped, so "Jr." is still anchored.
	suffixPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\s+jr\.?$`),
		regexp.MustCompile(`\s+sr\.?$`),
		regexp.MustCompile(`\s+ii+$`),
		regexp.MustCompile(`\s+iv$`),
		regexp.MustCompile(`\s+v$`),
	}
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// minDistinctiveWord is the length above which a single shared word is trusted.
const minDistinctiveWord = 4

// NormalizeName produces the comparison key for a player name.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	s := stripDiacritics(strings.ToLower(name))
	s = strings.TrimSpace(s)
	for _, re := range suffixPatterns {
		s = re.ReplaceAllString(s, "")
	}
	s = punctuation.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

func stripDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if !unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NamesMatch reports whether two raw names likely refer to the same player.
// Strict mode accepts only equal normalized names.
func NamesMatch(a, b string, strict bool) bool {
	return normalizedMatch(NormalizeName(a), NormalizeName(b), strict)
}

func normalizedMatch(norm1, norm2 string, strict bool) bool {
	if norm1 == "" || norm2 == "" {
		return false
	}
	if norm1 == norm2 {
		return true
	}
	if strict {
		return false
	}

	words1 := strings.Fields(norm1)
	words2 := strings.Fields(norm2)

	last1 := words1[len(words1)-1]
	last2 := words2[len(words2)-1]
	if last1 == last2 {
		if firstRune(words1[0]) == firstRune(words2[0]) {
			return true
		}
		if len(last1) > minDistinctiveWord {
			return true
		}
	}

	if sharedWords(words1, words2) >= 2 {
		return true
	}

	for _, w := range words1 {
		if len(w) > minDistinctiveWord && strings.Contains(norm2, w) {
			return true
		}
	}
	for _, w := range words2 {
		if len(w) > minDistinctiveWord && strings.Contains(norm1, w) {
			return true
		}
	}
	return false
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func sharedWords(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, w := range a {
		set[w] = struct{}{}
	}
	seen := make(map[string]struct{}, len(b))
	count := 0
	for _, w := range b {
		if _, ok := set[w]; !ok {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		count++
	}
	return count
}

// Matcher finds a record for a player name among pre-normalized candidates.
type Matcher struct {
	strict bool
}

// NewMatcher returns a Matcher. Non-strict matching applies the fuzzy rules.
func NewMatcher(strict bool) *Matcher {
	return &Matcher{strict: strict}
}

// Match reports whether a and b are the same player under m's mode.
func (m *Matcher) Match(a, b string) bool {
	return NamesMatch(a, b, m.strict)
}

// MatchNormalized is Match for names already passed through NormalizeName.
func (m *Matcher) MatchNormalized(a, b string) bool {
	return normalizedMatch(a, b, m.strict)
}

// FindIndex returns the index of the first candidate matching name, or -1.
// Exact normalized matches take priority over fuzzy ones.
func (m *Matcher) FindIndex(name string, candidates []string) int {
	key := NormalizeName(name)
	if key == "" {
		return -1
	}
	for i, c := range candidates {
		if NormalizeName(c) == key {
			return i
		}
	}
	if m.strict {
		return -1
	}
	for i, c := range candidates {
		if normalizedMatch(key, NormalizeName(c), false) {
			return i
		}
	}
	return -1
}
