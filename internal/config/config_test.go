package config

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	expansionConfigMissingPath   = "testdata/expansion_config_missing.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	expectedNonNilConfig         = "expected non-nil config"
	hoopsEdgeName                = "hoops-edge"
	developmentEnv               = "development"
	invalidEnv                   = "invalid"
	localhostHost                = "localhost"
	postgresPort                 = 5432
	postgresPrefix               = "postgres://"
	testAppName                  = "test-app"
	testDBPassword               = "TEST_DB_PASSWORD"
	testMissingVar               = "TEST_MISSING_VAR"
	expandedSecretValue          = "expanded_secret_value"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}
	return cfg
}

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}

	if cfg.App.Name != hoopsEdgeName {
		t.Errorf("expected app name '%s', got '%s'", hoopsEdgeName, cfg.App.Name)
	}

	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}

	if cfg.Database.Host != localhostHost {
		t.Errorf("expected database host '%s', got '%s'", localhostHost, cfg.Database.Host)
	}

	if cfg.Database.Port != postgresPort {
		t.Errorf("expected database port %d, got %d", postgresPort, cfg.Database.Port)
	}

	if len(cfg.DataSources.Sources) != 4 {
		t.Fatalf("expected 4 data sources, got %d", len(cfg.DataSources.Sources))
	}

	if cfg.Scoring.Weights["net_rating"] != 14 {
		t.Errorf("expected net_rating weight 14, got %d", cfg.Scoring.Weights["net_rating"])
	}

	if cfg.Scoring.Dampening.Stale != 0.35 {
		t.Errorf("expected stale dampening 0.35, got %v", cfg.Scoring.Dampening.Stale)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadWithDefaultsMissingFile tests that defaults cover a missing file
func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != hoopsEdgeName {
		t.Errorf("expected default app name '%s', got '%s'", hoopsEdgeName, cfg.App.Name)
	}
	if cfg.Scoring.Workers != 4 {
		t.Errorf("expected default workers 4, got %d", cfg.Scoring.Workers)
	}
	if cfg.Scoring.TieBand != 0.5 {
		t.Errorf("expected default tie band 0.5, got %v", cfg.Scoring.TieBand)
	}
	if cfg.Tracing.Enabled || cfg.Tracing.DaemonAddr != "127.0.0.1:2000" {
		t.Errorf("expected tracing off with default daemon, got %+v", cfg.Tracing)
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	os.Setenv("HOOPS_EDGE_APP_NAME", testAppName)
	defer os.Unsetenv("HOOPS_EDGE_APP_NAME")

	cfg := loadValid(t)

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestResolvePath tests config path precedence
func TestResolvePath(t *testing.T) {
	os.Unsetenv(envConfigPath)
	if got := ResolvePath(""); got != defaultConfigPath {
		t.Errorf("expected default path, got %s", got)
	}

	os.Setenv(envConfigPath, "/etc/hoops/config.yaml")
	defer os.Unsetenv(envConfigPath)

	if got := ResolvePath(""); got != "/etc/hoops/config.yaml" {
		t.Errorf("expected env path, got %s", got)
	}
	if got := ResolvePath("local.yaml"); got != "local.yaml" {
		t.Errorf("expected flag path, got %s", got)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg := loadValid(t)

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg := loadValid(t)

	cfg.App.Environment = invalidEnv
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateInvalidSamplingRate tests the tracing sampling bounds
func TestValidateInvalidSamplingRate(t *testing.T) {
	cfg := loadValid(t)

	cfg.Tracing.SamplingRate = 1.5
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for sampling rate above 1")
	}
}

// TestValidateInvalidFeedKind tests the feedkind rule
func TestValidateInvalidFeedKind(t *testing.T) {
	cfg := loadValid(t)

	cfg.DataSources.Sources[0].Kind = "rumors"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid feed kind")
	}
	if !strings.Contains(err.Error(), "Kind") {
		t.Errorf("expected Kind validation error, got: %v", err)
	}
}

// TestValidateInvalidCronSpec tests the cronspec rule
func TestValidateInvalidCronSpec(t *testing.T) {
	cfg := loadValid(t)

	cfg.Scheduler.SlateRefresh = "every quarter hour"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for invalid cron spec")
	}
}

// TestValidateCrossField tests the cross-field rules
func TestValidateCrossField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"production without ssl", func(c *Config) { c.App.Environment = "production" }},
		{"idle above max", func(c *Config) { c.Database.MaxIdleConnections = 20 }},
		{"dampening out of order", func(c *Config) { c.Scoring.Dampening.Stale = 0.9 }},
		{"http feed without url", func(c *Config) { c.DataSources.Sources[0].URL = "" }},
		{"csv feed without path", func(c *Config) { c.DataSources.Sources[2].Path = "" }},
		{"csv feed with wrong kind", func(c *Config) { c.DataSources.Sources[2].Kind = FeedKindNews }},
		{"duplicate source", func(c *Config) { c.DataSources.Sources[1].Name = c.DataSources.Sources[0].Name }},
		{"partial secrets", func(c *Config) { c.Secrets.Region = "us-east-1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadValid(t)
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

// TestValidateEnvironmentRejectsTestKeys tests production credential checks
func TestValidateEnvironmentRejectsTestKeys(t *testing.T) {
	cfg := loadValid(t)
	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "require"
	cfg.DataSources.Sources[0].APIKey = "YOUR_API_KEY"

	if err := ValidateEnvironment(cfg); err == nil {
		t.Fatal("expected error for test credential in production")
	}

	cfg.DataSources.Sources[0].APIKey = "k9x2-live"
	if err := ValidateEnvironment(cfg); err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg := loadValid(t)

	dsn := cfg.GetDatabaseDSN()
	if !strings.HasPrefix(dsn, postgresPrefix) {
		t.Errorf("expected DSN to start with '%s', got '%s'", postgresPrefix, dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("expected sslmode in DSN, got '%s'", dsn)
	}
}

// TestEnabledSources tests feed filtering
func TestEnabledSources(t *testing.T) {
	cfg := loadValid(t)

	sources := cfg.EnabledSources()
	if len(sources) != 3 {
		t.Fatalf("expected 3 enabled sources, got %d", len(sources))
	}
	for _, s := range sources {
		if s.Name == "espn_news" {
			t.Error("disabled source returned")
		}
	}
}

// TestEnvironmentChecks tests environment helper functions
func TestEnvironmentChecks(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: developmentEnv}}
	if !cfg.IsDevelopment() || cfg.IsProduction() || cfg.IsStaging() {
		t.Error("expected development only")
	}

	cfg.App.Environment = "staging"
	if !cfg.IsStaging() || cfg.IsDevelopment() {
		t.Error("expected staging only")
	}

	cfg.App.Environment = "production"
	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests environment variable expansion in config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	os.Setenv(testDBPassword, expandedSecretValue)
	defer os.Unsetenv(testDBPassword)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Database.Password != expandedSecretValue {
		t.Errorf("expected password '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.Database.Password)
	}
}

// TestLoadConfigMissingEnvironmentVariable tests handling of missing environment variables
func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	os.Unsetenv(testMissingVar)

	cfg, err := Load(expansionConfigMissingPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	if cfg.Database.Password != "" {
		t.Errorf("expected empty password for unset variable, got %q", cfg.Database.Password)
	}
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for empty password")
	}
}

type fakeSecrets struct {
	out *secretsmanager.GetSecretValueOutput
	err error
}

func (f fakeSecrets) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	return f.out, f.err
}

// TestSecretsOverlay tests applying secrets onto a loaded config
func TestSecretsOverlay(t *testing.T) {
	cfg := loadValid(t)
	client := fakeSecrets{out: &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"database_password":"s3cret","feed_api_keys":{"league_injury_report":"abc123"}}`),
	}}

	secrets, err := fetchSecrets(context.Background(), client, "hoops-edge/prod")
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	applied := overlaySecretsOnConfig(cfg, secrets)

	if cfg.Database.Password != "s3cret" {
		t.Errorf("expected overlaid password, got %s", cfg.Database.Password)
	}
	if cfg.DataSources.Sources[1].APIKey != "abc123" {
		t.Errorf("expected overlaid api key, got %s", cfg.DataSources.Sources[1].APIKey)
	}
	want := []string{"data_sources.league_injury_report.api_key", "database.password"}
	if strings.Join(applied, ",") != strings.Join(want, ",") {
		t.Errorf("expected applied %v, got %v", want, applied)
	}
}

// TestSecretsErrors tests secret retrieval failures
func TestSecretsErrors(t *testing.T) {
	_, err := fetchSecrets(context.Background(), fakeSecrets{err: errors.New("denied")}, "x")
	if err == nil {
		t.Fatal("expected error from client")
	}

	_, err = fetchSecrets(context.Background(), fakeSecrets{out: &secretsmanager.GetSecretValueOutput{}}, "x")
	if !errors.Is(err, errNoSecretDataFound) {
		t.Fatalf("expected errNoSecretDataFound, got %v", err)
	}

	_, err = fetchSecrets(context.Background(), fakeSecrets{out: &secretsmanager.GetSecretValueOutput{SecretString: aws.String("{")}}, "x")
	if err == nil {
		t.Fatal("expected JSON parse error")
	}
}

// TestLoadSecretsDisabled tests that no overlay runs without configuration
func TestLoadSecretsDisabled(t *testing.T) {
	cfg := loadValid(t)

	applied, err := LoadSecretsFromAWS(context.Background(), cfg)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if applied != nil {
		t.Errorf("expected no applied fields, got %v", applied)
	}
}
