package config

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// Feed kinds accepted in data_sources.sources[].kind.
const (
	FeedKindInactives    = "inactives"
	FeedKindKnownAbsence = "known_absence"
	FeedKindInjuryReport = "injury_report"
	FeedKindNews         = "news"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("feedkind", validateFeedKind)
	_ = v.RegisterValidation("cronspec", validateCronSpec)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateFeedKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case FeedKindInactives, FeedKindKnownAbsence, FeedKindInjuryReport, FeedKindNews:
		return true
	default:
		return false
	}
}

func validateCronSpec(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.IsProduction() && cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	d := cfg.Scoring.Dampening
	if d.Stale > d.Default || d.Default > d.Recent {
		return fmt.Errorf("dampening multipliers must satisfy stale <= default <= recent")
	}

	seen := make(map[string]bool, len(cfg.DataSources.Sources))
	for _, src := range cfg.DataSources.Sources {
		if seen[src.Name] {
			return fmt.Errorf("duplicate data source name: %s", src.Name)
		}
		seen[src.Name] = true

		if !src.Enabled {
			continue
		}
		switch src.Type {
		case "http":
			if src.URL == "" {
				return fmt.Errorf("data source %s: http feeds require a url", src.Name)
			}
		case "csv":
			if src.Path == "" {
				return fmt.Errorf("data source %s: csv feeds require a path", src.Name)
			}
			if src.Kind != FeedKindKnownAbsence {
				return fmt.Errorf("data source %s: csv feeds only carry known absences", src.Name)
			}
		}
	}

	if (cfg.Secrets.Region == "") != (cfg.Secrets.SecretID == "") {
		return fmt.Errorf("secrets overlay requires both region and secret_id")
	}
	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "feedkind":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: inactives, known_absence, injury_report, news\n", field)
		case "cronspec":
			errMsg += fmt.Sprintf("- Field '%s' must be a standard cron expression, got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if !cfg.IsProduction() {
		return nil
	}
	if cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("production environment requires database SSL mode to be 'require' or 'verify-full'")
	}
	for _, src := range cfg.EnabledSources() {
		if src.Type == "http" && isTestCredential(src.APIKey) {
			return fmt.Errorf("production environment should not use test credentials for %s", src.Name)
		}
	}
	return nil
}

func isTestCredential(credential string) bool {
	testPatterns := []string{
		"test", "demo", "example", "placeholder", "YOUR_",
	}

	for _, pattern := range testPatterns {
		if match, _ := regexp.MatchString("(?i)"+pattern, credential); match {
			return true
		}
	}

	return false
}
