package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	errLoadAWSConfig           = "failed to load AWS config: %w"
	errGetSecretFromAWSSecrets = "failed to get secret from AWS Secrets Manager: %w"
	errParseSecretJSON         = "failed to parse secret JSON: %w"
	errParseSecretBinary       = "failed to parse secret binary: %w"
)

var errNoSecretDataFound = errors.New("no secret data found in AWS Secrets Manager")

// SecretsOverlay represents the structure of secrets stored in AWS Secrets Manager
type SecretsOverlay struct {
	DatabasePassword string `json:"database_password"`
	// FeedAPIKeys maps data source name to API key.
	FeedAPIKeys map[string]string `json:"feed_api_keys"`
}

// secretsGetter is the subset of the Secrets Manager client used here.
type secretsGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func fetchSecretsFromAWS(ctx context.Context, region, secretID string) (*SecretsOverlay, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf(errLoadAWSConfig, err)
	}
	return fetchSecrets(ctx, secretsmanager.NewFromConfig(awsCfg), secretID)
}

func fetchSecrets(ctx context.Context, client secretsGetter, secretID string) (*SecretsOverlay, error) {
	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return nil, fmt.Errorf(errGetSecretFromAWSSecrets, err)
	}
	return parseSecretData(result)
}

func parseSecretData(result *secretsmanager.GetSecretValueOutput) (*SecretsOverlay, error) {
	var secrets SecretsOverlay
	switch {
	case result.SecretString != nil:
		if err := json.Unmarshal([]byte(*result.SecretString), &secrets); err != nil {
			return nil, fmt.Errorf(errParseSecretJSON, err)
		}
	case result.SecretBinary != nil:
		if err := json.Unmarshal(result.SecretBinary, &secrets); err != nil {
			return nil, fmt.Errorf(errParseSecretBinary, err)
		}
	default:
		return nil, errNoSecretDataFound
	}
	return &secrets, nil
}

// overlaySecretsOnConfig applies secrets and returns the config fields it replaced.
func overlaySecretsOnConfig(cfg *Config, secrets *SecretsOverlay) []string {
	var applied []string
	if secrets.DatabasePassword != "" {
		cfg.Database.Password = secrets.DatabasePassword
		applied = append(applied, "database.password")
	}
	for i, source := range cfg.DataSources.Sources {
		if key, ok := secrets.FeedAPIKeys[source.Name]; ok && key != "" {
			cfg.DataSources.Sources[i].APIKey = key
			applied = append(applied, "data_sources."+source.Name+".api_key")
		}
	}
	sort.Strings(applied)
	return applied
}

// LoadSecretsFromAWS retrieves the configured secret and overlays it onto cfg.
// It returns the names of the fields that were replaced.
func LoadSecretsFromAWS(ctx context.Context, cfg *Config) ([]string, error) {
	if !cfg.SecretsEnabled() {
		return nil, nil
	}

	secrets, err := fetchSecretsFromAWS(ctx, cfg.Secrets.Region, cfg.Secrets.SecretID)
	if err != nil {
		return nil, err
	}

	return overlaySecretsOnConfig(cfg, secrets), nil
}
