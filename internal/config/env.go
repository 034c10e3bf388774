package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvVercelToken       = "VERCEL_TOKEN"
	EnvVercelProjectID   = "VERCEL_PROJECT_ID"
	EnvVercelProjectName = "VERCEL_PROJECT_NAME"
	EnvVercelTeamID      = "VERCEL_TEAM_ID"
	EnvVercelAPIURL      = "VERCEL_API_URL"
	EnvGeminiToken       = "GEMINI_TOKEN"
	EnvGeminiModel       = "GEMINI_MODEL"
	EnvNATSURL           = "NATS_URL"
	EnvNATSNKeySeed      = "NATS_NKEY_SEED"
	EnvNATSPrefix        = "NATS_PREFIX"
	EnvNATSJetStream     = "NATS_JETSTREAM"
)

// DefaultEnvFiles are loaded when present; missing ones are skipped
var DefaultEnvFiles = []string{".env", ".envs/local.env"}

// KnownVariable describes an environment variable opscheck reads
type KnownVariable struct {
	Name        string
	Secret      bool
	Description string
}

// KnownVariables lists every variable reported by "opscheck env check"
var KnownVariables = []KnownVariable{
	{EnvVercelToken, true, "Vercel access token"},
	{EnvVercelProjectID, false, "Vercel project ID"},
	{EnvVercelProjectName, false, "Vercel project slug (used when the ID is unset)"},
	{EnvVercelTeamID, false, "Vercel team context (optional)"},
	{EnvGeminiToken, true, "Gemini API key"},
	{EnvGeminiModel, false, "Gemini model (optional)"},
	{EnvNATSURL, false, "NATS servers for report publishing (optional)"},
	{EnvNATSNKeySeed, true, "NATS NKey seed (optional)"},
}

// LoadEnvFiles loads dotenv files without overriding variables already set.
// Files listed in required must exist; optional ones are skipped when missing.
func LoadEnvFiles(required, optional []string) ([]string, error) {
	var loaded []string

	for _, path := range required {
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}

	for _, path := range optional {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}

	return loaded, nil
}

// applyEnv fills settings the configuration file left empty
func applyEnv(cfg *Config) {
	setIfEmpty(&cfg.Vercel.Token, os.Getenv(EnvVercelToken))
	setIfEmpty(&cfg.Vercel.ProjectID, os.Getenv(EnvVercelProjectID))
	setIfEmpty(&cfg.Vercel.ProjectID, os.Getenv(EnvVercelProjectName))
	setIfEmpty(&cfg.Vercel.TeamID, os.Getenv(EnvVercelTeamID))
	setIfEmpty(&cfg.Vercel.APIURL, os.Getenv(EnvVercelAPIURL))

	setIfEmpty(&cfg.Gemini.APIKey, os.Getenv(EnvGeminiToken))
	setIfEmpty(&cfg.Gemini.Model, os.Getenv(EnvGeminiModel))

	setIfEmpty(&cfg.NATS.Servers, os.Getenv(EnvNATSURL))
	setIfEmpty(&cfg.NATS.NKeySeed, os.Getenv(EnvNATSNKeySeed))
	setIfEmpty(&cfg.NATS.Prefix, os.Getenv(EnvNATSPrefix))
	if !cfg.NATS.JetStream {
		if v, err := strconv.ParseBool(os.Getenv(EnvNATSJetStream)); err == nil {
			cfg.NATS.JetStream = v
		}
	}
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}
