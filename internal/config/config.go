package config

import (
	"errors"
	"os"
)

// DefaultConfigFile is read when present in the working directory
const DefaultConfigFile = "opscheck.hcl"

// Validation errors
var (
	ErrMissingVercelToken   = errors.New("environment variable " + EnvVercelToken + " is not set")
	ErrMissingVercelProject = errors.New("environment variable " + EnvVercelProjectID + " (or " + EnvVercelProjectName + ") is not set")
	ErrMissingGeminiKey     = errors.New("environment variable " + EnvGeminiToken + " is not set")
	ErrMissingNATSServers   = errors.New("environment variable " + EnvNATSURL + " is not set")
)

// LoadOptions controls where configuration comes from
type LoadOptions struct {
	// ConfigPath is the HCL file. When Explicit is false a missing file is not an error.
	ConfigPath string
	Explicit   bool

	// EnvFiles must exist; DefaultEnvFiles are always tried afterwards
	EnvFiles []string
}

// Load resolves configuration: dotenv files, then the HCL file, then the
// process environment for anything still unset.
func Load(opts LoadOptions) (*Config, error) {
	if _, err := LoadEnvFiles(opts.EnvFiles, DefaultEnvFiles); err != nil {
		return nil, err
	}

	path := opts.ConfigPath
	if path == "" {
		path = DefaultConfigFile
	}

	cfg := &Config{}
	if _, err := os.Stat(path); err == nil || opts.Explicit {
		parsed, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		cfg = parsed
	}

	cfg.normalize()
	applyEnv(cfg)
	return cfg, nil
}

// ValidateVercel checks the settings needed to read deployments
func (c *Config) ValidateVercel() error {
	var errs []error
	if c.Vercel.Token == "" {
		errs = append(errs, ErrMissingVercelToken)
	}
	if c.Vercel.ProjectID == "" {
		errs = append(errs, ErrMissingVercelProject)
	}
	return errors.Join(errs...)
}

// ValidateGemini checks the settings needed to call the AI endpoint
func (c *Config) ValidateGemini() error {
	if c.Gemini.APIKey == "" {
		return ErrMissingGeminiKey
	}
	return nil
}

// ValidateNATS checks the settings needed to publish reports
func (c *Config) ValidateNATS() error {
	if c.NATS.Servers == "" {
		return ErrMissingNATSServers
	}
	return nil
}
