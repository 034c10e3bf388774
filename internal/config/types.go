package config

// Config is the resolved opscheck configuration. It is built once at startup
// and handed to the API clients; nothing reads the environment after that.
type Config struct {
	// Vercel holds hosting platform credentials and project selection
	Vercel *VercelConfig `hcl:"vercel,block"`

	// Gemini holds the AI endpoint settings used by --analyze and "ai ping"
	Gemini *GeminiConfig `hcl:"gemini,block"`

	// NATS holds the report forwarding settings used by --publish
	NATS *NATSConfig `hcl:"nats,block"`

	// Variables contains variable definitions
	Variables []*VariableConfig `hcl:"variable,block"`
}

// VariableConfig represents an HCL variable block definition
type VariableConfig struct {
	// Name is the variable name (block label)
	Name string `hcl:"name,label"`

	// Default is the value used when none of Env is set
	Default string `hcl:"default,optional"`

	// Env is a list of environment variable names to check for value
	Env []string `hcl:"env,optional"`

	// Description documents the variable purpose
	Description string `hcl:"description,optional"`
}

// VercelConfig configures access to the Vercel REST API
type VercelConfig struct {
	Token     string `hcl:"token,optional"`
	ProjectID string `hcl:"project,optional"`
	TeamID    string `hcl:"team,optional"`
	APIURL    string `hcl:"api_url,optional"`
	Limit     int    `hcl:"limit,optional"`
}

// GeminiConfig configures the generative AI endpoint
type GeminiConfig struct {
	APIKey string `hcl:"api_key,optional"`
	Model  string `hcl:"model,optional"`
	APIURL string `hcl:"api_url,optional"`
}

// NATSConfig configures report publishing
type NATSConfig struct {
	Servers   string `hcl:"servers,optional"`
	NKeySeed  string `hcl:"nkey_seed,optional"`
	Prefix    string `hcl:"prefix,optional"`
	JetStream bool   `hcl:"jetstream,optional"`
}

// normalize makes every block non-nil so callers never nil-check
func (c *Config) normalize() {
	if c.Vercel == nil {
		c.Vercel = &VercelConfig{}
	}
	if c.Gemini == nil {
		c.Gemini = &GeminiConfig{}
	}
	if c.NATS == nil {
		c.NATS = &NATSConfig{}
	}
}
