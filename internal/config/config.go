package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Provider configures one model provider endpoint.
type Provider struct {
	Name        string   `hcl:"name,label" validate:"required"`
	BaseURL     string   `hcl:"base_url" validate:"required,url"`
	APIKeyEnv   string   `hcl:"api_key_env,optional"`
	Model       string   `hcl:"model,optional"`
	Temperature *float64 `hcl:"temperature,optional" validate:"omitempty,gte=0,lte=2"`
}

// Interpreter configures the code runtimes.
type Interpreter struct {
	PythonBinary string `hcl:"python_binary,optional"`
}

// Config is the engine configuration.
type Config struct {
	Providers   []*Provider  `hcl:"provider,block" validate:"dive"`
	Interpreter *Interpreter `hcl:"interpreter,block"`
}

// Default returns the configuration used when no file is supplied: the
// public OpenAI endpoint with the key taken from OPENAI_API_KEY, and python3
// from PATH.
func Default() *Config {
	return &Config{
		Providers: []*Provider{{
			Name:      "openai",
			BaseURL:   "https://api.openai.com/v1",
			APIKeyEnv: "OPENAI_API_KEY",
		}},
		Interpreter: &Interpreter{},
	}
}

// Load parses and validates a configuration file.
func Load(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, diags)
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("config: invalid configuration in %s: %w", path, diags)
	}
	if cfg.Interpreter == nil {
		cfg.Interpreter = &Interpreter{}
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed for %s: %w", path, err)
	}
	return &cfg, nil
}

// ProviderByName returns the named provider block, if configured.
func (c *Config) ProviderByName(name string) (*Provider, bool) {
	for _, p := range c.Providers {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// APIKey resolves the provider's API key from its configured environment
// variable. An unset variable is not an error; local endpoints need no key.
func (p *Provider) APIKey() string {
	if p.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(p.APIKeyEnv)
}
