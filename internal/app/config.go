package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	CellsPath  string // hcl cell definition files
	ConfigPath string // optional engine configuration file

	LogFormat string
	LogLevel  string
}

// NewConfig validates an application configuration.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.CellsPath == "" {
		return nil, errors.New("CellsPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
