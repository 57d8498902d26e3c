package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// FlowsheetPath is a single .fs.hcl file or a directory of them.
	FlowsheetPath string

	// Output selects the report format: "table" or "yaml".
	Output string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	// MaxIterations and Tolerance override the solver defaults when
	// positive.
	MaxIterations int
	Tolerance     float64
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.FlowsheetPath == "" {
		return nil, errors.New("FlowsheetPath is a required configuration field and cannot be empty")
	}
	if cfg.Output == "" {
		cfg.Output = "table"
	}
	if cfg.Output != "table" && cfg.Output != "yaml" {
		return nil, errors.New("Output must be 'table' or 'yaml'")
	}
	return &cfg, nil
}
