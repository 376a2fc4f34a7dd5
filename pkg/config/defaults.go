package config

import (
	"os"
	"strings"
	"time"
)

// Default values for configuration.
const (
	DefaultOutput         = "text"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvSources = "LOSSYLINES_SOURCES"
	EnvOutput  = "LOSSYLINES_OUTPUT"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Sources: []string{},
		Output:  DefaultOutput,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvSources); v != "" {
		var sources []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sources = append(sources, s)
			}
		}
		c.Sources = sources
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}
}
