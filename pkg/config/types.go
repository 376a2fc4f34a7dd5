// Package config provides configuration loading and validation for lossylines.
package config

import (
	"regexp"
	"time"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Sources are file paths or glob patterns; "-" reads stdin.
	Sources []string `yaml:"sources" validate:"min=1,dive,required"`

	// Output is the report format, text or json.
	Output string `yaml:"output,omitempty" validate:"oneof=text json"`

	// Include, when set, keeps only lines matching this regex.
	Include string `yaml:"include,omitempty"`

	// Exclude, when set, drops lines matching this regex.
	Exclude string `yaml:"exclude,omitempty"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty" validate:"dive"`

	compiledInclude *regexp.Regexp
	compiledExclude *regexp.Regexp
}

// CompiledInclude returns the compiled include pattern, or nil.
func (c *Config) CompiledInclude() *regexp.Regexp {
	return c.compiledInclude
}

// CompiledExclude returns the compiled exclude pattern, or nil.
func (c *Config) CompiledExclude() *regexp.Regexp {
	return c.compiledExclude
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnRepairs fires only when some line needed repair (default).
	WebhookTriggerOnRepairs WebhookTrigger = "on_repairs"
	// WebhookTriggerAlways fires after every scan.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending scan reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url" validate:"required,http_url"`

	// Token is an optional bearer token. ${VAR} and $VAR are expanded.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_repairs" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty" validate:"omitempty,oneof=on_repairs always never"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty" validate:"gte=0"`
}

// DisplayName returns Name, falling back to URL.
func (w WebhookConfig) DisplayName() string {
	if w.Name != "" {
		return w.Name
	}
	return w.URL
}
