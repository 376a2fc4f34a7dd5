package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their YAML names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment. Variables that are already set are left alone.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors, compiles regex patterns and
// fills webhook defaults.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return describe(err)
	}

	var err error
	if cfg.compiledInclude, err = compileOptional(cfg.Include); err != nil {
		return fmt.Errorf("include: %w", err)
	}
	if cfg.compiledExclude, err = compileOptional(cfg.Exclude); err != nil {
		return fmt.Errorf("exclude: %w", err)
	}

	for i := range cfg.Webhooks {
		normalizeWebhook(&cfg.Webhooks[i])
	}

	return nil
}

// describe turns the first validator failure into a message naming the
// offending field.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "min":
		if fe.Field() == "sources" {
			return errors.New("sources: at least one source is required")
		}
		return fmt.Errorf("%s: must have at least %s entries", field, fe.Param())
	case "required":
		return fmt.Errorf("%s: is required", field)
	case "oneof":
		return fmt.Errorf("%s: invalid value %q (must be one of: %s)", field, fe.Value(), fe.Param())
	case "http_url":
		return fmt.Errorf("%s: %q is not an http or https url", field, fe.Value())
	default:
		return fmt.Errorf("%s: failed %q check", field, fe.Tag())
	}
}

func compileOptional(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	return re, nil
}

func normalizeWebhook(wh *WebhookConfig) {
	wh.Token = expandEnvVar(wh.Token)

	if wh.Trigger == "" {
		wh.Trigger = WebhookTriggerOnRepairs
	}
	if wh.Timeout == 0 {
		wh.Timeout = DefaultWebhookTimeout
	}
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}
	return s
}
