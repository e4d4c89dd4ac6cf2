package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// ConfigPath overrides the per-user profile file location.
	// Empty selects the default under the user config directory.
	ConfigPath string `koanf:"config_path"`

	// Shell is the PowerShell executable used for OS DNS operations.
	Shell string `koanf:"shell" validate:"required"`

	// StepTimeoutSeconds bounds each individual OS configuration
	// operation during apply.
	StepTimeoutSeconds int `koanf:"step_timeout_seconds" validate:"required,gte=1,lte=300"`
}

// DEFAULT_APP_CONFIG defines the default application settings.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:                "prod",
	LogLevel:           "info",
	Shell:              "powershell.exe",
	StepTimeoutSeconds: 15,
}

// envLoader loads environment variables with the prefix "DNSCTL_",
// lowercasing keys and stripping the prefix. Variable for mocking in
// tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DNSCTL_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "DNSCTL_"))
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader seeds the Koanf instance with DEFAULT_APP_CONFIG via
// the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
