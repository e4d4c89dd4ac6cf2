package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/knadh/koanf/v2"
)

func TestLoad_Defaults(t *testing.T) {
	// No env overrides
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Env != "prod" {
		t.Errorf("expected Env=prod, got %q", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel=info, got %q", cfg.LogLevel)
	}
	if cfg.Shell != "powershell.exe" {
		t.Errorf("expected Shell=powershell.exe, got %q", cfg.Shell)
	}
	if cfg.StepTimeoutSeconds != 15 {
		t.Errorf("expected StepTimeoutSeconds=15, got %d", cfg.StepTimeoutSeconds)
	}
	if cfg.ConfigPath != "" {
		t.Errorf("expected ConfigPath empty by default, got %q", cfg.ConfigPath)
	}
}

func TestLoad_ValidOverrides(t *testing.T) {
	t.Setenv("DNSCTL_ENV", "dev")
	t.Setenv("DNSCTL_LOG_LEVEL", "debug")
	t.Setenv("DNSCTL_CONFIG_PATH", "/tmp/profiles.jsonc")
	t.Setenv("DNSCTL_SHELL", "pwsh.exe")
	t.Setenv("DNSCTL_STEP_TIMEOUT_SECONDS", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Env != "dev" {
		t.Errorf("expected Env=dev, got %q", cfg.Env)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %q", cfg.LogLevel)
	}
	if cfg.ConfigPath != "/tmp/profiles.jsonc" {
		t.Errorf("expected ConfigPath=/tmp/profiles.jsonc, got %q", cfg.ConfigPath)
	}
	if cfg.Shell != "pwsh.exe" {
		t.Errorf("expected Shell=pwsh.exe, got %q", cfg.Shell)
	}
	if cfg.StepTimeoutSeconds != 30 {
		t.Errorf("expected StepTimeoutSeconds=30, got %d", cfg.StepTimeoutSeconds)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("DNSCTL_ENV", "staging")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error for invalid env, got nil")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("expected validation failure, got: %v", err)
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("DNSCTL_LOG_LEVEL", "loud")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error for invalid log level, got nil")
	}
}

func TestLoad_TimeoutOutOfRange(t *testing.T) {
	t.Setenv("DNSCTL_STEP_TIMEOUT_SECONDS", "0")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error for zero timeout, got nil")
	}
}

func TestLoad_EnvLoaderError(t *testing.T) {
	orig := envLoader
	defer func() { envLoader = orig }()
	envLoader = func(k *koanf.Koanf) error {
		return errors.New("boom")
	}

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "error loading env") {
		t.Fatalf("expected env loading error, got: %v", err)
	}
}

func TestLoad_DefaultLoaderError(t *testing.T) {
	orig := defaultLoader
	defer func() { defaultLoader = orig }()
	defaultLoader = func(k *koanf.Koanf) error {
		return errors.New("boom")
	}

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "error loading default config") {
		t.Fatalf("expected default loading error, got: %v", err)
	}
}
