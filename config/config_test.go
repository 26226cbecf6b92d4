package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/peanut-brulee/keys"
)

// TestLoadMissingFileUsesDefaults verifies that running without a config file works.
func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

// TestLoadFile verifies that every field is read from TOML.
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
KeyScheme = "ed25519"
OpeningBalance = 250
LogLevel = "debug"
Banner = false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.KeyScheme != "ed25519" || cfg.OpeningBalance != 250 || cfg.LogLevel != "debug" || cfg.Banner {
		t.Fatalf("unexpected config %+v", cfg)
	}
	scheme, err := cfg.Scheme()
	if err != nil {
		t.Fatal(err)
	}
	if scheme.Name() != keys.Ed25519.Name() {
		t.Fatalf("expected ed25519 scheme, got %s", scheme.Name())
	}
	level, err := cfg.PtermLevel()
	if err != nil {
		t.Fatal(err)
	}
	if level != pterm.LogLevelDebug {
		t.Fatalf("expected debug level, got %v", level)
	}
}

// TestDecodePartialKeepsDefaults verifies that omitted keys keep their defaults.
func TestDecodePartialKeepsDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`OpeningBalance = 5`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpeningBalance != 5 || cfg.KeyScheme != "secp256k1" || !cfg.Banner {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

// TestDecodeRejectsInvalidValues verifies validation of scheme and log level.
func TestDecodeRejectsInvalidValues(t *testing.T) {
	_, err := Decode(strings.NewReader(`KeyScheme = "rsa"`))
	if !errors.Is(err, keys.ErrUnknownScheme) {
		t.Fatalf("expected ErrUnknownScheme, got %v", err)
	}
	if _, err := Decode(strings.NewReader(`LogLevel = "loud"`)); err == nil {
		t.Fatal("expected error for invalid log level")
	}
	if _, err := Decode(strings.NewReader(`OpeningBalance = "lots"`)); err == nil {
		t.Fatal("expected error for a non-numeric balance")
	}
}
