// Package config loads the shell configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/naoina/toml"
	"github.com/pterm/pterm"

	"github.com/luca-patrignani/peanut-brulee/keys"
)

// Config holds the tunables of a ledger session.
type Config struct {
	// KeyScheme selects the curve of new accounts: "secp256k1" or "ed25519".
	KeyScheme string
	// OpeningBalance is credited to every account when it is created.
	OpeningBalance uint64
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string
	// Banner toggles the title printed at startup.
	Banner bool
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		KeyScheme:      keys.Secp256k1.Name(),
		OpeningBalance: 0,
		LogLevel:       "info",
		Banner:         true,
	}
}

// Load reads path. A missing file yields Default().
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses TOML from r on top of Default() and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every field holds a supported value.
func (c Config) Validate() error {
	if _, err := keys.ParseScheme(c.KeyScheme); err != nil {
		return fmt.Errorf("invalid KeyScheme: %w", err)
	}
	if _, err := c.PtermLevel(); err != nil {
		return err
	}
	return nil
}

// Scheme returns the configured key scheme.
func (c Config) Scheme() (keys.Scheme, error) {
	return keys.ParseScheme(c.KeyScheme)
}

// PtermLevel maps LogLevel onto the pterm logger levels.
func (c Config) PtermLevel() (pterm.LogLevel, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return pterm.LogLevelDebug, nil
	case "", "info":
		return pterm.LogLevelInfo, nil
	case "warn", "warning":
		return pterm.LogLevelWarn, nil
	case "error":
		return pterm.LogLevelError, nil
	}
	return 0, fmt.Errorf("invalid LogLevel %q", c.LogLevel)
}
