package config

import (
	"errors"
	"fmt"
)

// Validate checks the structural validity of a Config: the version field,
// provider settings, and the storage driver selection. Zero-value limits are
// fine; their packages substitute defaults.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	if err := cfg.Provider.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("config: provider: %w", err))
	}

	cfg.Storage.defaults()
	switch cfg.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if cfg.Storage.Path == "" {
			errs = append(errs, errors.New("config: storage: sqlite driver requires a path"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: storage: unknown driver %q", cfg.Storage.Driver))
	}

	if !cfg.Server.Auth.IsConfigured() {
		errs = append(errs, errors.New("config: server: auth bearer_token is required"))
	}

	return errors.Join(errs...)
}
