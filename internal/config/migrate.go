package config

import (
	"fmt"
	"strings"
)

// migrate upgrades a config from its current version to CurrentVersion.
// Each migration function transforms the config one version forward.
// Returns an error if the config version is newer than what this binary supports.
func migrate(cfg *Config) error {
	if cfg.Version == CurrentVersion {
		return nil
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf(
			"%w: config version %d is newer than supported version %d (upgrade caseboard)",
			ErrInvalid, cfg.Version, CurrentVersion,
		)
	}
	if cfg.Version < 1 {
		return fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for cfg.Version < CurrentVersion {
		fn, ok := migrations[cfg.Version]
		if !ok {
			return fmt.Errorf("%w: no migration path from version %d", ErrInvalid, cfg.Version)
		}
		if err := fn(cfg); err != nil {
			return fmt.Errorf("migrating config from v%d: %w", cfg.Version, err)
		}
	}

	return nil
}

// migrations maps each version to the function that migrates it to the next version.
// The migration function must increment cfg.Version after a successful migration.
var migrations = map[int]func(*Config) error{
	1: migrateV1ToV2,
}

// migrateV1ToV2 turns the plain status list into stages and fills the
// locale, tui and server sections.
func migrateV1ToV2(cfg *Config) error {
	if len(cfg.Stages) == 0 {
		if len(cfg.Statuses) == 0 {
			return fmt.Errorf("%w: version 1 config has no statuses", ErrInvalid)
		}
		for _, s := range cfg.Statuses {
			cfg.Stages = append(cfg.Stages, StageConfig{ID: s, Name: displayName(s)})
		}
	}
	cfg.Statuses = nil
	if cfg.Defaults.Stage == "" {
		cfg.Defaults.Stage = cfg.Stages[0].ID
	}
	if cfg.Defaults.Priority == "" {
		cfg.Defaults.Priority = DefaultPriority
	}
	if cfg.CardsFile == "" {
		cfg.CardsFile = DefaultCardsFile
	}
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	if cfg.TUI.VisibleTags == 0 {
		cfg.TUI.VisibleTags = DefaultVisibleTags
	}
	if cfg.TUI.StaleDays == 0 {
		cfg.TUI.StaleDays = DefaultStaleDays
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = DefaultLogLevel
	}
	cfg.Version = 2
	return nil
}

// displayName turns "in-progress" into "In Progress".
func displayName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
