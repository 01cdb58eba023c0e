package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"go.yaml.in/yaml/v3"

	"github.com/caseboard/caseboard/internal/clierr"
	"github.com/caseboard/caseboard/internal/kanban"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no caseboard found (run 'caseboard init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the board configuration.
type Config struct {
	Version   int            `yaml:"version"`
	Board     BoardConfig    `yaml:"board"`
	CardsFile string         `yaml:"cards_file"`
	Locale    string         `yaml:"locale"`
	Stages    []StageConfig  `yaml:"stages"`
	Defaults  DefaultsConfig `yaml:"defaults"`
	TUI       TUIConfig      `yaml:"tui"`
	Server    ServerConfig   `yaml:"server"`

	// Statuses is the version 1 stage list, consumed by migration.
	Statuses []string `yaml:"statuses,omitempty"`

	// dir is the absolute path to the board directory (not serialized).
	dir string `yaml:"-"`
}

// BoardConfig holds board metadata.
type BoardConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// StageConfig defines one pipeline stage. Stage order on the board is the
// order of this list.
type StageConfig struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	NameAR string `yaml:"name_ar,omitempty"`
	Color  string `yaml:"color,omitempty"`
	Won    bool   `yaml:"won,omitempty"`
	Lost   bool   `yaml:"lost,omitempty"`
}

// DefaultsConfig holds default values for new cards.
type DefaultsConfig struct {
	Stage    string `yaml:"stage"`
	Priority string `yaml:"priority"`
}

// TUIConfig holds interactive board settings.
type TUIConfig struct {
	VisibleTags         int  `yaml:"visible_tags"`
	StaleDays           int  `yaml:"stale_days"`
	SkipTerminalConfirm bool `yaml:"skip_terminal_confirm,omitempty"`
}

// ServerConfig holds REST backend settings.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	LogLevel string `yaml:"log_level"`
}

// serverEnv overrides ServerConfig from the environment.
type serverEnv struct {
	Addr     string `env:"CASEBOARD_ADDR"`
	LogLevel string `env:"CASEBOARD_LOG_LEVEL"`
}

// Dir returns the absolute path to the board directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the board directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// CardsPath returns the absolute path to the cards file.
func (c *Config) CardsPath() string {
	return filepath.Join(c.dir, c.CardsFile)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:   CurrentVersion,
		Board:     BoardConfig{Name: name},
		CardsFile: DefaultCardsFile,
		Locale:    DefaultLocale,
		Stages:    append([]StageConfig{}, DefaultStages...),
		Defaults: DefaultsConfig{
			Stage:    DefaultStage,
			Priority: DefaultPriority,
		},
		TUI: TUIConfig{
			VisibleTags: DefaultVisibleTags,
			StaleDays:   DefaultStaleDays,
		},
		Server: ServerConfig{
			Addr:     DefaultAddr,
			LogLevel: DefaultLogLevel,
		},
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Board.Name == "" {
		return fmt.Errorf("%w: board.name is required", ErrInvalid)
	}
	if c.CardsFile == "" {
		return fmt.Errorf("%w: cards_file is required", ErrInvalid)
	}
	if c.Locale != "en" && c.Locale != "ar" {
		return fmt.Errorf("%w: locale must be \"en\" or \"ar\", got %q", ErrInvalid, c.Locale)
	}
	if err := c.validateStages(); err != nil {
		return err
	}
	if c.StageIndex(c.Defaults.Stage) < 0 {
		return fmt.Errorf("%w: default stage %q not in stages list", ErrInvalid, c.Defaults.Stage)
	}
	if _, ok := kanban.ParsePriority(c.Defaults.Priority); !ok {
		return fmt.Errorf("%w: default priority %q is not one of low, medium, high, critical", ErrInvalid, c.Defaults.Priority)
	}
	if c.TUI.VisibleTags < 0 {
		return fmt.Errorf("%w: tui.visible_tags must be >= 0", ErrInvalid)
	}
	if c.TUI.StaleDays < 0 {
		return fmt.Errorf("%w: tui.stale_days must be >= 0", ErrInvalid)
	}
	if c.Server.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.Server.LogLevel); err != nil {
			return fmt.Errorf("%w: server.log_level: %w", ErrInvalid, err)
		}
	}
	return nil
}

func (c *Config) validateStages() error {
	if len(c.Stages) < 2 { //nolint:mnd // minimum 2 stages for a pipeline
		return fmt.Errorf("%w: at least 2 stages are required", ErrInvalid)
	}
	seen := make(map[string]bool, len(c.Stages))
	for _, s := range c.Stages {
		if s.ID == "" {
			return fmt.Errorf("%w: stage id is required", ErrInvalid)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate stage id %q", ErrInvalid, s.ID)
		}
		seen[s.ID] = true
		if s.Name == "" {
			return fmt.Errorf("%w: stage %q needs a name", ErrInvalid, s.ID)
		}
		if s.Won && s.Lost {
			return fmt.Errorf("%w: stage %q cannot be both won and lost", ErrInvalid, s.ID)
		}
	}
	return nil
}

// BoardStages converts the configured stages into board stages. Positions
// follow list order.
func (c *Config) BoardStages() []kanban.Stage {
	out := make([]kanban.Stage, len(c.Stages))
	for i, s := range c.Stages {
		out[i] = kanban.Stage{
			ID:       s.ID,
			Name:     kanban.LocalizedName{EN: s.Name, AR: s.NameAR},
			Color:    s.Color,
			Position: i,
			Won:      s.Won,
			Lost:     s.Lost,
		}
	}
	return out
}

// StageIndex returns the index of a stage id in the configured order, or -1.
func (c *Config) StageIndex(id string) int {
	for i, s := range c.Stages {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// StageIDs returns the configured stage ids in order.
func (c *Config) StageIDs() []string {
	ids := make([]string, len(c.Stages))
	for i, s := range c.Stages {
		ids[i] = s.ID
	}
	return ids
}

// ApplyEnv overrides server settings from CASEBOARD_* environment variables.
func (c *Config) ApplyEnv() error {
	var e serverEnv
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if e.Addr != "" {
		c.Server.Addr = e.Addr
	}
	if e.LogLevel != "" {
		if _, err := logrus.ParseLevel(e.LogLevel); err != nil {
			return fmt.Errorf("%w: CASEBOARD_LOG_LEVEL: %w", ErrInvalid, err)
		}
		c.Server.LogLevel = e.LogLevel
	}
	return nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Init creates a new board directory with a default config and an empty
// cards file.
func Init(dir, name string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if _, err := os.Stat(filepath.Join(absDir, ConfigFileName)); err == nil {
		return nil, clierr.Newf(clierr.BoardExists, "board already exists in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}
	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating board directory: %w", err)
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)
	if err := cfg.Save(); err != nil {
		return nil, err
	}
	if err := os.WriteFile(cfg.CardsPath(), []byte("cards: []\n"), fileMode); err != nil {
		return nil, fmt.Errorf("creating cards file: %w", err)
	}
	return cfg, nil
}

// Load reads, migrates and validates a config from the given board directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a board directory
// containing config.yml. Returns the absolute path to the board directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the board directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.BoardNotFound,
				"no caseboard found (run 'caseboard init' to create one)")
		}
		dir = parent
	}
}
