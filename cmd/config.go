package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caseboard/caseboard/internal/clierr"
	"github.com/caseboard/caseboard/internal/config"
	"github.com/caseboard/caseboard/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify board configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get func(*config.Config) any
	set func(*config.Config, string) error
}

func setInt(dst *int) func(*config.Config, string) error {
	return func(_ *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return clierr.Newf(clierr.InvalidInput, "expected an integer, got %q", v)
		}
		*dst = n
		return nil
	}
}

func configAccessors(c *config.Config) map[string]configAccessor {
	return map[string]configAccessor{
		"version": {get: func(c *config.Config) any { return c.Version }},
		"board.name": {
			get: func(c *config.Config) any { return c.Board.Name },
			set: func(c *config.Config, v string) error { c.Board.Name = v; return nil },
		},
		"board.description": {
			get: func(c *config.Config) any { return c.Board.Description },
			set: func(c *config.Config, v string) error { c.Board.Description = v; return nil },
		},
		"cards_file": {get: func(c *config.Config) any { return c.CardsFile }},
		"locale": {
			get: func(c *config.Config) any { return c.Locale },
			set: func(c *config.Config, v string) error { c.Locale = v; return nil },
		},
		"stages": {get: func(c *config.Config) any { return c.StageIDs() }},
		"defaults.stage": {
			get: func(c *config.Config) any { return c.Defaults.Stage },
			set: func(c *config.Config, v string) error { c.Defaults.Stage = v; return nil },
		},
		"defaults.priority": {
			get: func(c *config.Config) any { return c.Defaults.Priority },
			set: func(c *config.Config, v string) error { c.Defaults.Priority = v; return nil },
		},
		"tui.visible_tags": {
			get: func(c *config.Config) any { return c.TUI.VisibleTags },
			set: setInt(&c.TUI.VisibleTags),
		},
		"tui.stale_days": {
			get: func(c *config.Config) any { return c.TUI.StaleDays },
			set: setInt(&c.TUI.StaleDays),
		},
		"tui.skip_terminal_confirm": {
			get: func(c *config.Config) any { return c.TUI.SkipTerminalConfirm },
			set: func(c *config.Config, v string) error {
				b, err := strconv.ParseBool(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput, "expected true or false, got %q", v)
				}
				c.TUI.SkipTerminalConfirm = b
				return nil
			},
		},
		"server.addr": {
			get: func(c *config.Config) any { return c.Server.Addr },
			set: func(c *config.Config, v string) error { c.Server.Addr = v; return nil },
		},
		"server.log_level": {
			get: func(c *config.Config) any { return c.Server.LogLevel },
			set: func(c *config.Config, v string) error { c.Server.LogLevel = v; return nil },
		},
	}
}

// allConfigKeys returns config keys in display order.
func allConfigKeys() []string {
	return []string{
		"version",
		"board.name",
		"board.description",
		"cards_file",
		"locale",
		"stages",
		"defaults.stage",
		"defaults.priority",
		"tui.visible_tags",
		"tui.stale_days",
		"tui.skip_terminal_confirm",
		"server.addr",
		"server.log_level",
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	accessors := configAccessors(cfg)

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range allConfigKeys() {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	for _, key := range allConfigKeys() {
		fmt.Fprintf(os.Stdout, "%-26s %s\n", key, formatConfigValue(accessors[key].get(cfg)))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	acc, ok := configAccessors(cfg)[args[0]]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", args[0])
	}
	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}
	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	// Environment overrides must not be written back to the file.
	cfg, err := findConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	acc, ok := configAccessors(cfg)[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if acc.set == nil {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	if err := acc.set(cfg, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.ConfigInvalid, err.Error())
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}
	output.Messagef(os.Stdout, "Set %s = %s", key, formatConfigValue(acc.get(cfg)))
	return nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ", ")
	case string:
		if v == "" {
			return "--"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
