package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/caseboard/caseboard/internal/clierr"
	"github.com/caseboard/caseboard/internal/config"
	"github.com/caseboard/caseboard/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new board",
	Long: `Creates a board directory with a default config and an empty cards file.
The board goes into ./caseboard unless --dir is given. Stages default to
Intake, Consultation, In Progress, Won and Lost.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "board name (default: current directory name)")
	initCmd.Flags().String("locale", config.DefaultLocale, "display locale (en or ar)")
	initCmd.Flags().Bool("gitignore", false, "add the board directory to .gitignore")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	dir := flagDir
	if dir == "" {
		dir = filepath.Join(cwd, config.DefaultDir)
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = filepath.Base(cwd)
	}
	locale, _ := cmd.Flags().GetString("locale")
	if locale != "en" && locale != "ar" {
		return clierr.Newf(clierr.InvalidInput, "locale must be en or ar, got %q", locale)
	}

	cfg, err := config.Init(dir, name)
	if err != nil {
		return err
	}
	if locale != cfg.Locale {
		cfg.Locale = locale
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
	}

	if v, _ := cmd.Flags().GetBool("gitignore"); v {
		path, entry, err := gitignorePromptData(cfg.Dir())
		if err != nil {
			return err
		}
		if err := ensureGitignoreEntry(path, entry); err != nil {
			return err
		}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "initialized",
			"name":   cfg.Board.Name,
			"dir":    cfg.Dir(),
			"stages": cfg.StageIDs(),
		})
	}
	output.Messagef(os.Stdout, "Initialized board %q in %s", cfg.Board.Name, cfg.Dir())
	return nil
}
