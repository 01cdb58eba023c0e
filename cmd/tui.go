package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/caseboard/caseboard/internal/clierr"
	"github.com/caseboard/caseboard/internal/config"
	"github.com/caseboard/caseboard/internal/store"
	"github.com/caseboard/caseboard/internal/tui"
	"github.com/caseboard/caseboard/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive board",
	Long: `Launches the interactive terminal board. Drag cases between stages with
the mouse, or grab one with space and drop it with the arrow keys and enter.
The board live-reloads when the cards file changes on disk.

Press ? for help.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().String("log-file", "", "write diagnostic logs to this file")
	tuiCmd.Flags().Bool("no-mouse", false, "disable mouse support")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		if !isBoardNotFound(err) || flagDir != "" {
			return err
		}
		if cfg, err = offerInitTUI(); err != nil {
			return err
		}
	}

	logPath, _ := cmd.Flags().GetString("log-file")
	logger, closeLog, err := tuiLogger(logPath, cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	st := store.Open(cfg)
	model := tui.NewBoard(st)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if noMouse, _ := cmd.Flags().GetBool("no-mouse"); !noMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(model, opts...)

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	go startTUIWatcher(ctx, model, p, logger)

	_, err = p.Run()
	return err
}

// tuiLogger returns a logger for the board session. The screen belongs to
// the board, so logs go to a file or nowhere.
func tuiLogger(path, level string) (*logrus.Logger, func(), error) {
	if path == "" {
		logger, err := newLogger(io.Discard, level)
		return logger, func() {}, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // user-chosen log path
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger, err := newLogger(f, level)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return logger, func() { _ = f.Close() }, nil
}

func isBoardNotFound(err error) bool {
	var cliErr *clierr.Error
	return errors.As(err, &cliErr) && cliErr.Code == clierr.BoardNotFound
}

func offerInitTUI() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	name := filepath.Base(cwd)
	boardDir := filepath.Join(cwd, config.DefaultDir)

	fmt.Printf("No caseboard found. Create one in %s? [Y/n] ", boardDir)
	ok, err := readYes(os.Stdin, true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("no board found; run 'caseboard init' to create one")
	}

	cfg, err := config.Init(boardDir, name)
	if err != nil {
		return nil, fmt.Errorf("initializing board: %w", err)
	}

	fmt.Printf("Board %q created in %s\n", name, boardDir)
	if err := offerGitignore(os.Stdin, boardDir); err != nil {
		return nil, err
	}
	return cfg, nil
}

// sender is the part of *tea.Program the watcher needs.
type sender interface {
	Send(msg tea.Msg)
}

func startTUIWatcher(ctx context.Context, model *tui.Board, p sender, logger *logrus.Logger) {
	w, err := watcher.New(model.WatchPaths(), func() {
		logger.Debug("cards file changed, reloading")
		p.Send(tui.ReloadMsg{})
	}, watcher.WithFiles(model.WatchFiles()...))
	if err != nil {
		// Non-fatal: the board works without live refresh.
		logger.WithError(err).Warn("file watcher unavailable")
		p.Send(tui.WatchErrorMsg{Err: err})
		return
	}
	defer w.Close()
	w.Run(ctx, func(err error) {
		logger.WithError(err).Warn("file watcher error")
		p.Send(tui.WatchErrorMsg{Err: err})
	})
}
