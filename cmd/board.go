package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/caseboard/caseboard/internal/board"
	"github.com/caseboard/caseboard/internal/output"
)

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"summary"},
	Short:   "Show board summary",
	Long: `Displays a summary of the board: case counts and claim value per stage,
urgent, overdue and stale cases, won and lost totals, and the priority
distribution.`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	snap, err := st.Snapshot(commandContext(cmd))
	if err != nil {
		return err
	}

	cfg := st.Config()
	ov := board.Summary(cfg.Board.Name, cfg.Locale, snap.Stages, snap.Cards, now(), cfg.TUI.StaleDays)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, ov)
	case output.FormatCompact:
		output.OverviewCompact(os.Stdout, ov)
	default:
		output.OverviewTable(os.Stdout, ov)
	}
	return nil
}
