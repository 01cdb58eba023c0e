package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/caseboard/caseboard/internal/clierr"
	"github.com/caseboard/caseboard/internal/date"
	"github.com/caseboard/caseboard/internal/output"
	"github.com/caseboard/caseboard/internal/store"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show activity log",
	Long:  `Displays the activity log of board mutations (create, move, edit, delete).`,
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func init() {
	logCmd.Flags().String("since", "", "show entries after this date (YYYY-MM-DD)")
	logCmd.Flags().Int("limit", 0, "maximum number of entries to show (most recent)")
	logCmd.Flags().String("action", "", "filter by action type (create, move, edit, delete)")
	logCmd.Flags().String("card", "", "filter by case id or prefix")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	opts := store.LogFilterOptions{}
	if v, _ := cmd.Flags().GetString("since"); v != "" {
		d, parseErr := date.Parse(v)
		if parseErr != nil {
			return clierr.Newf(clierr.InvalidDate, "invalid --since date %q: %v", v, parseErr).
				WithDetails(map[string]any{"since": v})
		}
		opts.Since = d.Time
	}
	if v, _ := cmd.Flags().GetInt("limit"); v > 0 {
		opts.Limit = v
	}
	if v, _ := cmd.Flags().GetString("action"); v != "" {
		opts.Action = v
	}
	if v, _ := cmd.Flags().GetString("card"); v != "" {
		// Deleted cards can still be filtered by their full id.
		id, err := st.Resolve(commandContext(cmd), v)
		if err != nil {
			id = v
		}
		opts.CardID = id
	}

	entries, err := store.ReadLog(st.Config().Dir(), opts)
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		if entries == nil {
			entries = []store.LogEntry{}
		}
		return output.JSON(os.Stdout, entries)
	case output.FormatCompact:
		output.ActivityLogCompact(os.Stdout, entries)
	default:
		output.ActivityLogTable(os.Stdout, entries)
	}
	return nil
}
