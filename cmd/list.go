package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caseboard/caseboard/internal/board"
	"github.com/caseboard/caseboard/internal/clierr"
	"github.com/caseboard/caseboard/internal/kanban"
	"github.com/caseboard/caseboard/internal/output"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List cases",
	Long:    `Lists cases in board order with optional filtering, sorting and output format control.`,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().String("stage", "", "only cases in this stage")
	listCmd.Flags().StringSlice("priority", nil, "filter by priority (comma-separated)")
	listCmd.Flags().String("assignee", "", "filter by assignee id or name")
	listCmd.Flags().String("tag", "", "filter by tag")
	listCmd.Flags().StringP("search", "s", "", "case-insensitive search over title, description and tags")
	listCmd.Flags().String("sort", board.SortStage, "sort field ("+strings.Join(board.SortFields, ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	opts, err := listOptions(cmd)
	if err != nil {
		return err
	}
	if opts.Stage != "" && st.Config().StageIndex(opts.Stage) < 0 {
		return clierr.Newf(clierr.StageNotFound, "stage %q not found", opts.Stage).
			WithDetails(map[string]any{"stage": opts.Stage, "allowed": st.Config().StageIDs()})
	}

	snap, err := st.Snapshot(commandContext(cmd))
	if err != nil {
		return err
	}
	cards := board.List(snap.Stages, snap.Cards, opts)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, cards)
	case output.FormatCompact:
		output.CardCompact(os.Stdout, cards)
	default:
		output.CardTable(os.Stdout, cards, now())
	}
	return nil
}

func listOptions(cmd *cobra.Command) (board.ListOptions, error) {
	stage, _ := cmd.Flags().GetString("stage")
	priorities, _ := cmd.Flags().GetStringSlice("priority")
	assignee, _ := cmd.Flags().GetString("assignee")
	tag, _ := cmd.Flags().GetString("tag")
	search, _ := cmd.Flags().GetString("search")
	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")

	if err := board.ValidSortField(sortBy); err != nil {
		return board.ListOptions{}, clierr.New(clierr.InvalidInput, err.Error())
	}
	if limit < 0 {
		return board.ListOptions{}, clierr.New(clierr.InvalidInput, "--limit must not be negative")
	}

	filter := kanban.FilterOptions{Search: search, Assignee: assignee, Tag: tag}
	for _, v := range priorities {
		p, err := parsePriority(v)
		if err != nil {
			return board.ListOptions{}, err
		}
		filter.Priorities = append(filter.Priorities, p)
	}

	return board.ListOptions{
		Filter:  filter,
		Stage:   stage,
		SortBy:  sortBy,
		Reverse: reverse,
		Limit:   limit,
	}, nil
}

func parsePriority(v string) (kanban.Priority, error) {
	p, ok := kanban.ParsePriority(strings.TrimSpace(v))
	if !ok {
		return "", clierr.Newf(clierr.InvalidPriority,
			"invalid priority %q (valid: low, medium, high, critical)", v).
			WithDetails(map[string]any{"priority": v})
	}
	return p, nil
}
