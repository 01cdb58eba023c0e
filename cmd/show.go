package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/caseboard/caseboard/internal/kanban"
	"github.com/caseboard/caseboard/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show case details",
	Long:  `Displays every field of a case. ID may be any unique prefix of the case id.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	id, err := st.Resolve(ctx, args[0])
	if err != nil {
		return err
	}
	c, err := st.Get(ctx, id)
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, c)
	case output.FormatCompact:
		output.CardDetailCompact(os.Stdout, c)
	default:
		stage := stageOf(st.Config().BoardStages(), c.StageID)
		output.CardDetail(os.Stdout, c, stage, st.Config().Locale, now())
	}
	return nil
}

// stageOf returns the stage with id, or a placeholder named after the id for
// cards whose stage is no longer configured.
func stageOf(stages []kanban.Stage, id string) kanban.Stage {
	for _, s := range stages {
		if s.ID == id {
			return s
		}
	}
	return kanban.Stage{ID: id, Name: kanban.LocalizedName{EN: id}}
}
