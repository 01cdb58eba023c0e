package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caseboard/caseboard/internal/clierr"
	"github.com/caseboard/caseboard/internal/date"
	"github.com/caseboard/caseboard/internal/kanban"
	"github.com/caseboard/caseboard/internal/output"
	"github.com/caseboard/caseboard/internal/store"
)

var createCmd = &cobra.Command{
	Use:     "create TITLE",
	Aliases: []string{"add"},
	Short:   "Create a new case",
	Long: `Creates a case at the end of a stage. The stage and priority default to
the values in the board config.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("stage", "", "stage id (default from config)")
	addCardFlags(createCmd)
	rootCmd.AddCommand(createCmd)
}

// addCardFlags registers the field flags shared by create and edit.
func addCardFlags(cmd *cobra.Command) {
	cmd.Flags().String("priority", "", "priority (low, medium, high, critical)")
	cmd.Flags().String("assignee", "", "assigned lawyer")
	cmd.Flags().StringSlice("tags", nil, "comma-separated tags")
	cmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().String("value", "", "claim value")
	cmd.Flags().String("description", "", "case description")
}

func runCreate(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}

	patch, err := patchFromFlags(cmd)
	if err != nil {
		return err
	}
	stage, _ := cmd.Flags().GetString("stage")

	c, err := st.CreateWith(commandContext(cmd), stage, args[0], patch)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, c)
	}
	output.Messagef(os.Stdout, "Created case %s: %s", output.ShortID(c.ID), c.Title)
	output.Messagef(os.Stdout, "  Stage: %s | Priority: %s", c.StageID, c.Priority)
	if c.Assignee != nil {
		output.Messagef(os.Stdout, "  Assignee: %s", c.Assignee.Name)
	}
	if len(c.Tags) > 0 {
		output.Messagef(os.Stdout, "  Tags: %s", strings.Join(c.Tags, ", "))
	}
	return nil
}

// patchFromFlags turns the changed field flags into a card patch.
func patchFromFlags(cmd *cobra.Command) (store.CardPatch, error) {
	var p store.CardPatch
	flags := cmd.Flags()

	if flags.Changed("priority") {
		v, _ := flags.GetString("priority")
		prio, err := parsePriority(v)
		if err != nil {
			return p, err
		}
		p.Priority = &prio
	}
	if flags.Changed("assignee") {
		v, _ := flags.GetString("assignee")
		if v = strings.TrimSpace(v); v != "" {
			p.Assignee = &kanban.Assignee{ID: v, Name: v}
		}
	}
	if flags.Changed("tags") {
		v, _ := flags.GetStringSlice("tags")
		p.Tags = cleanTags(v)
	}
	if flags.Changed("due") {
		v, _ := flags.GetString("due")
		d, err := date.Parse(v)
		if err != nil {
			return p, clierr.Newf(clierr.InvalidDate, "invalid due date %q: %v", v, err).
				WithDetails(map[string]any{"due": v})
		}
		p.Due = &d
	}
	if flags.Changed("value") {
		v, _ := flags.GetString("value")
		f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		if err != nil || f < 0 {
			return p, clierr.Newf(clierr.InvalidInput, "invalid value %q", v)
		}
		p.Value = &f
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		p.Description = &v
	}
	return p, nil
}

// cleanTags trims tags and drops empty and duplicate ones. The result is
// never nil so that an empty list clears the tags.
func cleanTags(tags []string) []string {
	out := []string{}
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		out = append(out, t)
	}
	return out
}

// describeCard is the one-line reference used in command messages.
func describeCard(c kanban.Card) string {
	return fmt.Sprintf("%s %q", output.ShortID(c.ID), c.Title)
}
