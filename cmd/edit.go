package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caseboard/caseboard/internal/clierr"
	"github.com/caseboard/caseboard/internal/output"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a case",
	Long: `Modifies fields of an existing case. Only specified fields are changed.
Use move to change the stage or position.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	addCardFlags(editCmd)
	editCmd.Flags().StringSlice("add-tag", nil, "add tags")
	editCmd.Flags().StringSlice("remove-tag", nil, "remove tags")
	editCmd.Flags().Bool("clear-due", false, "clear due date")
	editCmd.Flags().Bool("clear-assignee", false, "clear assignee")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	id, err := st.Resolve(ctx, args[0])
	if err != nil {
		return err
	}
	current, err := st.Get(ctx, id)
	if err != nil {
		return err
	}

	patch, err := patchFromFlags(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("title") {
		v, _ := cmd.Flags().GetString("title")
		patch.Title = &v
	}
	patch.ClearDue, _ = cmd.Flags().GetBool("clear-due")
	patch.ClearAssignee, _ = cmd.Flags().GetBool("clear-assignee")

	add, _ := cmd.Flags().GetStringSlice("add-tag")
	remove, _ := cmd.Flags().GetStringSlice("remove-tag")
	if len(add) > 0 || len(remove) > 0 {
		base := current.Tags
		if patch.Tags != nil {
			base = patch.Tags
		}
		patch.Tags = editTags(base, add, remove)
	}

	if patch.Empty() {
		return clierr.New(clierr.InvalidInput, "no changes specified")
	}

	c, err := st.Update(ctx, id, patch)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, c)
	}
	output.Messagef(os.Stdout, "Updated case %s", describeCard(c))
	return nil
}

// editTags adds and removes tags case-insensitively, keeping existing order.
func editTags(tags, add, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, t := range remove {
		drop[strings.ToLower(strings.TrimSpace(t))] = true
	}
	out := make([]string, 0, len(tags)+len(add))
	for _, t := range tags {
		if !drop[strings.ToLower(t)] {
			out = append(out, t)
		}
	}
	return cleanTags(append(out, add...))
}
