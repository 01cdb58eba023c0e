package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caseboard/caseboard/internal/clierr"
	"github.com/caseboard/caseboard/internal/output"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a case",
	Long:    `Removes a case from the board. Prompts for confirmation in interactive mode.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("force", "f", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	// Require confirmation in TTY mode unless --force.
	if force, _ := cmd.Flags().GetBool("force"); !force {
		if !stdinIsTerminal() {
			return clierr.New(clierr.ConfirmRequired,
				"cannot prompt for confirmation (not a terminal); use --force")
		}
		fmt.Fprintf(os.Stderr, "Delete case %s? [y/N] ", describeCard(c))
		ok, err := readYes(os.Stdin, false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	if _, err := st.Delete(ctx, id); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"status": "deleted",
			"id":     c.ID,
			"title":  c.Title,
		})
	}
	output.Messagef(os.Stdout, "Deleted case %s", describeCard(c))
	return nil
}
