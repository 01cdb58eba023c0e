package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/caseboard/caseboard/internal/clierr"
	"github.com/caseboard/caseboard/internal/kanban"
	"github.com/caseboard/caseboard/internal/output"
	"github.com/caseboard/caseboard/internal/store"
)

var moveCmd = &cobra.Command{
	Use:   "move ID [STAGE]",
	Short: "Move a case to another stage or position",
	Long: `Moves a case the way a drop on the board does. With STAGE (or --next or
--prev) the case goes to the end of that stage; with --before it takes the
position of another case; --order sets an explicit position. Moving a case
into a won or lost stage asks for confirmation unless --yes is given.`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // 1 or 2 positional args
	RunE: runMove,
}

func init() {
	moveCmd.Flags().Bool("next", false, "move to the next stage")
	moveCmd.Flags().Bool("prev", false, "move to the previous stage")
	moveCmd.Flags().String("before", "", "insert before this case")
	moveCmd.Flags().Int("order", 0, "explicit zero-based position in the target stage")
	moveCmd.Flags().BoolP("yes", "y", false, "confirm closing the case without prompting")
	rootCmd.AddCommand(moveCmd)
}

// stdinIsTerminal reports whether confirmation prompts can be shown.
// Replaceable in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // fd fits in int
}

// moveResult wraps a card with a changed flag for JSON output.
type moveResult struct {
	kanban.Card
	From    string `json:"from"`
	Changed bool   `json:"changed"`
}

func runMove(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	id, err := st.Resolve(ctx, args[0])
	if err != nil {
		return err
	}
	snap, err := st.Snapshot(ctx)
	if err != nil {
		return err
	}
	p := kanban.DerivePartition(snap.Stages, snap.Cards)
	card, ok := p.Card(id)
	if !ok {
		return clierr.Newf(clierr.StageNotFound, "case %s is in unknown stage %q", output.ShortID(id), cardStage(snap, id)).
			WithDetails(map[string]any{"id": id})
	}

	in, changed, err := resolveMove(cmd, st, snap, p, card, args)
	if err != nil {
		return err
	}
	if !changed {
		return outputMove(moveResult{Card: card, From: card.StageID})
	}

	if p.ClosesCase(in) {
		yes, _ := cmd.Flags().GetBool("yes")
		if err := confirmClose(yes, card, p, in.StageID); err != nil {
			return err
		}
	}

	moved, err := st.Move(ctx, in)
	if err != nil {
		return err
	}
	return outputMove(moveResult{Card: moved, From: card.StageID, Changed: true})
}

// resolveMove turns the arguments into a move intent. It reports false when
// the move would leave the board unchanged.
func resolveMove(cmd *cobra.Command, st *store.Store, snap store.Snapshot, p kanban.Partition,
	card kanban.Card, args []string,
) (kanban.MoveIntent, bool, error) {
	flags := cmd.Flags()
	before, _ := flags.GetString("before")
	next, _ := flags.GetBool("next")
	prev, _ := flags.GetBool("prev")

	targets := 0
	for _, set := range []bool{len(args) > 1, next, prev, before != ""} {
		if set {
			targets++
		}
	}
	switch {
	case targets == 0:
		return kanban.MoveIntent{}, false, clierr.New(clierr.InvalidInput,
			"provide a target stage, --next, --prev or --before")
	case targets > 1:
		return kanban.MoveIntent{}, false, clierr.New(clierr.InvalidInput,
			"STAGE, --next, --prev and --before are mutually exclusive")
	}

	var hit kanban.Hit
	switch {
	case before != "":
		if flags.Changed("order") {
			return kanban.MoveIntent{}, false, clierr.New(clierr.InvalidInput, "--order cannot be combined with --before")
		}
		ref, err := st.Resolve(commandContext(cmd), before)
		if err != nil {
			return kanban.MoveIntent{}, false, err
		}
		hit.CardID = ref
	case len(args) > 1:
		if !p.HasStage(args[1]) {
			return kanban.MoveIntent{}, false, clierr.Newf(clierr.StageNotFound, "stage %q not found", args[1]).
				WithDetails(map[string]any{"stage": args[1], "allowed": st.Config().StageIDs()})
		}
		hit.StageID = args[1]
	default:
		stage, err := neighbourStage(p, card, next)
		if err != nil {
			return kanban.MoveIntent{}, false, err
		}
		hit.StageID = stage
	}

	if flags.Changed("order") {
		order, _ := flags.GetInt("order")
		if order < 0 {
			return kanban.MoveIntent{}, false, clierr.Newf(clierr.InvalidOrder, "order must not be negative, got %d", order)
		}
		_, idx, _ := p.Locate(card.ID)
		if hit.StageID == card.StageID && order == idx {
			return kanban.MoveIntent{}, false, nil
		}
		return kanban.MoveIntent{CardID: card.ID, StageID: hit.StageID, Order: order}, true, nil
	}

	kb := kanban.NewBoard(kanban.Handlers{})
	kb.SetProps(kanban.Props{Stages: snap.Stages, Cards: snap.Cards})
	if !kb.BeginDrag(card.ID) {
		return kanban.MoveIntent{}, false, nil
	}
	in, ok := kb.Drop(hit)
	return in, ok, nil
}

// neighbourStage returns the stage after (or before) the card's stage.
func neighbourStage(p kanban.Partition, card kanban.Card, forward bool) (string, error) {
	stages := p.Stages()
	for i, s := range stages {
		if s.ID != card.StageID {
			continue
		}
		j := i - 1
		edge := "first"
		if forward {
			j = i + 1
			edge = "last"
		}
		if j < 0 || j >= len(stages) {
			return "", clierr.Newf(clierr.InvalidInput, "case %s is already in the %s stage", describeCard(card), edge).
				WithDetails(map[string]any{"stage": card.StageID})
		}
		return stages[j].ID, nil
	}
	return "", clierr.Newf(clierr.StageNotFound, "stage %q not found", card.StageID)
}

// confirmClose asks before a case is moved into a won or lost stage.
func confirmClose(yes bool, card kanban.Card, p kanban.Partition, stageID string) error {
	if yes {
		return nil
	}
	s, _ := p.Stage(stageID)
	verb := "won"
	if s.Lost {
		verb = "lost"
	}
	if !stdinIsTerminal() {
		return clierr.Newf(clierr.ConfirmRequired,
			"moving to %q closes the case as %s; use --yes to confirm", stageID, verb).
			WithDetails(map[string]any{"id": card.ID, "stage": stageID})
	}
	fmt.Fprintf(os.Stderr, "Close case %s as %s? [y/N] ", describeCard(card), verb)
	ok, err := readYes(os.Stdin, false)
	if err != nil {
		return err
	}
	if !ok {
		return clierr.New(clierr.ConfirmRequired, "move canceled")
	}
	return nil
}

func outputMove(r moveResult) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, r)
	}
	if !r.Changed {
		output.Messagef(os.Stdout, "Case %s is already there", describeCard(r.Card))
		return nil
	}
	output.Messagef(os.Stdout, "Moved case %s: %s → %s (position %d)", describeCard(r.Card), r.From, r.StageID, r.Order+1)
	return nil
}

func cardStage(snap store.Snapshot, id string) string {
	for _, c := range snap.Cards {
		if c.ID == id {
			return c.StageID
		}
	}
	return ""
}
