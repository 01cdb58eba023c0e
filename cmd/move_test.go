package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/caseboard/caseboard/internal/clierr"
	"github.com/caseboard/caseboard/internal/store"
)

func newMoveCmd() *cobra.Command {
	return newTestCmd(func(cmd *cobra.Command) {
		cmd.Flags().Bool("next", false, "")
		cmd.Flags().Bool("prev", false, "")
		cmd.Flags().String("before", "", "")
		cmd.Flags().Int("order", 0, "")
		cmd.Flags().BoolP("yes", "y", false, "")
	})
}

// setupMoveBoard seeds intake [Lease dispute, Estate of Haddad] and
// consultation [Custody hearing].
func setupMoveBoard(t *testing.T) (string, map[string]string) {
	t.Helper()
	boardDir := setupBoard(t)
	cards := seedCards(t,
		seed{"intake", "Lease dispute"},
		seed{"intake", "Estate of Haddad"},
		seed{"consultation", "Custody hearing"},
	)
	ids := make(map[string]string, len(cards))
	for _, c := range cards {
		ids[c.Title] = c.ID
	}
	return boardDir, ids
}

func TestRunMove_Targets(t *testing.T) {
	tests := []struct {
		name         string
		card         string
		args         []string
		flags        map[string]string
		intake       []string
		consultation []string
	}{
		{
			name:         "stage appends",
			card:         "Lease dispute",
			args:         []string{"consultation"},
			intake:       []string{"Estate of Haddad"},
			consultation: []string{"Custody hearing", "Lease dispute"},
		},
		{
			name:         "before takes the card's position",
			card:         "Custody hearing",
			flags:        map[string]string{"before": "Estate of Haddad"},
			intake:       []string{"Lease dispute", "Custody hearing", "Estate of Haddad"},
			consultation: nil,
		},
		{
			name:         "explicit order",
			card:         "Estate of Haddad",
			args:         []string{"consultation"},
			flags:        map[string]string{"order": "0"},
			intake:       []string{"Lease dispute"},
			consultation: []string{"Estate of Haddad", "Custody hearing"},
		},
		{
			name:         "order past the end is clamped",
			card:         "Lease dispute",
			args:         []string{"intake"},
			flags:        map[string]string{"order": "9"},
			intake:       []string{"Estate of Haddad", "Lease dispute"},
			consultation: []string{"Custody hearing"},
		},
		{
			name:         "next stage",
			card:         "Lease dispute",
			flags:        map[string]string{"next": "true"},
			intake:       []string{"Estate of Haddad"},
			consultation: []string{"Custody hearing", "Lease dispute"},
		},
		{
			name:         "prev stage",
			card:         "Custody hearing",
			flags:        map[string]string{"prev": "true"},
			intake:       []string{"Lease dispute", "Estate of Haddad", "Custody hearing"},
			consultation: nil,
		},
		{
			name:         "reorder within stage",
			card:         "Estate of Haddad",
			flags:        map[string]string{"before": "Lease dispute"},
			intake:       []string{"Estate of Haddad", "Lease dispute"},
			consultation: []string{"Custody hearing"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ids := setupMoveBoard(t)
			setFlags(t, true, false, false)
			cmd := newMoveCmd()
			for k, v := range tt.flags {
				if k == "before" {
					v = ids[v]
				}
				_ = cmd.Flags().Set(k, v)
			}

			r, w := captureStdout(t)
			err := runMove(cmd, append([]string{ids[tt.card]}, tt.args...))
			got := drainPipe(t, r, w)
			if err != nil {
				t.Fatalf("runMove: %v", err)
			}

			res := decodeJSON[moveResult](t, got)
			if !res.Changed {
				t.Errorf("changed = false, output: %s", got)
			}
			assertStageTitles(t, "intake", tt.intake...)
			assertStageTitles(t, "consultation", tt.consultation...)
		})
	}
}

func TestRunMove_IDPrefix(t *testing.T) {
	_, ids := setupMoveBoard(t)
	setFlags(t, false, true, false)

	r, w := captureStdout(t)
	err := runMove(newMoveCmd(), []string{ids["Lease dispute"][:8], "consultation"})
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "intake → consultation") {
		t.Errorf("output = %q", got)
	}
}

func TestRunMove_NoChange(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		flags map[string]string
	}{
		{"last card onto own stage", []string{"intake"}, nil},
		{"onto itself", nil, map[string]string{"before": "Estate of Haddad"}},
		{"same explicit order", []string{"intake"}, map[string]string{"order": "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boardDir, ids := setupMoveBoard(t)
			setFlags(t, false, true, false)
			cmd := newMoveCmd()
			for k, v := range tt.flags {
				if k == "before" {
					v = ids[v]
				}
				_ = cmd.Flags().Set(k, v)
			}

			r, w := captureStdout(t)
			err := runMove(cmd, append([]string{ids["Estate of Haddad"]}, tt.args...))
			got := drainPipe(t, r, w)
			if err != nil {
				t.Fatal(err)
			}

			if !strings.Contains(got, "already there") {
				t.Errorf("output = %q, want already there", got)
			}
			if entries := readLog(t, boardDir, store.ActionMove); len(entries) != 0 {
				t.Errorf("logged %d moves, want none", len(entries))
			}
			assertStageTitles(t, "intake", "Lease dispute", "Estate of Haddad")
		})
	}
}

func TestRunMove_Errors(t *testing.T) {
	tests := []struct {
		name  string
		card  string
		args  []string
		flags map[string]string
		code  string
	}{
		{"no target", "Lease dispute", nil, nil, clierr.InvalidInput},
		{"stage and next", "Lease dispute", []string{"won"}, map[string]string{"next": "true"}, clierr.InvalidInput},
		{"order with before", "Lease dispute", nil, map[string]string{"before": "Custody hearing", "order": "0"}, clierr.InvalidInput},
		{"negative order", "Lease dispute", []string{"intake"}, map[string]string{"order": "-1"}, clierr.InvalidOrder},
		{"unknown stage", "Lease dispute", []string{"appeal"}, nil, clierr.StageNotFound},
		{"prev from first stage", "Lease dispute", nil, map[string]string{"prev": "true"}, clierr.InvalidInput},
		{"unknown card", "", []string{"intake"}, nil, clierr.CardNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ids := setupMoveBoard(t)
			cmd := newMoveCmd()
			for k, v := range tt.flags {
				if k == "before" {
					v = ids[v]
				}
				_ = cmd.Flags().Set(k, v)
			}
			id := ids[tt.card]
			if tt.card == "" {
				id = "does-not-exist"
			}

			err := runMove(cmd, append([]string{id}, tt.args...))
			assertCode(t, err, tt.code)
		})
	}
}

func TestRunMove_NextFromLastStage(t *testing.T) {
	setupBoard(t)
	cards := seedCards(t, seed{"lost", "Estate of Haddad"})

	err := runMove(newMoveCmd(), []string{cards[0].ID})
	if err == nil {
		t.Fatal("expected error for no target")
	}

	cmd := newMoveCmd()
	_ = cmd.Flags().Set("next", "true")
	err = runMove(cmd, []string{cards[0].ID})
	assertCode(t, err, clierr.InvalidInput)
	if !strings.Contains(err.Error(), "already in the last stage") {
		t.Errorf("error = %v", err)
	}
}

func TestRunMove_TerminalRequiresConfirmation(t *testing.T) {
	boardDir, ids := setupMoveBoard(t)
	setTerminal(t, false)

	err := runMove(newMoveCmd(), []string{ids["Custody hearing"], "won"})
	assertCode(t, err, clierr.ConfirmRequired)
	if !strings.Contains(err.Error(), "--yes") {
		t.Errorf("error = %v, want hint about --yes", err)
	}
	if entries := readLog(t, boardDir, store.ActionMove); len(entries) != 0 {
		t.Errorf("logged %d moves, want none", len(entries))
	}
	assertStageTitles(t, "won")
}

func TestRunMove_TerminalWithYes(t *testing.T) {
	_, ids := setupMoveBoard(t)
	setTerminal(t, false)
	setFlags(t, false, true, false)

	cmd := newMoveCmd()
	_ = cmd.Flags().Set("yes", "true")
	r, w := captureStdout(t)
	err := runMove(cmd, []string{ids["Custody hearing"], "lost"})
	drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}
	assertStageTitles(t, "lost", "Custody hearing")
}

func TestRunMove_TerminalPrompt(t *testing.T) {
	tests := []struct {
		answer string
		moved  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"\n", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.answer), func(t *testing.T) {
			_, ids := setupMoveBoard(t)
			setTerminal(t, true)
			setFlags(t, false, true, false)
			replaceStdin(t, tt.answer)

			rErr, wErr := captureStderr(t)
			rOut, wOut := captureStdout(t)
			err := runMove(newMoveCmd(), []string{ids["Lease dispute"], "won"})
			drainPipe(t, rOut, wOut)
			prompt := drainPipe(t, rErr, wErr)

			if !strings.Contains(prompt, "as won? [y/N]") {
				t.Errorf("prompt = %q", prompt)
			}
			if tt.moved {
				if err != nil {
					t.Fatal(err)
				}
				assertStageTitles(t, "won", "Lease dispute")
				return
			}
			assertCode(t, err, clierr.ConfirmRequired)
			assertStageTitles(t, "won")
		})
	}
}

func TestRunMove_NonTerminalStageNeedsNoConfirmation(t *testing.T) {
	_, ids := setupMoveBoard(t)
	setTerminal(t, false)
	setFlags(t, false, true, false)

	r, w := captureStdout(t)
	err := runMove(newMoveCmd(), []string{ids["Lease dispute"], "in-progress"})
	drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}
	assertStageTitles(t, "in-progress", "Lease dispute")
}

func TestRunMove_WithinTerminalStageNeedsNoConfirmation(t *testing.T) {
	setupBoard(t)
	cards := seedCards(t, seed{"won", "First"}, seed{"won", "Second"})
	setTerminal(t, false)
	setFlags(t, false, true, false)

	cmd := newMoveCmd()
	_ = cmd.Flags().Set("before", cards[0].ID)
	r, w := captureStdout(t)
	err := runMove(cmd, []string{cards[1].ID})
	drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}
	assertStageTitles(t, "won", "Second", "First")
}
