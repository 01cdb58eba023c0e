package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/caseboard/caseboard/internal/clierr"
	"github.com/caseboard/caseboard/internal/store"
)

func newDeleteCmd(force bool) *cobra.Command {
	cmd := newTestCmd(func(cmd *cobra.Command) {
		cmd.Flags().BoolP("force", "f", false, "")
	})
	if force {
		_ = cmd.Flags().Set("force", "true")
	}
	return cmd
}

func TestRunDelete_Force(t *testing.T) {
	boardDir := setupBoard(t)
	cards := seedCards(t,
		seed{"intake", "Lease dispute"},
		seed{"intake", "Estate of Haddad"},
		seed{"intake", "Custody hearing"},
	)
	setFlags(t, true, false, false)

	r, w := captureStdout(t)
	err := runDelete(newDeleteCmd(true), []string{cards[1].ID})
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}

	res := decodeJSON[map[string]any](t, got)
	if res["status"] != "deleted" || res["id"] != cards[1].ID {
		t.Errorf("result = %v", res)
	}
	assertStageTitles(t, "intake", "Lease dispute", "Custody hearing")
	if entries := readLog(t, boardDir, store.ActionDelete); len(entries) != 1 {
		t.Errorf("delete entries = %d, want 1", len(entries))
	}
}

func TestRunDelete_NonTerminalNeedsForce(t *testing.T) {
	setupBoard(t)
	cards := seedCards(t, seed{"intake", "Lease dispute"})
	setTerminal(t, false)

	err := runDelete(newDeleteCmd(false), []string{cards[0].ID})
	assertCode(t, err, clierr.ConfirmRequired)
	assertStageTitles(t, "intake", "Lease dispute")
}

func TestRunDelete_Prompt(t *testing.T) {
	tests := []struct {
		answer  string
		deleted bool
	}{
		{"y\n", true},
		{"n\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.answer), func(t *testing.T) {
			setupBoard(t)
			cards := seedCards(t, seed{"intake", "Lease dispute"})
			setTerminal(t, true)
			setFlags(t, false, true, false)
			replaceStdin(t, tt.answer)

			rErr, wErr := captureStderr(t)
			rOut, wOut := captureStdout(t)
			err := runDelete(newDeleteCmd(false), []string{cards[0].ID})
			drainPipe(t, rOut, wOut)
			stderr := drainPipe(t, rErr, wErr)
			if err != nil {
				t.Fatal(err)
			}

			if !strings.Contains(stderr, "Delete case") {
				t.Errorf("prompt = %q", stderr)
			}
			if tt.deleted {
				assertStageTitles(t, "intake")
				return
			}
			if !strings.Contains(stderr, "Canceled.") {
				t.Errorf("stderr = %q, want Canceled.", stderr)
			}
			assertStageTitles(t, "intake", "Lease dispute")
		})
	}
}

func TestRunDelete_NotFound(t *testing.T) {
	setupBoard(t)

	err := runDelete(newDeleteCmd(true), []string{"missing"})
	assertCode(t, err, clierr.CardNotFound)
}

// --- runLog tests ---

func newLogCmd() *cobra.Command {
	return newTestCmd(func(cmd *cobra.Command) {
		cmd.Flags().String("since", "", "")
		cmd.Flags().Int("limit", 0, "")
		cmd.Flags().String("action", "", "")
		cmd.Flags().String("card", "", "")
	})
}

func runLogJSON(t *testing.T, cmd *cobra.Command) []store.LogEntry {
	t.Helper()
	setFlags(t, true, false, false)
	r, w := captureStdout(t)
	err := runLog(cmd, nil)
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatalf("runLog: %v", err)
	}
	return decodeJSON[[]store.LogEntry](t, got)
}

func TestRunLog(t *testing.T) {
	setupBoard(t)
	cards := seedCards(t,
		seed{"intake", "Lease dispute"},
		seed{"intake", "Estate of Haddad"},
	)
	setTerminal(t, false)
	move := newMoveCmd()
	_ = move.Flags().Set("next", "true")
	setFlags(t, false, true, false)
	r, w := captureStdout(t)
	if err := runMove(move, []string{cards[0].ID}); err != nil {
		t.Fatal(err)
	}
	drainPipe(t, r, w)

	tests := []struct {
		name  string
		flags map[string]string
		want  int
	}{
		{"all", nil, 3},
		{"action", map[string]string{"action": "move"}, 1},
		{"card prefix", map[string]string{"card": cards[0].ID[:8]}, 2},
		{"limit", map[string]string{"limit": "2"}, 2},
		{"since future", map[string]string{"since": "2999-01-01"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newLogCmd()
			for k, v := range tt.flags {
				_ = cmd.Flags().Set(k, v)
			}
			entries := runLogJSON(t, cmd)
			if len(entries) != tt.want {
				t.Errorf("got %d entries, want %d: %+v", len(entries), tt.want, entries)
			}
		})
	}
}

func TestRunLog_DeletedCard(t *testing.T) {
	setupBoard(t)
	cards := seedCards(t, seed{"intake", "Lease dispute"})
	setFlags(t, true, false, false)
	r, w := captureStdout(t)
	if err := runDelete(newDeleteCmd(true), []string{cards[0].ID}); err != nil {
		t.Fatal(err)
	}
	drainPipe(t, r, w)

	cmd := newLogCmd()
	_ = cmd.Flags().Set("card", cards[0].ID)
	if entries := runLogJSON(t, cmd); len(entries) != 2 {
		t.Errorf("got %d entries for deleted card, want 2", len(entries))
	}
}

func TestRunLog_InvalidSince(t *testing.T) {
	setupBoard(t)
	cmd := newLogCmd()
	_ = cmd.Flags().Set("since", "yesterday")

	err := runLog(cmd, nil)
	assertCode(t, err, clierr.InvalidDate)
}
