package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/caseboard/caseboard/internal/clierr"
	"github.com/caseboard/caseboard/internal/config"
)

func newInitCmd() *cobra.Command {
	return newTestCmd(func(cmd *cobra.Command) {
		cmd.Flags().String("name", "", "")
		cmd.Flags().String("locale", config.DefaultLocale, "")
		cmd.Flags().Bool("gitignore", false, "")
	})
}

func useDir(t *testing.T, dir string) {
	t.Helper()
	oldFlagDir := flagDir
	flagDir = dir
	t.Cleanup(func() { flagDir = oldFlagDir })
}

func TestRunInit_DefaultDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "haddad-law")
	if err := os.Mkdir(root, 0o750); err != nil {
		t.Fatal(err)
	}
	t.Chdir(root)
	useDir(t, "")
	setFlags(t, true, false, false)

	r, w := captureStdout(t)
	err := runInit(newInitCmd(), nil)
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}

	res := decodeJSON[map[string]any](t, got)
	if res["status"] != "initialized" || res["name"] != "haddad-law" {
		t.Errorf("result = %v", res)
	}
	cfg, err := config.Load(filepath.Join(root, config.DefaultDir))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Board.Name != "haddad-law" || cfg.Locale != "en" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestRunInit_Flags(t *testing.T) {
	parent := t.TempDir()
	boardDir := filepath.Join(parent, "board")
	useDir(t, boardDir)
	setFlags(t, false, true, false)

	cmd := newInitCmd()
	_ = cmd.Flags().Set("name", "Haddad & Partners")
	_ = cmd.Flags().Set("locale", "ar")
	_ = cmd.Flags().Set("gitignore", "true")

	r, w := captureStdout(t)
	err := runInit(cmd, nil)
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `Initialized board "Haddad & Partners"`) {
		t.Errorf("output = %q", got)
	}

	cfg, err := config.Load(boardDir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Locale != "ar" {
		t.Errorf("locale = %q, want ar", cfg.Locale)
	}
	data, err := os.ReadFile(filepath.Join(parent, ".gitignore"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "board/\n" {
		t.Errorf(".gitignore = %q, want %q", data, "board/\n")
	}
}

func TestRunInit_Errors(t *testing.T) {
	boardDir := setupBoard(t)

	err := runInit(newInitCmd(), nil)
	assertCode(t, err, clierr.BoardExists)

	useDir(t, filepath.Join(filepath.Dir(boardDir), "other"))
	cmd := newInitCmd()
	_ = cmd.Flags().Set("locale", "fr")
	err = runInit(cmd, nil)
	assertCode(t, err, clierr.InvalidInput)
}

// --- gitignore tests ---

func TestReadYes(t *testing.T) {
	tests := []struct {
		input string
		def   bool
		want  bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", true, false},
		{"\n", true, true},
		{"", false, false},
		{"maybe\n", true, false},
	}
	for _, tt := range tests {
		got, err := readYes(strings.NewReader(tt.input), tt.def)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("readYes(%q, %v) = %v, want %v", tt.input, tt.def, got, tt.want)
		}
	}
}

func TestGitignorePromptData(t *testing.T) {
	root := t.TempDir()
	path, entry, err := gitignorePromptData(filepath.Join(root, "caseboard"))
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(root, ".gitignore") || entry != "caseboard/" {
		t.Errorf("got %q %q", path, entry)
	}

	if _, _, err := gitignorePromptData(string(filepath.Separator)); err == nil {
		t.Error("expected error for filesystem root")
	}
}

func TestEnsureGitignoreEntry(t *testing.T) {
	tests := []struct {
		name     string
		existing *string
		want     string
	}{
		{"creates file", nil, "caseboard/\n"},
		{"appends", ptr("bin/\n"), "bin/\ncaseboard/\n"},
		{"adds missing newline", ptr("bin/"), "bin/\ncaseboard/\n"},
		{"already present", ptr("caseboard\n"), "caseboard\n"},
		{"present with spaces", ptr("  caseboard/  \n"), "  caseboard/  \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".gitignore")
			if tt.existing != nil {
				if err := os.WriteFile(path, []byte(*tt.existing), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			if err := ensureGitignoreEntry(path, "caseboard/"); err != nil {
				t.Fatal(err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf(".gitignore = %q, want %q", data, tt.want)
			}
		})
	}
}

func TestOfferGitignore(t *testing.T) {
	root := t.TempDir()
	boardDir := filepath.Join(root, "caseboard")
	r, w := captureStderr(t)

	if err := offerGitignore(strings.NewReader("n\n"), boardDir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(root, ".gitignore")); !os.IsNotExist(err) {
		t.Errorf("declined offer wrote .gitignore: %v", err)
	}

	if err := offerGitignore(strings.NewReader("\n"), boardDir); err != nil {
		t.Fatal(err)
	}
	prompt := drainPipe(t, r, w)
	if !strings.Contains(prompt, `Add "caseboard/" to .gitignore? [Y/n]`) {
		t.Errorf("prompt = %q", prompt)
	}
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "caseboard/\n" {
		t.Errorf(".gitignore = %q", data)
	}
}

func ptr(s string) *string { return &s }
