package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const gitignoreFileMode = 0o600

// offerGitignore asks on stderr whether to ignore the board directory and
// adds the entry when the answer is yes or empty.
func offerGitignore(in io.Reader, boardDir string) error {
	path, entry, err := gitignorePromptData(boardDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Add %q to .gitignore? [Y/n] ", entry)
	ok, err := readYes(in, true)
	if err != nil || !ok {
		return err
	}
	return ensureGitignoreEntry(path, entry)
}

// readYes reads one answer line. An empty answer means def.
func readYes(in io.Reader, def bool) (bool, error) {
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading input: %w", err)
	}
	switch strings.TrimSpace(strings.ToLower(answer)) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// gitignorePromptData returns the .gitignore next to the board directory and
// the entry that ignores it.
func gitignorePromptData(boardDir string) (string, string, error) {
	absDir, err := filepath.Abs(boardDir)
	if err != nil {
		return "", "", fmt.Errorf("resolving path: %w", err)
	}

	entry := filepath.Base(absDir)
	if entry == "" || entry == "." || entry == string(filepath.Separator) {
		return "", "", fmt.Errorf("invalid board directory %q", boardDir)
	}
	return filepath.Join(filepath.Dir(absDir), ".gitignore"), entry + "/", nil
}

func ensureGitignoreEntry(path, entry string) error {
	entry = sanitizeGitignoreEntry(entry)
	contents, err := os.ReadFile(path) //nolint:gosec // path derived from the board directory
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading .gitignore: %w", err)
	}
	if os.IsNotExist(err) {
		return os.WriteFile(path, []byte(entry+"\n"), gitignoreFileMode)
	}
	if hasGitignoreEntry(contents, entry) {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, gitignoreFileMode) //nolint:gosec // path derived from the board directory
	if err != nil {
		return fmt.Errorf("opening .gitignore: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	line := entry + "\n"
	if len(contents) > 0 && contents[len(contents)-1] != '\n' {
		line = "\n" + line
	}
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	return nil
}

func hasGitignoreEntry(contents []byte, entry string) bool {
	for _, line := range strings.Split(string(contents), "\n") {
		if sanitizeGitignoreEntry(line) == entry {
			return true
		}
	}
	return false
}

func sanitizeGitignoreEntry(entry string) string {
	clean := strings.TrimSpace(filepath.ToSlash(entry))
	return strings.TrimSuffix(clean, "/") + "/"
}
