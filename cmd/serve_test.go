package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

func newServeCmd(ctx context.Context, addr string) *cobra.Command {
	cmd := newTestCmd(func(cmd *cobra.Command) {
		cmd.Flags().String("addr", "", "")
	})
	_ = cmd.Flags().Set("addr", addr)
	cmd.SetContext(ctx)
	return cmd
}

func TestRunServe_ShutsDownOnCancel(t *testing.T) {
	setupBoard(t)
	t.Setenv("CASEBOARD_LOG_LEVEL", "error")

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- runServe(newServeCmd(ctx, "127.0.0.1:0"), nil) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("runServe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServe did not return after cancel")
	}
}

func TestRunServe_BadAddress(t *testing.T) {
	setupBoard(t)
	t.Setenv("CASEBOARD_LOG_LEVEL", "error")

	err := runServe(newServeCmd(context.Background(), "127.0.0.1:notaport"), nil)
	if err == nil {
		t.Fatal("expected listen error")
	}
}

func TestRunServe_NoBoard(t *testing.T) {
	useDir(t, t.TempDir())

	if err := runServe(newServeCmd(context.Background(), ""), nil); err == nil {
		t.Fatal("expected error without a board")
	}
}
