// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackzampolin/texthunter/internal/config"
)

// WriteConfig writes a YAML config snippet to a temp dir and returns its path.
func WriteConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// ConfigManager loads a config manager from a YAML snippet layered over
// the defaults.
func ConfigManager(t *testing.T, content string) *config.Manager {
	t.Helper()
	cm, err := config.NewManager(WriteConfig(t, content))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return cm
}

// Logger returns a logger that discards output. Set TEXTHUNTER_TEST_LOG=1
// to see it on stderr.
func Logger() *slog.Logger {
	var w io.Writer = io.Discard
	if os.Getenv("TEXTHUNTER_TEST_LOG") != "" {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// WaitForShutdown waits for a channel to receive a value or timeout.
func WaitForShutdown(done <-chan error, timeout time.Duration) error {
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for shutdown")
	}
}

// FindFreePort finds an available TCP port and returns it as a string.
func FindFreePort() (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer listener.Close()
	return fmt.Sprintf("%d", listener.Addr().(*net.TCPAddr).Port), nil
}
