package configwatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sensen_backend/internal/config"
	"testing"
	"time"
)

const baseConfig = `
server:
  port: "8080"
  mode: debug
storage:
  type: minio
rate_limit:
  max_requests: %d
  window_minutes: 1
`

func writeConfig(t *testing.T, path string, maxRequests int) {
	t.Helper()
	body := []byte(fmt.Sprintf(baseConfig, maxRequests))
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWatchConfigReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, 10)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, path, 50*time.Millisecond, func(cfg *config.Config) { reloaded <- cfg })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	writeConfig(t, path, 42)

	select {
	case cfg := <-reloaded:
		if cfg.RateLimit.MaxRequests != 42 {
			t.Errorf("max_requests = %d, want 42", cfg.RateLimit.MaxRequests)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WatchConfig returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
