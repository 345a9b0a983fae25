package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sensen_backend/internal/config"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		level string
		want  zapcore.Level
	}{
		{"debug mode", "debug", "", zap.DebugLevel},
		{"release mode", "release", "", zap.InfoLevel},
		{"explicit level wins", "debug", "warn", zap.WarnLevel},
		{"bad level falls back", "release", "loud", zap.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Server: config.ServerConfig{Mode: tt.mode}, Log: config.LogConfig{Level: tt.level}}
			if got := Level(cfg); got != tt.want {
				t.Fatalf("Level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewWritesJSONFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Log:    config.LogConfig{File: file, MaxSizeMB: 1},
	}

	l := New(cfg)
	l.Debug("hidden")
	l.Info("attempt submitted", zap.Int("score", 75))
	l.Sync()

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", data, err)
	}
	if entry["msg"] != "attempt submitted" || entry["score"] != float64(75) {
		t.Fatalf("unexpected entry: %v", entry)
	}
}
