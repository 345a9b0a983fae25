package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	uploads := filepath.Join(t.TempDir(), "uploads")
	dir := writeConfig(t, "storage:\n  local_path: "+uploads+"\n")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Database.Driver != "mysql" {
		t.Fatalf("unexpected defaults: %+v %+v", cfg.Server, cfg.Database)
	}
	if cfg.JWT.ExpireTime != 24*time.Hour {
		t.Fatalf("jwt expiry = %v", cfg.JWT.ExpireTime)
	}
	if cfg.Assessment.QuestionCacheTTL() != 5*time.Minute || cfg.Assessment.LeaderboardSize != 10 {
		t.Fatalf("unexpected assessment settings: %+v", cfg.Assessment)
	}
	if cfg.Log.File != "logs/app.log" || cfg.Redis.PoolSize != 50 {
		t.Fatalf("unexpected log/redis defaults: %+v %+v", cfg.Log, cfg.Redis)
	}
	if _, err := os.Stat(uploads); err != nil {
		t.Fatalf("local storage dir not created: %v", err)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := writeConfig(t, "database:\n  driver: mysql\nstorage:\n  type: minio\n")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("MINIO_BUCKET", "videos")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Storage.MinioBucket != "videos" {
		t.Fatalf("env not applied: %+v %+v", cfg.Database, cfg.Storage)
	}
}

func TestLoadConfigReleaseNeedsLongSecret(t *testing.T) {
	dir := writeConfig(t, "server:\n  mode: release\njwt:\n  secret: short\nstorage:\n  type: minio\n")
	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected a short secret to be rejected in release mode")
	}
}

func TestQuestionCacheTTL(t *testing.T) {
	if got := (AssessmentConfig{QuestionCacheTTLSeconds: 0}).QuestionCacheTTL(); got != 5*time.Minute {
		t.Fatalf("zero ttl = %v", got)
	}
	if got := (AssessmentConfig{QuestionCacheTTLSeconds: 30}).QuestionCacheTTL(); got != 30*time.Second {
		t.Fatalf("ttl = %v", got)
	}
}
