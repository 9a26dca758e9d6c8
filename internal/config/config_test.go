package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("WORKER_COUNT", "")
	t.Setenv("DB_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8091" {
		t.Errorf("expected default port 8091, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.WorkerCount)
	}
	if !cfg.IncludeBoxText {
		t.Error("expected box text included by default")
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h job TTL, got %v", cfg.JobTTL)
	}
	if cfg.DBPath != "docstruct.db" {
		t.Errorf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.MaxUploadBytes != 104857600 {
		t.Errorf("expected 100MB upload cap, got %d", cfg.MaxUploadBytes)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "port: \"9000\"\napi_key: file-key\nworker_count: 2\ninclude_box_text: false\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("DOCSTRUCT_API_KEY", "")
	t.Setenv("WORKER_COUNT", "")
	t.Setenv("INCLUDE_BOX_TEXT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9100" {
		t.Errorf("expected env to beat file, got port %q", cfg.Port)
	}
	if cfg.APIKey != "file-key" {
		t.Errorf("expected file to beat default, got api key %q", cfg.APIKey)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("expected worker count from file, got %d", cfg.WorkerCount)
	}
	if cfg.IncludeBoxText {
		t.Error("expected include_box_text disabled by file")
	}
}

func TestLoad_MissingFileErrors(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	if _, err := Load(); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_ClampsInvalidValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("JOB_TTL", "0s")
	t.Setenv("PREVIEW_MAX_CHARS", "-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected clamped worker count 4, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected clamped TTL 1h, got %v", cfg.JobTTL)
	}
	if cfg.PreviewMaxChars != 400 {
		t.Errorf("expected clamped preview chars 400, got %d", cfg.PreviewMaxChars)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{DBPath: "x.db"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without api key")
	}
	cfg.APIKey = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
	cfg.DBPath = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without db path")
	}
}
