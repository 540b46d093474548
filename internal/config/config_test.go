package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8091" {
		t.Errorf("expected default port 8091, got %s", cfg.Port)
	}
	if cfg.TitleMode != "strict" {
		t.Errorf("expected strict title mode, got %s", cfg.TitleMode)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Workers)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h job TTL, got %s", cfg.JobTTL)
	}
	if cfg.KeepBackups != 5 {
		t.Errorf("expected 5 kept backups, got %d", cfg.KeepBackups)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TITLE_MODE", "simple")
	t.Setenv("WORKERS", "8")
	t.Setenv("JOB_TTL", "30m")
	t.Setenv("BACKUP_DIR", "/var/backups/docs")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("port: got %s", cfg.Port)
	}
	if cfg.TitleMode != "simple" {
		t.Errorf("title mode: got %s", cfg.TitleMode)
	}
	if cfg.Workers != 8 {
		t.Errorf("workers: got %d", cfg.Workers)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("job ttl: got %s", cfg.JobTTL)
	}
	if cfg.BackupDir != "/var/backups/docs" {
		t.Errorf("backup dir: got %s", cfg.BackupDir)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("WORKERS", "not-a-number")
	t.Setenv("MAX_QUEUE_SIZE", "-3")
	t.Setenv("JOB_TTL", "soon")

	cfg := Load()
	if cfg.Workers != 4 {
		t.Errorf("unparseable workers should fall back to 4, got %d", cfg.Workers)
	}
	if cfg.MaxQueueSize != 100 {
		t.Errorf("negative queue size should fall back to 100, got %d", cfg.MaxQueueSize)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("unparseable TTL should fall back to 1h, got %s", cfg.JobTTL)
	}
}

func TestValidate_RejectsBadMode(t *testing.T) {
	cfg := Load()
	cfg.TitleMode = "loose"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown title mode")
	}
}
