package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "campaignx.db" || cfg.ArchiveDir != "archive" || cfg.Port != "9999" || cfg.WebAddr != ":8080" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.NoRecord {
		t.Error("recording should be on by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CAMPAIGNX_DB", "/var/lib/campaignx/db.sqlite")
	t.Setenv("CAMPAIGNX_PORT", "7000")
	t.Setenv("CAMPAIGNX_NO_RECORD", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/var/lib/campaignx/db.sqlite" || cfg.Port != "7000" || !cfg.NoRecord {
		t.Errorf("overrides = %+v", cfg)
	}
}

func TestLoadError(t *testing.T) {
	t.Setenv("CAMPAIGNX_NO_RECORD", "sometimes")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestTuning(t *testing.T) {
	tuning, err := Config{}.Tuning()
	if err != nil {
		t.Fatalf("default tuning: %v", err)
	}
	if tuning.Campaign.PrimaryWeeks != 6 {
		t.Errorf("primary weeks = %d", tuning.Campaign.PrimaryWeeks)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("campaign: [not, a, map]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (Config{TuningPath: path}).Tuning(); err == nil {
		t.Error("expected an error for a malformed tuning file")
	}
}

func TestLogger(t *testing.T) {
	var buf strings.Builder
	Config{LogLevel: "warn"}.Logger(&buf).Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info line written at warn level: %q", buf.String())
	}
	Config{LogLevel: "loud"}.Logger(&buf).Info("shown", "k", 1)
	if !strings.Contains(buf.String(), "msg=shown k=1") {
		t.Errorf("unknown level should log at info, got %q", buf.String())
	}
}
