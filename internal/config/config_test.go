package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCreatesDefaults(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	cfg, err := s.Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if cfg.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %v, want 30s", cfg.PollInterval)
	}
	if cfg.SoundEnabled {
		t.Error("SoundEnabled = true, want false by default")
	}
	if cfg.ClientID == "" {
		t.Error("ClientID empty, want a generated UUID")
	}

	// First load writes the file so the client ID is stable.
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestClientIDStableAcrossLoads(t *testing.T) {
	s := NewStore(t.TempDir())

	first, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if first.ClientID != second.ClientID {
		t.Errorf("ClientID changed between loads: %q then %q", first.ClientID, second.ClientID)
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	err := s.Update(func(c *Config) {
		c.SoundEnabled = true
		c.CSVFile = "alerts.csv"
		c.PollInterval = time.Minute
	})
	if err != nil {
		t.Fatalf("Update() = %v", err)
	}

	cfg, err := s.Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if !cfg.SoundEnabled || cfg.CSVFile != "alerts.csv" || cfg.PollInterval != time.Minute {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestUpdateRejectsInvalidInterval(t *testing.T) {
	s := NewStore(t.TempDir())

	err := s.Update(func(c *Config) {
		c.PollInterval = 100 * time.Millisecond
	})
	if err == nil {
		t.Fatal("Update() = nil, want validation error for sub-second interval")
	}

	// The invalid value must not have been persisted.
	cfg, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %v, want 30s", cfg.PollInterval)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewStore(dir).Load(); err == nil {
		t.Error("Load() = nil, want parse error")
	}
}
