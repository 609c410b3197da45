package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relayctl.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadClientSettingsDefaults(t *testing.T) {
	path := writeConfig(t, "")
	settings, err := loadClientSettings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if settings.Timeout != 30*time.Second {
		t.Fatalf("unexpected timeout default: %v", settings.Timeout)
	}
	if settings.OutputDir != "." {
		t.Fatalf("unexpected output dir default: %q", settings.OutputDir)
	}
}

func TestLoadClientSettingsOverrides(t *testing.T) {
	path := writeConfig(t, `
timeout = "5s"
output_dir = "/tmp/fetches"
`)
	settings, err := loadClientSettings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if settings.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %v", settings.Timeout)
	}
	if settings.OutputDir != "/tmp/fetches" {
		t.Fatalf("unexpected output dir: %q", settings.OutputDir)
	}
}

func TestLoadClientSettingsInvalidTimeout(t *testing.T) {
	path := writeConfig(t, `timeout = "whenever"`)
	if _, err := loadClientSettings(path); err == nil {
		t.Fatalf("expected timeout parse error")
	}
}
