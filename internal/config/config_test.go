package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relayd.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadServerConfigDefaults(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.NodeID != "relay.local" || cfg.ListenAddr != ":8888" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadServerConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
node_id = "relay.edge-1"
listen_addr = ":7777"
admin_addr = ":7778"
read_timeout = "45s"
fetch_timeout = "10s"
max_request_bytes = 4096
`)
	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	svc, err := cfg.ServiceConfig()
	if err != nil {
		t.Fatalf("service config: %v", err)
	}
	if svc.NodeID != "relay.edge-1" || svc.ListenAddr != ":7777" || svc.AdminListenAddr != ":7778" {
		t.Fatalf("unexpected service config: %+v", svc)
	}
	if svc.ReadTimeout != 45*time.Second || svc.FetchTimeout != 10*time.Second {
		t.Fatalf("unexpected timeouts: %+v", svc)
	}
	if svc.WriteTimeout != 30*time.Second {
		t.Fatalf("expected default write timeout, got %v", svc.WriteTimeout)
	}
	if svc.MaxRequestBytes != 4096 {
		t.Fatalf("unexpected request cap: %d", svc.MaxRequestBytes)
	}
}

func TestLoadServerConfigInvalidDuration(t *testing.T) {
	path := writeConfig(t, `read_timeout = "soon"`)
	if _, err := LoadServerConfig(path); err == nil {
		t.Fatalf("expected duration validation error")
	}
}

func TestLoadServerConfigMissingFile(t *testing.T) {
	if _, err := LoadServerConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected load error")
	}
}
