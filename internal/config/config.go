package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/relayctl/internal/relay"
)

type ServerConfig struct {
	NodeID          string   `toml:"node_id"`
	ListenAddr      string   `toml:"listen_addr"`
	AdminAddr       string   `toml:"admin_addr"`
	CorsOrigins     []string `toml:"cors_origins"`
	ReadTimeout     string   `toml:"read_timeout"`
	WriteTimeout    string   `toml:"write_timeout"`
	FetchTimeout    string   `toml:"fetch_timeout"`
	MaxRequestBytes int      `toml:"max_request_bytes"`
}

func LoadServerConfig(path string) (ServerConfig, error) {
	var cfg ServerConfig
	if err := loadToml(path, &cfg); err != nil {
		return ServerConfig{}, err
	}
	if cfg.NodeID == "" {
		cfg.NodeID = "relay.local"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8888"
	}
	if err := ValidateServerConfig(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateServerConfig(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.NodeID) == "" {
		return fmt.Errorf("server config missing node_id")
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return fmt.Errorf("server config missing listen_addr")
	}
	if cfg.MaxRequestBytes < 0 {
		return fmt.Errorf("server config max_request_bytes must not be negative")
	}
	for _, raw := range []string{cfg.ReadTimeout, cfg.WriteTimeout, cfg.FetchTimeout} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("server config invalid duration %q: %w", raw, err)
		}
	}
	return nil
}

// ServiceConfig converts the file shape into the relay runtime configuration,
// leaving unset fields for relay defaults to backfill.
func (c ServerConfig) ServiceConfig() (relay.ServiceConfig, error) {
	out := relay.ServiceConfig{
		NodeID:           c.NodeID,
		ListenAddr:       c.ListenAddr,
		AdminListenAddr:  c.AdminAddr,
		AdminCorsOrigins: c.CorsOrigins,
		MaxRequestBytes:  c.MaxRequestBytes,
	}
	var err error
	if out.ReadTimeout, err = parseDuration(c.ReadTimeout); err != nil {
		return relay.ServiceConfig{}, fmt.Errorf("parse read_timeout: %w", err)
	}
	if out.WriteTimeout, err = parseDuration(c.WriteTimeout); err != nil {
		return relay.ServiceConfig{}, fmt.Errorf("parse write_timeout: %w", err)
	}
	if out.FetchTimeout, err = parseDuration(c.FetchTimeout); err != nil {
		return relay.ServiceConfig{}, fmt.Errorf("parse fetch_timeout: %w", err)
	}
	return out.WithDefaults(), nil
}

func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}
