package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/relayctl/internal/client"
)

// clientSettings are the resolved defaults for one relayctl invocation.
type clientSettings struct {
	Timeout   time.Duration
	OutputDir string
}

type fileConfig struct {
	Timeout   string `toml:"timeout"`
	OutputDir string `toml:"output_dir"`
}

func defaultSettings() clientSettings {
	return clientSettings{
		Timeout:   client.DefaultTimeout,
		OutputDir: ".",
	}
}

func loadClientSettings(path string) (clientSettings, error) {
	settings := defaultSettings()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return clientSettings{}, fmt.Errorf("load relayctl config: %w", err)
	}

	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return clientSettings{}, fmt.Errorf("parse timeout: %w", err)
		}
		settings.Timeout = d
	}

	if meta.IsDefined("output_dir") {
		dir := strings.TrimSpace(raw.OutputDir)
		if dir != "" {
			settings.OutputDir = dir
		}
	}

	return settings, nil
}
