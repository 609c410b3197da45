package main

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/relayctl/internal/config"
	"github.com/danmuck/relayctl/internal/logging"
	"github.com/danmuck/relayctl/internal/observability"
	"github.com/danmuck/relayctl/internal/relay"
)

func main() {
	logging.ConfigureRuntime()
	observability.InitLogger("relayd")

	configPath := flag.String("config", "", "path to relayd TOML config")
	flag.Parse()

	cfg := relay.DefaultServiceConfig()
	if *configPath != "" {
		fileCfg, err := config.LoadServerConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load relayd config")
		}
		cfg, err = fileCfg.ServiceConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("invalid relayd config")
		}
		log.Info().Str("path", *configPath).Msg("loaded relayd config")
	}

	// Positional port overrides whatever the config chose.
	if flag.NArg() > 0 {
		port, err := strconv.Atoi(flag.Arg(0))
		if err != nil || port <= 0 || port > 65535 {
			log.Fatal().Str("arg", flag.Arg(0)).Msg("invalid listen port")
		}
		cfg.ListenAddr = fmt.Sprintf(":%d", port)
	}

	svc := relay.NewServiceWithConfig(cfg)
	log.Info().Str("addr", cfg.ListenAddr).Str("node", cfg.NodeID).Msg("relayd starting")
	if err := svc.Run(); err != nil {
		log.Fatal().Err(err).Msg("relayd stopped")
	}
}
