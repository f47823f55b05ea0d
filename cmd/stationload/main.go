package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/mdjubayerd1/vivi-music/internal/backends"
	"github.com/mdjubayerd1/vivi-music/internal/backends/catalog"
	"github.com/mdjubayerd1/vivi-music/internal/types"
)

// stationload seeds a catalog station from a YAML definition, using the same
// service config as the daemon:
//
//	stationload <station.yml>
func main() {
	// Load environment variables
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	err := godotenv.Load(envFile)
	if err != nil {
		log.Info("The .env file not found.")
	}

	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <station.yml>", os.Args[0])
	}

	cfgFile := os.Getenv("CONFIG_FILE")
	if cfgFile == "" {
		cfgFile = "configs/discoveryd.yml"
	}
	cfg, err := types.LoadServiceConfig(cfgFile)
	if err != nil {
		log.Fatalf("Failed to load service config: %v", err)
	}

	src, err := backends.SourceFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize track source: %v", err)
	}
	cat, ok := src.(*catalog.Source)
	if !ok {
		log.Fatalf("Station loading needs the catalog backend, config has %q", cfg.Source.Backend)
	}

	n, err := cat.LoadStationFile(context.Background(), os.Args[1])
	if err != nil {
		log.Fatalf("Failed to load station file: %v", err)
	}
	log.WithFields(log.Fields{
		"tracks": n,
		"table":  cfg.Source.Catalog.Table,
	}).Info("Station loaded")
}
