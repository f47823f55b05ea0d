package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/mdjubayerd1/vivi-music/internal/api"
	"github.com/mdjubayerd1/vivi-music/internal/backends"
	"github.com/mdjubayerd1/vivi-music/internal/types"
)

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

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsed, err := log.ParseLevel(lvl)
		if err != nil {
			log.Warnf("Unknown LOG_LEVEL %q, keeping %s", lvl, log.GetLevel())
		} else {
			log.SetLevel(parsed)
		}
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

	sessions := api.NewSessions(time.Duration(cfg.Session.IdleSeconds) * time.Second)

	stop, done := api.RunServerInterruptible(cfg.Port, src, cfg.Source.Seed, sessions)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sig:
		log.Info("Shutting down")
		stop <- struct{}{}
		if err := <-done; err != nil {
			log.WithError(err).Error("Server exited uncleanly")
		}
	case err := <-done:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}
}
