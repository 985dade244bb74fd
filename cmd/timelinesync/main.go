package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/timeline-sync/internal/app"
	"github.com/MKhiriev/timeline-sync/internal/config"
	"github.com/MKhiriev/timeline-sync/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.App.Role, logger.WithLevel(cfg.App.LogLevel))
	log.Debug().Any("config", cfg).Msg("received configs")

	engine, err := app.NewApp(context.Background(), cfg, nil, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init app error")
	}

	if err = engine.Run(); err != nil {
		log.Fatal().Err(err).Msg("app run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
