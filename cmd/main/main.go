package main

import (
	"context"

	"catalog/scraper/internal/config"
	"catalog/scraper/internal/container"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Invalid log level %q: %v", cfg.Log.Level, err)
	}
	log.SetLevel(level)

	log.Infof("Starting catalog scraper for %s", cfg.Catalog.CatalogURL())

	ctx := context.Background()

	app, err := container.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	result, err := app.Run(ctx)
	if err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}

	log.Infof("Saved %d records to CSV and JSON", len(result.Records))
}
