package main

import (
	"context"
	"log"

	"gapguard-be/internal/bootstrap"
	"gapguard-be/internal/config"
	"gapguard-be/pkg/database"
)

// One-shot digest run, intended to be scheduled by cron.
func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	if err := container.DigestService.RunDailyDigest(context.Background()); err != nil {
		log.Fatalf("Digest run failed: %v", err)
	}
	log.Println("Digest run complete")
}
