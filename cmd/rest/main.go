package main

import (
	"context"
	"log"

	"gapguard-be/internal/bootstrap"
	"gapguard-be/internal/config"
	"gapguard-be/internal/server"
	"gapguard-be/internal/tracer"
	"gapguard-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// The gap consumer runs for the lifetime of the process.
	go func() {
		log.Println("Background: starting gap recompute consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background consumer error: %v", err)
		}
	}()

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
