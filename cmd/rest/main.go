package main

import (
	"context"
	"log"

	"lingodocs-be/internal/bootstrap"
	"lingodocs-be/internal/config"
	"lingodocs-be/internal/server"
	"lingodocs-be/internal/tracer"
	"lingodocs-be/pkg/database"
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

	ctx := context.Background()

	go func() {
		log.Println("Background: starting ingest worker...")
		if err := container.IngestService.Consume(ctx); err != nil {
			log.Printf("Background ingest error: %v", err)
		}
	}()

	container.SessionService.StartSweeper(ctx)

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
