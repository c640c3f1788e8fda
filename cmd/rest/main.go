package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"schoolhub-be/internal/bootstrap"
	"schoolhub-be/internal/config"
	"schoolhub-be/internal/server"
	"schoolhub-be/internal/tracer"
	"schoolhub-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (skipped for the in-memory driver)
	var gormDB *gorm.DB
	if cfg.Tenant.StorageDriver != "memory" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	shutdownTracer := tracer.InitTracer(container.Logger)
	defer shutdownTracer(context.Background())

	// 4. Start Background Services
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := container.Start(ctx); err != nil {
		log.Panicf("Unable to start background services: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		container.Logger.Info("SERVER", "Shutting down", nil)
		if err := srv.Shutdown(); err != nil {
			container.Logger.Error("SERVER", "Shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		container.Logger.Error("SERVER", "Server stopped", map[string]interface{}{"error": err.Error()})
	}
}
