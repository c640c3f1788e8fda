package main

import (
	"log"

	"schoolhub-be/internal/config"
	"schoolhub-be/internal/model"
	"schoolhub-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Printf("Running migration for %d tables...", len(model.Models()))
	if err := model.Migrate(db); err != nil {
		log.Fatalf("Error: Migration failed: %v", err)
	}

	log.Println("Migration Completed Successfully!")
}
