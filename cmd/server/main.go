package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/pymax/internal/server"
	"github.com/dmitrijs2005/pymax/internal/server/config"
	"github.com/joho/godotenv"
)

func main() {
	// a missing .env file is fine; real environment variables still apply
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	app, err := server.NewApp(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
