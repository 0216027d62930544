package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/kinship-backend/internal/app"
	"github.com/yungbote/kinship-backend/internal/logger"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	cfg := app.LoadConfig(log)

	// App
	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("App init failed", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Close(ctx); err != nil {
			log.Warn("App shutdown failed", "error", err)
		}
	}()

	if err := a.Run(); err != nil {
		log.Fatal("HTTP server exited", "error", err)
	}
}
