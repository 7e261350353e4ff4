package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"go-ats-backend/internal/repository/postgres"
	"go-ats-backend/pkg/logger"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// migrate applies the Postgres schema used by STORAGE_BACKEND=postgres.
func main() {
	printOnly := flag.Bool("print", false, "print the schema instead of applying it")
	flag.Parse()

	if *printOnly {
		fmt.Print(postgres.Schema())
		return
	}

	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Log.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Log.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		logger.Log.Error("Failed to reach database", "error", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Log.Error("Migration failed", "error", err)
		os.Exit(1)
	}
	logger.Log.Info("Schema applied")
}
