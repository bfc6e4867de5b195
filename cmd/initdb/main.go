// Command initdb drops and recreates the blog schema. Every user and post
// is lost.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-blog/config"
	"github.com/oksasatya/go-ddd-blog/internal/infrastructure/sqldb"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	if cfg.DBDriver == config.DriverSQLite {
		if err := sqldb.EnsureDir(cfg.DBPath); err != nil {
			log.Fatal(err)
		}
	}
	db, err := sqldb.Open(context.Background(), cfg.DBDriver, cfg.DSN(), 1, 0)
	if err != nil {
		log.Fatalf("connect %s: %v", cfg.DBDriver, err)
	}
	defer func() { _ = db.Close() }()

	if err := sqldb.Reset(db.DB, cfg.DBDriver, logger); err != nil {
		log.Fatalf("init db: %v", err)
	}
	fmt.Println("Initialized the database.")
}
