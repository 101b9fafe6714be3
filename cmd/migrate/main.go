package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go-inventory-tracker/pkg/config"
	"go-inventory-tracker/pkg/database"
	"go-inventory-tracker/pkg/logger"
	"go-inventory-tracker/pkg/migrate"

	"github.com/joho/godotenv"
)

const usage = `Usage: migrate [flags] <command> [args]

Commands:
  up                   apply all pending migrations
  up-by-one            apply the next migration
  up-to VERSION        migrate up to VERSION
  down                 roll back the latest migration
  down-to VERSION      roll back to VERSION
  redo                 roll back and reapply the latest migration
  reset                roll back every migration
  status               print migration status
  version              print the current version
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "migrate"}).Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      "console",
	})

	if cfg.DB.Driver != config.DriverPostgres {
		logg.Error(ctx, "goose migrations target postgres; sqlite schemas are created by the api on start", nil)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to connect database", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logg.Error(ctx, "failed to get sql.DB", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	command := flag.Arg(0)
	ctx = logg.WithField(ctx, "command", command)
	if err := migrate.Run(ctx, sqlDB, command, flag.Args()[1:]...); err != nil {
		logg.Error(ctx, "migration failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "migration finished")
}
