package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"go-inventory-tracker/pkg/logger"
	"go-inventory-tracker/pkg/migrate/migrations"

	"github.com/pressly/goose/v3"
)

// Dir is the migrations directory inside the embedded filesystem.
const Dir = "."

func init() {
	goose.SetBaseFS(migrations.FS)
}

// Run executes a goose command (up, down, status, redo, version...) against db.
func Run(ctx context.Context, db *sql.DB, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, Dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, logg *logger.Logger) error {
	logg.Info(ctx, "running goose migrations")
	if err := Run(ctx, db, "up"); err != nil {
		return err
	}
	logg.Info(ctx, "goose migrations completed")
	return nil
}
