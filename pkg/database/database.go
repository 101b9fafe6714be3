package database

import (
	"fmt"
	"time"

	"go-inventory-tracker/internal/model"
	"go-inventory-tracker/pkg/config"
	"go-inventory-tracker/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the configured database and applies pool settings.
func Connect(cfg config.DBConfig, logg *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	case config.DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true, // Disables implicit prepared statements for pooled transaction mode
		})
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig(logg, cfg.SlowThreshold))
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("extracting sql.DB: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// OpenMemory opens a private in-memory SQLite database with the schema applied.
// name must be unique per test.
func OpenMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(logger.Nop(), time.Second))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite memory db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("extracting sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate syncs the schema from the models. Postgres deployments use goose instead.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Product{}, &model.Transaction{}); err != nil {
		return fmt.Errorf("auto migrating: %w", err)
	}
	return nil
}

func gormConfig(logg *logger.Logger, slowThreshold time.Duration) *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.New(
			gormWriter{logg: logg},
			gormlogger.Config{
				SlowThreshold:             slowThreshold,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt:                              false,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

type gormWriter struct {
	logg *logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.logg.Zerolog().Warn().Str("component", "gorm").Msgf(format, args...)
}
