package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	WS        WSConfig
}

// Load reads the process environment. Call godotenv.Load first when a .env file is used.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Name      string `envconfig:"APP_NAME" default:"go-inventory-tracker"`
	Env       string `envconfig:"APP_ENV" default:"development"`
	Port      string `envconfig:"PORT" default:"3000"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	Driver      string `envconfig:"DB_DRIVER" default:"postgres"`
	DSN         string `envconfig:"DATABASE_URL"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"inventory.db"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	Host     string `envconfig:"DB_HOST"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
	SlowThreshold   time.Duration `envconfig:"DB_SLOW_THRESHOLD" default:"1s"`
}

func (d *DBConfig) ensureDSN() error {
	switch d.Driver {
	case DriverSQLite:
		if d.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
		return nil
	case DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", d.Driver)
	}

	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("DATABASE_URL or DB_HOST/DB_USER/DB_NAME must be set")
	}
	d.DSN = fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
	return nil
}

type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" required:"true"`
	Issuer string        `envconfig:"JWT_ISSUER" default:"go-inventory-tracker"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
}

// RedisConfig is optional; an empty URL disables the sign-in rate limiter.
type RedisConfig struct {
	URL         string        `envconfig:"REDIS_URL"`
	DialTimeout time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

type RateLimitConfig struct {
	LoginLimit  int           `envconfig:"LOGIN_RATE_LIMIT" default:"5"`
	LoginWindow time.Duration `envconfig:"LOGIN_RATE_WINDOW" default:"1m"`
}

type WSConfig struct {
	BufferSize int `envconfig:"WS_BUFFER" default:"256"`
}
