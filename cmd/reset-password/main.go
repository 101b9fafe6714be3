package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go-inventory-tracker/internal/repository"
	"go-inventory-tracker/internal/service"
	"go-inventory-tracker/pkg/config"
	"go-inventory-tracker/pkg/database"
	"go-inventory-tracker/pkg/jwt"
	"go-inventory-tracker/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "new password (8-72 characters)")
	flag.Parse()

	// 1. Load Env
	_ = godotenv.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logg := logger.New(logger.Options{ServiceName: "reset-password", Format: "console"})
	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to connect database", err)
		os.Exit(1)
	}

	// 3. Reset and revoke sessions
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	auth := service.NewAuthService(repository.NewUserRepo(db), tokens, nil, logg)

	ctx = logg.WithField(ctx, "email", *email)
	if err := auth.ResetPassword(ctx, *email, *password); err != nil {
		logg.Error(ctx, "failed to reset password", err)
		os.Exit(1)
	}
	logg.Info(ctx, "password reset, existing sessions revoked")
}
