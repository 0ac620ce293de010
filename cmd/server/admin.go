package main

import (
	"carlton/internal/config"
	"carlton/internal/data"
	"carlton/internal/logger"
	"carlton/internal/service"
	"errors"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

func openDatabase() (*config.Config, logger.Logger, *sqlx.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.New(cfg.Log, os.Stderr)
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		if errors.Is(err, data.ErrNoDatabase) {
			return nil, nil, nil, errors.New("this command needs a database; set CARLTON_DB_DSN")
		}
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	if err := data.ApplyMigrations(db, cfg.DB.Driver); err != nil {
		return err
	}
	log.Info("Migrations applied successfully.")
	return nil
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	name, _ := cmd.Flags().GetString("name")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("CARLTON_ADMIN_PASSWORD")
	}

	cfg, log, db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	if err := data.ApplyMigrations(db, cfg.DB.Driver); err != nil {
		return err
	}

	users := service.NewUserService(data.NewSQLUserRepository(db), false)
	u, err := users.CreateAdmin(cmd.Context(), service.RegisterInput{Email: email, Name: name, Password: password})
	if err != nil {
		if ve, ok := service.IsValidation(err); ok {
			return fmt.Errorf("invalid account: %v", ve.Fields)
		}
		return err
	}
	log.Info(fmt.Sprintf("Created admin %s (id %d)", u.Email, u.ID))
	return nil
}
