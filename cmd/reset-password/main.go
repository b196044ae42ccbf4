package main

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"shopflow/internal/config"
	"shopflow/internal/repository"
	"shopflow/pkg/database"
	"shopflow/pkg/logger"
)

const minPasswordLength = 6

func main() {
	app := &cli.App{
		Name:  "reset-password",
		Usage: "set a new password for an existing account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "account email", Required: true},
			&cli.StringFlag{Name: "password", Usage: "new password", Required: true, EnvVars: []string{"RESET_PASSWORD"}},
			&cli.StringFlag{Name: "env-file", Usage: "dotenv file loaded before reading the environment", Value: ".env"},
		},
		Action: resetPassword,
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("reset-password failed")
	}
}

func resetPassword(c *cli.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.String("email")))
	password := c.String("password")
	if len(password) < minPasswordLength {
		return errors.Errorf("password must be at least %d characters", minPasswordLength)
	}

	cfg, found, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if !found {
		log.Warn(".env file not found, relying on system env")
	}

	db, err := database.Connect(database.Options{
		DSN:             cfg.DSN(),
		MaxIdleConns:    1,
		MaxOpenConns:    1,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	}, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	ctx := context.Background()
	users := repository.NewStore(db).Users()

	user, err := users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errors.Errorf("user %s not found", email)
		}
		return err
	}
	if err := user.SetPassword(password); err != nil {
		return errors.Wrap(err, "hash password")
	}
	if err := users.Update(ctx, user); err != nil {
		return errors.Wrap(err, "update password")
	}

	log.WithField("email", email).Info("Password reset")
	return nil
}
