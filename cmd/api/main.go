package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"shopflow/internal/access"
	"shopflow/internal/config"
	"shopflow/internal/handler"
	"shopflow/internal/metrics"
	"shopflow/internal/money"
	"shopflow/internal/prefs"
	"shopflow/internal/repository"
	"shopflow/internal/service"
	"shopflow/internal/ws"
	"shopflow/pkg/database"
	"shopflow/pkg/jwt"
	"shopflow/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "shopflow-api",
		Usage: "ShopFlow inventory administration API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file loaded before reading the environment",
				Value: ".env",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP and websocket server (default)",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations and exit",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("shopflow-api stopped")
	}
}

// bootstrap loads configuration, builds the logger and opens the database.
func bootstrap(c *cli.Context) (*config.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, found, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, nil, nil, err
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if !found {
		log.Warn(".env file not found, using process environment")
	}

	db, err := database.Connect(database.Options{
		DSN:             cfg.DSN(),
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		Debug:           !cfg.IsProduction() && cfg.LogLevel == "debug",
	}, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func migrate(c *cli.Context) error {
	_, log, db, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return err
	}
	version, err := database.MigrationVersion(db)
	if err != nil {
		return err
	}
	log.WithField("version", version).Info("Database migrated")
	return nil
}

func serve(c *cli.Context) error {
	cfg, log, db, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Realtime hub
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	// Dependency Injection (Wiring Layers)
	store := repository.NewStore(db)
	m := metrics.New()
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	ledger := service.NewLedger(cfg.StockNegativePolicy)

	activity := service.NewActivityService(store, log)
	users := service.NewUserService(store, activity)
	inventory := service.NewInventoryService(store, ledger, activity, hub, m, log, service.InventoryConfig{
		DefaultThreshold:    cfg.LowStockDefaultThreshold,
		DefaultHistoryLimit: cfg.HistoryDefaultLimit,
	})

	created, err := users.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		return errors.Wrap(err, "seed admin user")
	}
	if created {
		log.WithField("email", cfg.Admin.Email).Warn("Admin user created with the configured default password, change it")
	}

	defaults, err := preferenceDefaults(cfg)
	if err != nil {
		return err
	}

	deps := handler.Deps{
		Log:         log,
		Hub:         hub,
		Policy:      access.DefaultPolicy(),
		Cookie:      handler.CookieConfig{Name: cfg.JWT.CookieName, Secure: cfg.JWT.CookieSecure},
		Preferences: defaults,
		CORSOrigins: cfg.CORSOrigins,
		Health: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},

		Auth:       service.NewAuthService(store, tokens, activity, log),
		Users:      users,
		Inventory:  inventory,
		Alerts:     service.NewAlertService(store, m),
		Categories: service.NewCategoryService(store, activity),
		Suppliers:  service.NewSupplierService(store, activity),
		Sales:      service.NewSaleService(store, ledger, activity, hub, m),
		Dashboard:  service.NewDashboardService(store),
		Reports:    service.NewReportService(store),
		Activity:   activity,
		Settings:   service.NewSettingsService(store, activity),
	}
	if cfg.MetricsEnabled {
		deps.Metrics = m
	}
	app := handler.NewApp(deps)

	// Graceful Shutdown
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"port":         cfg.Port,
			"stock_policy": ledger.Policy(),
		}).Info("Server listening")
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("Server exited")
	return nil
}

func preferenceDefaults(cfg *config.Config) (prefs.Preferences, error) {
	currency, err := money.ParseCurrency(cfg.DefaultCurrency)
	if err != nil {
		return prefs.Preferences{}, err
	}
	locale, _ := money.ParseLocale(cfg.DefaultLocale)
	return prefs.Preferences{Currency: currency, Locale: locale, Theme: prefs.ThemeDark}, nil
}
