// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"shopflow/internal/money"
)

const (
	StockPolicyReject = "reject"
	StockPolicyClamp  = "clamp"
)

// Development fallbacks. Validate refuses them when APP_ENV=production.
const (
	DefaultJWTSecret     = "your-super-secret-key-change-in-production"
	DefaultAdminPassword = "admin123"
)

// Nested structs use full variable names: envconfig tries PREFIX_KEY first and
// falls back to the tag itself.
type Config struct {
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
	Port      string `envconfig:"PORT" default:"3000"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	DatabaseURL string   `envconfig:"DATABASE_URL"`
	DB          DBConfig `envconfig:"DB"`

	JWT JWTConfig `envconfig:"JWT"`

	StockNegativePolicy      string `envconfig:"STOCK_NEGATIVE_POLICY" default:"reject"`
	LowStockDefaultThreshold int    `envconfig:"LOW_STOCK_DEFAULT_THRESHOLD" default:"10"`
	HistoryDefaultLimit      int    `envconfig:"HISTORY_DEFAULT_LIMIT" default:"50"`

	DefaultCurrency string `envconfig:"DEFAULT_CURRENCY" default:"XOF"`
	DefaultLocale   string `envconfig:"DEFAULT_LOCALE" default:"fr"`

	MetricsEnabled bool     `envconfig:"METRICS_ENABLED" default:"true"`
	AutoMigrate    bool     `envconfig:"AUTO_MIGRATE" default:"true"`
	CORSOrigins    []string `envconfig:"CORS_ORIGINS" default:"*"`

	Admin AdminConfig `envconfig:"ADMIN"`
}

type DBConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	User            string        `envconfig:"DB_USER" default:"postgres"`
	Password        string        `envconfig:"DB_PASSWORD"`
	Name            string        `envconfig:"DB_NAME" default:"shopflow"`
	Port            string        `envconfig:"DB_PORT" default:"5432"`
	SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	TimeZone        string        `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
}

type JWTConfig struct {
	Secret       string        `envconfig:"JWT_SECRET" default:"your-super-secret-key-change-in-production"`
	Expiry       time.Duration `envconfig:"JWT_EXPIRY" default:"168h"`
	CookieName   string        `envconfig:"JWT_COOKIE_NAME" default:"token"`
	CookieSecure bool          `envconfig:"JWT_COOKIE_SECURE" default:"false"`
}

type AdminConfig struct {
	Email    string `envconfig:"ADMIN_EMAIL" default:"admin@shopflow.fr"`
	Name     string `envconfig:"ADMIN_NAME" default:"Administrator"`
	Password string `envconfig:"ADMIN_PASSWORD" default:"admin123"`
}

// Load reads .env when present, then the process environment.
// The returned bool reports whether a .env file was found.
func Load(files ...string) (*Config, bool, error) {
	found := godotenv.Load(files...) == nil

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, found, errors.Wrap(err, "read environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, found, err
	}
	return &cfg, found, nil
}

func (c *Config) Validate() error {
	switch c.StockNegativePolicy {
	case StockPolicyReject, StockPolicyClamp:
	default:
		return errors.Errorf("STOCK_NEGATIVE_POLICY must be %q or %q, got %q",
			StockPolicyReject, StockPolicyClamp, c.StockNegativePolicy)
	}
	if _, err := money.ParseCurrency(c.DefaultCurrency); err != nil {
		return errors.Wrap(err, "DEFAULT_CURRENCY")
	}
	if _, ok := money.ParseLocale(c.DefaultLocale); !ok {
		return errors.Errorf("DEFAULT_LOCALE %q is not supported", c.DefaultLocale)
	}
	if c.JWT.Expiry <= 0 {
		return errors.New("JWT_EXPIRY must be positive")
	}
	if c.LowStockDefaultThreshold < 0 {
		return errors.New("LOW_STOCK_DEFAULT_THRESHOLD must not be negative")
	}
	if c.HistoryDefaultLimit <= 0 {
		return errors.New("HISTORY_DEFAULT_LIMIT must be positive")
	}
	if c.IsProduction() {
		if c.JWT.Secret == "" || c.JWT.Secret == DefaultJWTSecret {
			return errors.New("JWT_SECRET must be set to a private value in production")
		}
		if c.Admin.Password == DefaultAdminPassword {
			return errors.New("ADMIN_PASSWORD must not use the default value in production")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// DSN prefers DATABASE_URL and falls back to the discrete DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.DB.Host, c.DB.User, c.DB.Password, c.DB.Name, c.DB.Port, c.DB.SSLMode, c.DB.TimeZone,
	)
}
