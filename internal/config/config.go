package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve in minimal images

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Log        LogConfig
	Production ProductionConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Driver          string
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

type LogConfig struct {
	Level string
}

// ProductionConfig controls numbering and dating of batches and units.
type ProductionConfig struct {
	HubLocationID string
	BatchPrefix   string
	SerialPrefix  string
	ShelfLifeDays int
	TimeZone      string
}

// Load reads configuration from the environment, after loading .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "3000"),
			Env:         getEnv("APP_ENV", "development"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "feedmill"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			LogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			Issuer:     getEnv("JWT_ISSUER", "feedmill-production"),
			Expiration: getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Production: ProductionConfig{
			HubLocationID: getEnv("HUB_LOCATION_ID", "HUB"),
			BatchPrefix:   getEnv("BATCH_NUMBER_PREFIX", "PB"),
			SerialPrefix:  getEnv("SERIAL_PREFIX", "FM"),
			ShelfLifeDays: getEnvAsInt("SHELF_LIFE_DAYS", 90),
			TimeZone:      getEnv("TIMEZONE", "UTC"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" && c.IsProduction() {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Production.HubLocationID) == "" {
		errs = append(errs, errors.New("HUB_LOCATION_ID must not be empty"))
	}
	if strings.TrimSpace(c.Production.BatchPrefix) == "" {
		errs = append(errs, errors.New("BATCH_NUMBER_PREFIX must not be empty"))
	}
	if strings.TrimSpace(c.Production.SerialPrefix) == "" {
		errs = append(errs, errors.New("SERIAL_PREFIX must not be empty"))
	}
	if c.Production.ShelfLifeDays < 1 {
		errs = append(errs, fmt.Errorf("SHELF_LIFE_DAYS must be positive, got %d", c.Production.ShelfLifeDays))
	}
	if _, err := time.LoadLocation(c.Production.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// DSN returns DATABASE_URL when set. For postgres it otherwise builds a
// key/value DSN from the DB_* fields; sqlite uses DB_NAME as the file.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == "sqlite" {
		return d.Name + ".db"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone)
}

// Location resolves the production time zone. Validate has already checked it.
func (p ProductionConfig) Location() *time.Location {
	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
