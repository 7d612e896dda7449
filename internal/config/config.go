package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server  ServerConfig
	App     AppConfig
	Cache   CacheConfig
	Economy EconomyConfig
	DB      DBConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"starclicker-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// CacheConfig holds read-cache settings.
type CacheConfig struct {
	Type           string        `envconfig:"CACHE_TYPE" default:"memory"`
	LeaderboardTTL time.Duration `envconfig:"CACHE_LEADERBOARD_TTL" default:"10s"`
	CatalogTTL     time.Duration `envconfig:"CACHE_CATALOG_TTL" default:"5m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// EconomyConfig holds the game-economy rules and seed defaults.
type EconomyConfig struct {
	StartingBalance  int64 `envconfig:"ECONOMY_STARTING_BALANCE" default:"1000"`
	FanDefaultPrice  int64 `envconfig:"ECONOMY_FAN_DEFAULT_PRICE" default:"100"`
	FanDefaultIncome int64 `envconfig:"ECONOMY_FAN_DEFAULT_INCOME" default:"10"`
	LeaderboardLimit int   `envconfig:"ECONOMY_LEADERBOARD_LIMIT" default:"10"`
	SeedDefaults     bool  `envconfig:"ECONOMY_SEED_DEFAULTS" default:"true"`

	// StrictSync rejects state-sync patches carrying a negative balance or
	// unknown fan ids instead of writing them through verbatim.
	StrictSync bool `envconfig:"ECONOMY_STRICT_SYNC" default:"true"`
}

// DBConfig holds economy database settings.
type DBConfig struct {
	Type string `envconfig:"ECONOMY_DB_TYPE" default:"sqlite"` // sqlite, mysql, or postgres
	Path string `envconfig:"ECONOMY_DB_PATH" default:"./data/economy.db"`
	// MySQL / PostgreSQL settings
	Host     string `envconfig:"ECONOMY_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"ECONOMY_DB_PORT" default:"0"`
	Name     string `envconfig:"ECONOMY_DB_NAME" default:"starclicker"`
	User     string `envconfig:"ECONOMY_DB_USER" default:""`
	Password string `envconfig:"ECONOMY_DB_PASS" default:""`
	SSLMode  string `envconfig:"ECONOMY_DB_SSLMODE" default:"disable"`
}

// PostgresDSN returns the PostgreSQL connection string.
func (d *DBConfig) PostgresDSN() string {
	port := d.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, port, d.Name, d.SSLMode)
}

// MySQLDSN returns the MySQL data source name.
func (d *DBConfig) MySQLDSN() string {
	port := d.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		d.User, d.Password, d.Host, port, d.Name)
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
