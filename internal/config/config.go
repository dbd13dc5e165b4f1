package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Distance providers
const (
	DistanceProviderGoogle      = "google"
	DistanceProviderGreatCircle = "greatcircle"
)

// Image drivers
const (
	ImageDriverLocal      = "local"
	ImageDriverCloudinary = "cloudinary"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		StoragePath    string   `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		PublicURL      string   `yaml:"public_url" env:"SERVER_PUBLIC_URL"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Distance struct {
		Provider         string `yaml:"provider" env:"DISTANCE_PROVIDER"`
		GoogleMapsAPIKey string `yaml:"google_maps_api_key" env:"GOOGLE_MAPS_API_KEY"`
		Timeout          string `yaml:"timeout" env:"DISTANCE_TIMEOUT"`
		Concurrency      int    `yaml:"concurrency" env:"DISTANCE_CONCURRENCY"`
		BatchSize        int    `yaml:"batch_size" env:"DISTANCE_BATCH_SIZE"`
	} `yaml:"distance"`

	Redis struct {
		Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		TTL      string `yaml:"ttl" env:"REDIS_TTL"`
	} `yaml:"redis"`

	Images struct {
		Driver              string `yaml:"driver" env:"IMAGES_DRIVER"`
		Folder              string `yaml:"folder" env:"IMAGES_FOLDER"`
		CloudinaryCloudName string `yaml:"cloudinary_cloud_name" env:"CLOUDINARY_CLOUD_NAME"`
		CloudinaryAPIKey    string `yaml:"cloudinary_api_key" env:"CLOUDINARY_API_KEY"`
		CloudinaryAPISecret string `yaml:"cloudinary_api_secret" env:"CLOUDINARY_API_SECRET"`
	} `yaml:"images"`

	App struct {
		Timezone string `yaml:"timezone" env:"APP_TIMEZONE"`
	} `yaml:"app"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Parse YAML into Config structure
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env is optional; variables already present in the environment win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// Validate config
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "./uploads"
	config.Server.PublicURL = "http://localhost:8080/uploads"
	config.Server.AllowedOrigins = []string{"*"}

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "volunteerhub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	// JWT defaults
	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "volunteerhub.app"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Distance defaults
	config.Distance.Provider = DistanceProviderGoogle
	config.Distance.Timeout = "3s"
	config.Distance.Concurrency = 4
	config.Distance.BatchSize = 25

	// Redis defaults
	config.Redis.Addr = "localhost:6379"
	config.Redis.TTL = "24h"

	// Image defaults
	config.Images.Driver = ImageDriverLocal
	config.Images.Folder = "event_images"

	config.App.Timezone = "UTC"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return applyEnv(config, os.LookupEnv)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Distance.Timeout); err != nil {
		return fmt.Errorf("invalid distance timeout format: %w", err)
	}

	switch config.Distance.Provider {
	case DistanceProviderGoogle, DistanceProviderGreatCircle:
	default:
		return fmt.Errorf("unknown distance provider %q", config.Distance.Provider)
	}

	if config.Distance.Concurrency < 1 {
		return fmt.Errorf("distance concurrency must be at least 1")
	}

	if config.Distance.BatchSize < 1 || config.Distance.BatchSize > 25 {
		return fmt.Errorf("distance batch size must be between 1 and 25")
	}

	if config.Redis.Enabled {
		if config.Redis.Addr == "" {
			return fmt.Errorf("redis address is required when redis is enabled")
		}
		if _, err := time.ParseDuration(config.Redis.TTL); err != nil {
			return fmt.Errorf("invalid redis ttl format: %w", err)
		}
	}

	switch config.Images.Driver {
	case ImageDriverLocal:
	case ImageDriverCloudinary:
		if config.Images.CloudinaryCloudName == "" || config.Images.CloudinaryAPIKey == "" || config.Images.CloudinaryAPISecret == "" {
			return fmt.Errorf("cloudinary credentials are required for the cloudinary image driver")
		}
	default:
		return fmt.Errorf("unknown image driver %q", config.Images.Driver)
	}

	if _, err := time.LoadLocation(config.App.Timezone); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// DistanceProvider returns the effective provider. Google without an API key falls back
// to great-circle distances.
func (c *Config) DistanceProvider() string {
	if c.Distance.Provider == DistanceProviderGoogle && c.Distance.GoogleMapsAPIKey == "" {
		return DistanceProviderGreatCircle
	}
	return c.Distance.Provider
}

// Location returns the configured application time zone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
