package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	Storage   StorageConfig   `yaml:"storage"`
	Booking   BookingConfig   `yaml:"booking"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP and gRPC listener settings
type ServerConfig struct {
	Host     string `yaml:"host"`
	HTTPPort int    `yaml:"http_port"`
	GRPCPort int    `yaml:"grpc_port"`
	BaseURL  string `yaml:"base_url"` // Public URL used to build evidence links
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	Database      string `yaml:"database"`
	SSLMode       string `yaml:"ssl_mode"`
	MaxOpenConns  int    `yaml:"max_open_conns"`
	MaxIdleConns  int    `yaml:"max_idle_conns"`
	LockTimeoutMs int    `yaml:"lock_timeout_ms"`
}

// RedisConfig contains the booking list cache settings
type RedisConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// StorageConfig contains payment evidence storage settings
type StorageConfig struct {
	Type          string   `yaml:"type"`     // "local" or "s3"
	RootDir       string   `yaml:"root_dir"` // For local storage
	Bucket        string   `yaml:"bucket"`
	Region        string   `yaml:"region"`
	Prefix        string   `yaml:"prefix"`
	MaxFileSizeMB int64    `yaml:"max_file_size_mb"`
	AllowedTypes  []string `yaml:"allowed_types"`
}

// BookingConfig contains booking lifecycle policy
type BookingConfig struct {
	MaxRetries             int  `yaml:"max_retries"`
	RetryBackoffMs         int  `yaml:"retry_backoff_ms"`
	RequirePaymentEvidence bool `yaml:"require_payment_evidence"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ReconcileStock string `yaml:"reconcile_stock"`
	CheckHealth    string `yaml:"check_health"`
}

// Load reads configuration from a YAML file. A .env file in the working
// directory, if present, is loaded into the environment first.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a validated Config from YAML bytes and the environment.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	envString("DB_HOST", &c.Database.Host)
	envInt("DB_PORT", &c.Database.Port)
	envString("DB_USER", &c.Database.User)
	envString("DB_PASSWORD", &c.Database.Password)
	envString("DB_NAME", &c.Database.Database)
	envString("DB_SSL_MODE", &c.Database.SSLMode)
	envInt("DB_LOCK_TIMEOUT_MS", &c.Database.LockTimeoutMs)

	// Redis
	envBool("REDIS_ENABLED", &c.Redis.Enabled)
	envString("REDIS_ADDR", &c.Redis.Addr)
	envString("REDIS_PASSWORD", &c.Redis.Password)
	envInt("REDIS_DB", &c.Redis.DB)

	// JWT
	envString("JWT_SECRET", &c.JWT.Secret)

	// Server
	envString("SERVER_HOST", &c.Server.Host)
	envInt("HTTP_PORT", &c.Server.HTTPPort)
	envInt("GRPC_PORT", &c.Server.GRPCPort)
	envString("BASE_URL", &c.Server.BaseURL)

	// Storage
	envString("STORAGE_TYPE", &c.Storage.Type)
	envString("STORAGE_ROOT_DIR", &c.Storage.RootDir)
	envString("S3_BUCKET", &c.Storage.Bucket)
	envString("AWS_REGION", &c.Storage.Region)

	// Booking
	envInt("BOOKING_MAX_RETRIES", &c.Booking.MaxRetries)
	envBool("BOOKING_REQUIRE_PAYMENT_EVIDENCE", &c.Booking.RequirePaymentEvidence)

	// Log
	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.HTTPPort < 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port: %d", c.Server.HTTPPort)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 || (c.Server.GRPCPort != 0 && c.Server.GRPCPort == c.Server.HTTPPort) {
		return fmt.Errorf("invalid grpc port: %d", c.Server.GRPCPort)
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.HTTPPort)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.LockTimeoutMs <= 0 {
		c.Database.LockTimeoutMs = 3000
	}

	// Redis validation
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required when redis is enabled")
	}
	if c.Redis.TTLSeconds <= 0 {
		c.Redis.TTLSeconds = 300
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Storage validation
	switch c.Storage.Type {
	case "", "local":
		c.Storage.Type = "local"
		if c.Storage.RootDir == "" {
			c.Storage.RootDir = "./uploads"
		}
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown storage type: %q", c.Storage.Type)
	}
	if c.Storage.MaxFileSizeMB <= 0 {
		c.Storage.MaxFileSizeMB = 10
	}
	if len(c.Storage.AllowedTypes) == 0 {
		c.Storage.AllowedTypes = []string{"image/jpeg", "image/png", "application/pdf"}
	}

	// Booking defaults
	if c.Booking.MaxRetries < 0 {
		return fmt.Errorf("booking max_retries must not be negative")
	}
	if c.Booking.MaxRetries == 0 {
		c.Booking.MaxRetries = 3
	}
	if c.Booking.RetryBackoffMs <= 0 {
		c.Booking.RetryBackoffMs = 50
	}

	// Scheduler defaults
	if c.Scheduler.ReconcileStock == "" {
		c.Scheduler.ReconcileStock = "0 0 * * * *" // Hourly
	}
	if c.Scheduler.CheckHealth == "" {
		c.Scheduler.CheckHealth = "*/30 * * * * *" // Every 30 seconds
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetHTTPAddress returns the HTTP listen address
func (c *Config) GetHTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// GetGRPCAddress returns the gRPC listen address
func (c *Config) GetGRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}

func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Database.LockTimeoutMs) * time.Millisecond
}

func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.Booking.RetryBackoffMs) * time.Millisecond
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

func (c *Config) AccessTokenExpiry() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}
