// Package config assembles the optimizer service configuration from
// defaults, environment variables and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the optimizer service.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Optimizer  OptimizerConfig  `mapstructure:"optimizer"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	WebSocket  WebSocketConfig  `mapstructure:"websocket"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	Environment  string        `mapstructure:"environment"`
	Debug        bool          `mapstructure:"debug"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig configures the Postgres connection backing jobstore/contentstore.
type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	Database     string        `mapstructure:"database"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// DSN builds a lib/pq connection string from the config fields.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode)
}

// JWTConfig configures bearer-token validation for job submission routes.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// OptimizerConfig configures the search itself.
type OptimizerConfig struct {
	// Workers overrides runtime.NumCPU() when > 0; used to make test runs
	// reproducible regardless of the host's core count.
	Workers int `mapstructure:"workers"`

	DefaultSearchThreshold float64 `mapstructure:"default_search_threshold"`
	DefaultFightDuration   float64 `mapstructure:"default_fight_duration"`
	DefaultPhysDmgTaken    float64 `mapstructure:"default_phys_dmg_taken_percent"`

	MaxUnitItems int `mapstructure:"max_unit_items"`
}

// RateLimitConfig configures per-key job submission throttling.
type RateLimitConfig struct {
	JobsPerMinute   int           `mapstructure:"jobs_per_minute"`
	BurstSize       int           `mapstructure:"burst_size"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// MonitoringConfig configures the Prometheus and health endpoints.
type MonitoringConfig struct {
	MetricsPath string `mapstructure:"metrics_path"`
	HealthPath  string `mapstructure:"health_path"`
}

// WebSocketConfig configures the layer-progress stream.
type WebSocketConfig struct {
	ReadBufferSize  int           `mapstructure:"read_buffer_size"`
	WriteBufferSize int           `mapstructure:"write_buffer_size"`
	CheckOrigin     bool          `mapstructure:"check_origin"`
	PingPeriod      time.Duration `mapstructure:"ping_period"`
	WriteWait       time.Duration `mapstructure:"write_wait"`
}

// Load builds the configuration from defaults, then environment variables,
// then an optional config file, in that precedence order (the file wins
// when present, via viper.Unmarshal over the accumulated defaults).
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         8090,
			Host:         "0.0.0.0",
			Environment:  "development",
			Debug:        true,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         5432,
			User:         "optimizer_user",
			Password:     "optimizer_pass",
			Database:     "optimizer_db",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
			MaxLifetime:  30 * time.Minute,
		},
		JWT: JWTConfig{
			Secret: "change-me-in-production-minimum-64-characters-long-secret-key",
		},
		Optimizer: OptimizerConfig{
			Workers:                0,
			DefaultSearchThreshold: 0.2,
			DefaultFightDuration:   23,
			DefaultPhysDmgTaken:    0.5,
			MaxUnitItems:           6,
		},
		RateLimit: RateLimitConfig{
			JobsPerMinute:   30,
			BurstSize:       5,
			CleanupInterval: 5 * time.Minute,
		},
		Monitoring: MonitoringConfig{
			MetricsPath: "/metrics",
			HealthPath:  "/health",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     false,
			PingPeriod:      54 * time.Second,
			WriteWait:       10 * time.Second,
		},
	}

	loadFromEnv(cfg)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/optimizer/")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func loadFromEnv(cfg *Config) {
	if port := os.Getenv("OPTIMIZER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if host := os.Getenv("OPTIMIZER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if env := os.Getenv("OPTIMIZER_ENVIRONMENT"); env != "" {
		cfg.Server.Environment = env
	}
	if dbHost := os.Getenv("OPTIMIZER_DB_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("OPTIMIZER_DB_PORT"); dbPort != "" {
		if p, err := strconv.Atoi(dbPort); err == nil {
			cfg.Database.Port = p
		}
	}
	if dbUser := os.Getenv("OPTIMIZER_DB_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPass := os.Getenv("OPTIMIZER_DB_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if dbName := os.Getenv("OPTIMIZER_DB_NAME"); dbName != "" {
		cfg.Database.Database = dbName
	}
	if jwtSecret := os.Getenv("OPTIMIZER_JWT_SECRET"); jwtSecret != "" {
		cfg.JWT.Secret = jwtSecret
	}
	if workers := os.Getenv("OPTIMIZER_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil {
			cfg.Optimizer.Workers = w
		}
	}
}
