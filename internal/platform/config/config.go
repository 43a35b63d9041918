package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	HTTPPort string `mapstructure:"HTTP_PORT"`

	// Storage backend: "postgres" or "memory".
	Store      string `mapstructure:"STORE"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Lock backend: "local" for a single arbiter process, "redis" when
	// several share one database.
	Lock     string        `mapstructure:"LOCK"`
	LockTTL  time.Duration `mapstructure:"LOCK_TTL"`
	CacheTTL time.Duration `mapstructure:"CACHE_TTL"`

	HoldTTL     time.Duration `mapstructure:"HOLD_TTL"`
	WaitlistMax int           `mapstructure:"WAITLIST_MAX"`

	SweepInterval     time.Duration `mapstructure:"SWEEP_INTERVAL"`
	SweepBatch        int           `mapstructure:"SWEEP_BATCH"`
	WorkerConcurrency int           `mapstructure:"WORKER_CONCURRENCY"`

	RateLimitPerSec float64  `mapstructure:"RATE_LIMIT_PER_SEC"`
	RateLimitBurst  int      `mapstructure:"RATE_LIMIT_BURST"`
	CORSOrigins     []string `mapstructure:"CORS_ORIGINS"`
}

var defaults = map[string]any{
	"ENV":                "development",
	"LOG_LEVEL":          "info",
	"HTTP_PORT":          "8080",
	"STORE":              "postgres",
	"DB_HOST":            "localhost",
	"DB_PORT":            "5432",
	"DB_USER":            "postgres",
	"DB_PASSWORD":        "",
	"DB_NAME":            "tourpad_scheduler",
	"REDIS_ADDR":         "localhost:6379",
	"REDIS_PASSWORD":     "",
	"REDIS_CACHE_DB":     0,
	"REDIS_QUEUE_DB":     1,
	"LOCK":               "local",
	"LOCK_TTL":           "10s",
	"CACHE_TTL":          "30s",
	"HOLD_TTL":           "0s",
	"WAITLIST_MAX":       10,
	"SWEEP_INTERVAL":     "1m",
	"SWEEP_BATCH":        100,
	"WORKER_CONCURRENCY": 10,
	"RATE_LIMIT_PER_SEC": 50.0,
	"RATE_LIMIT_BURST":   100,
	"CORS_ORIGINS":       []string{"*"},
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store {
	case "postgres", "memory":
	default:
		return fmt.Errorf("STORE must be postgres or memory, got %q", c.Store)
	}
	switch c.Lock {
	case "local", "redis":
	default:
		return fmt.Errorf("LOCK must be local or redis, got %q", c.Lock)
	}
	if c.Store == "memory" && c.Lock == "redis" {
		return fmt.Errorf("LOCK=redis requires STORE=postgres")
	}
	if c.HoldTTL < 0 {
		return fmt.Errorf("HOLD_TTL must not be negative")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	}
	if c.SweepBatch < 1 {
		return fmt.Errorf("SWEEP_BATCH must be at least 1, got %d", c.SweepBatch)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
