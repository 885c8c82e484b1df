package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	ServerAddr string
	GRPCAddr   string
	LogLevel   string

	StorageBackend string
	DatabaseDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	DefaultStrategy      string
	WeightLoad           float64
	WeightSpecialization float64
	WeightResilience     float64
	HeartbeatThreshold   time.Duration
	HistoryLimit         int
	RandomSeed           int64

	HealthSchedule string
	EscalateAfter  time.Duration

	EventsEnabled bool
	EventsChannel string

	RateLimitRPS   float64
	RateLimitBurst int

	TracingEnabled  bool
	TracingExporter string
}

// fileConfig is the YAML overlay read from MESH_CONFIG_FILE. Only keys
// present in the file override the environment.
type fileConfig struct {
	Server *struct {
		Addr     *string `yaml:"addr"`
		GRPCAddr *string `yaml:"grpc_addr"`
		LogLevel *string `yaml:"log_level"`
	} `yaml:"server"`
	Storage *struct {
		Backend     *string `yaml:"backend"`
		DatabaseDSN *string `yaml:"database_dsn"`
		RedisAddr   *string `yaml:"redis_addr"`
		RedisDB     *int    `yaml:"redis_db"`
		RedisPrefix *string `yaml:"redis_prefix"`
	} `yaml:"storage"`
	Routing *struct {
		DefaultStrategy *string `yaml:"default_strategy"`
		Weights         *struct {
			Load           *float64 `yaml:"load"`
			Specialization *float64 `yaml:"specialization"`
			Resilience     *float64 `yaml:"resilience"`
		} `yaml:"weights"`
		HeartbeatThreshold *string `yaml:"heartbeat_threshold"`
		HistoryLimit       *int    `yaml:"history_limit"`
		RandomSeed         *int64  `yaml:"random_seed"`
	} `yaml:"routing"`
	Supervisor *struct {
		Schedule      *string `yaml:"schedule"`
		EscalateAfter *string `yaml:"escalate_after"`
	} `yaml:"supervisor"`
	Events *struct {
		Enabled *bool   `yaml:"enabled"`
		Channel *string `yaml:"channel"`
	} `yaml:"events"`
	RateLimit *struct {
		RequestsPerSecond *float64 `yaml:"requests_per_second"`
		Burst             *int     `yaml:"burst"`
	} `yaml:"rate_limit"`
	Tracing *struct {
		Enabled  *bool   `yaml:"enabled"`
		Exporter *string `yaml:"exporter"`
	} `yaml:"tracing"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		GRPCAddr:   getEnv("GRPC_ADDR", ":50051"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		StorageBackend: getEnv("STORAGE_BACKEND", BackendMemory),
		DatabaseDSN:    getEnv("DATABASE_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPrefix:   getEnv("REDIS_PREFIX", "mesh"),

		DefaultStrategy:      getEnv("DEFAULT_STRATEGY", "balanced"),
		WeightLoad:           getEnvFloat("WEIGHT_LOAD", 0.5),
		WeightSpecialization: getEnvFloat("WEIGHT_SPECIALIZATION", 0.3),
		WeightResilience:     getEnvFloat("WEIGHT_RESILIENCE", 0.2),
		HeartbeatThreshold:   getEnvDuration("HEARTBEAT_THRESHOLD", 60*time.Second),
		HistoryLimit:         getEnvInt("HISTORY_LIMIT", 1000),
		RandomSeed:           int64(getEnvInt("RANDOM_SEED", 0)),

		HealthSchedule: getEnv("HEALTH_SCHEDULE", "@every 15s"),
		EscalateAfter:  getEnvDuration("ESCALATE_AFTER", 0),

		EventsEnabled: getEnv("EVENTS_ENABLED", "false") == "true",
		EventsChannel: getEnv("EVENTS_CHANNEL", "mesh:events"),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 100),

		TracingEnabled:  getEnv("TRACING_ENABLED", "false") == "true",
		TracingExporter: getEnv("TRACING_EXPORTER", "stdout"),
	}

	if path := os.Getenv("MESH_CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return c.apply(&fc)
}

func (c *Config) apply(fc *fileConfig) error {
	if s := fc.Server; s != nil {
		set(&c.ServerAddr, s.Addr)
		set(&c.GRPCAddr, s.GRPCAddr)
		set(&c.LogLevel, s.LogLevel)
	}
	if s := fc.Storage; s != nil {
		set(&c.StorageBackend, s.Backend)
		set(&c.DatabaseDSN, s.DatabaseDSN)
		set(&c.RedisAddr, s.RedisAddr)
		set(&c.RedisDB, s.RedisDB)
		set(&c.RedisPrefix, s.RedisPrefix)
	}
	if r := fc.Routing; r != nil {
		set(&c.DefaultStrategy, r.DefaultStrategy)
		if w := r.Weights; w != nil {
			set(&c.WeightLoad, w.Load)
			set(&c.WeightSpecialization, w.Specialization)
			set(&c.WeightResilience, w.Resilience)
		}
		if err := setDuration(&c.HeartbeatThreshold, r.HeartbeatThreshold); err != nil {
			return fmt.Errorf("routing.heartbeat_threshold: %w", err)
		}
		set(&c.HistoryLimit, r.HistoryLimit)
		set(&c.RandomSeed, r.RandomSeed)
	}
	if s := fc.Supervisor; s != nil {
		set(&c.HealthSchedule, s.Schedule)
		if err := setDuration(&c.EscalateAfter, s.EscalateAfter); err != nil {
			return fmt.Errorf("supervisor.escalate_after: %w", err)
		}
	}
	if e := fc.Events; e != nil {
		set(&c.EventsEnabled, e.Enabled)
		set(&c.EventsChannel, e.Channel)
	}
	if r := fc.RateLimit; r != nil {
		set(&c.RateLimitRPS, r.RequestsPerSecond)
		set(&c.RateLimitBurst, r.Burst)
	}
	if t := fc.Tracing; t != nil {
		set(&c.TracingEnabled, t.Enabled)
		set(&c.TracingExporter, t.Exporter)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.StorageBackend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.StorageBackend))
	}

	if c.WeightLoad < 0 || c.WeightSpecialization < 0 || c.WeightResilience < 0 {
		errs = append(errs, errors.New("routing weights must not be negative"))
	}
	if c.HeartbeatThreshold <= 0 {
		errs = append(errs, errors.New("heartbeat threshold must be positive"))
	}
	if c.HistoryLimit <= 0 {
		errs = append(errs, errors.New("history limit must be positive"))
	}
	if c.EscalateAfter < 0 {
		errs = append(errs, errors.New("escalation threshold must not be negative"))
	}
	if c.EscalateAfter > 0 && c.EscalateAfter <= c.HeartbeatThreshold {
		errs = append(errs, errors.New("escalation threshold must exceed the heartbeat threshold"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("rate limit must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// NeedsRedis reports whether any component talks to Redis.
func (c *Config) NeedsRedis() bool {
	return c.StorageBackend == BackendRedis || c.EventsEnabled
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*v))
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
