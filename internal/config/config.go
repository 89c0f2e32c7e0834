package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	SequenceBackendPostgres = "postgres"
	SequenceBackendRedis    = "redis"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Booking   BookingConfig   `toml:"booking"`
	Redis     RedisConfig     `toml:"redis"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пусто - только stdout
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig параметры допуска бронирований
type BookingConfig struct {
	SequenceBackend    string `toml:"sequence_backend"`
	LockTimeoutMs      int    `toml:"lock_timeout_ms"`
	AdmissionTimeoutMs int    `toml:"admission_timeout_ms"`
	MaxAttempts        int    `toml:"max_attempts"`
	RetryBaseDelayMs   int    `toml:"retry_base_delay_ms"`
}

func (b BookingConfig) LockTimeout() time.Duration {
	return time.Duration(b.LockTimeoutMs) * time.Millisecond
}

func (b BookingConfig) AdmissionTimeout() time.Duration {
	return time.Duration(b.AdmissionTimeoutMs) * time.Millisecond
}

func (b BookingConfig) RetryBaseDelay() time.Duration {
	return time.Duration(b.RetryBaseDelayMs) * time.Millisecond
}

type RedisConfig struct {
	Address  string `toml:"address"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// Load читает .env (если есть), затем TOML файл, затем переменные окружения поверх файла
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v)
		}
		*dst = n
		return nil
	}

	setString("DB_HOST", &c.Database.Host)
	setString("DB_USER", &c.Database.User)
	setString("DB_PASSWORD", &c.Database.Password)
	setString("DB_NAME", &c.Database.DBName)
	setString("REDIS_ADDR", &c.Redis.Address)
	setString("LOG_LEVEL", &c.Logs.Level)
	setString("SEQUENCE_BACKEND", &c.Booking.SequenceBackend)

	if err := setInt("DB_PORT", &c.Database.Port); err != nil {
		return err
	}
	return setInt("HTTP_PORT", &c.Server.HTTPPort)
}

func (c *Config) applyDefaults() {
	intDefault := func(dst *int, v int) {
		if *dst == 0 {
			*dst = v
		}
	}
	strDefault := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}

	intDefault(&c.Server.HTTPPort, 8080)
	intDefault(&c.Server.ReadTimeout, 10)
	intDefault(&c.Server.WriteTimeout, 10)
	intDefault(&c.Server.IdleTimeout, 60)
	intDefault(&c.Server.ShutdownTimeout, 10)

	intDefault(&c.Database.Port, 5432)
	strDefault(&c.Database.SSLMode, "disable")
	intDefault(&c.Database.MaxOpenConns, 25)
	intDefault(&c.Database.MaxIdleConns, 5)
	intDefault(&c.Database.ConnMaxLifetime, 300)

	strDefault(&c.Logs.Level, "info")

	strDefault(&c.Metrics.Path, "/metrics")
	strDefault(&c.Metrics.ServiceName, "slot-booking")

	strDefault(&c.Booking.SequenceBackend, SequenceBackendPostgres)
	intDefault(&c.Booking.LockTimeoutMs, 2000)
	intDefault(&c.Booking.AdmissionTimeoutMs, 5000)
	intDefault(&c.Booking.MaxAttempts, 5)
	intDefault(&c.Booking.RetryBaseDelayMs, 20)

	strDefault(&c.Redis.Address, "localhost:6379")

	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 10
	}
	intDefault(&c.RateLimit.Burst, 20)
}

// Validate проверяет значения после применения дефолтов
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	case c.Database.Host == "":
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	case c.Database.DBName == "":
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	case c.Database.MaxIdleConns > c.Database.MaxOpenConns:
		return fmt.Errorf("%w: database.max_idle_conns exceeds max_open_conns", ErrInvalidConfig)
	case c.Booking.SequenceBackend != SequenceBackendPostgres && c.Booking.SequenceBackend != SequenceBackendRedis:
		return fmt.Errorf("%w: booking.sequence_backend must be %q or %q, got %q",
			ErrInvalidConfig, SequenceBackendPostgres, SequenceBackendRedis, c.Booking.SequenceBackend)
	case c.Booking.LockTimeoutMs >= c.Booking.AdmissionTimeoutMs:
		return fmt.Errorf("%w: booking.lock_timeout_ms must be less than admission_timeout_ms", ErrInvalidConfig)
	case c.Booking.MaxAttempts < 1:
		return fmt.Errorf("%w: booking.max_attempts must be positive", ErrInvalidConfig)
	case c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0):
		return fmt.Errorf("%w: rate_limit values must be positive", ErrInvalidConfig)
	}
	return nil
}
