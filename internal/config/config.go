package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Драйверы хранилища
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

var (
	// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Redis        RedisConfig        `toml:"redis"`
	Storage      StorageConfig      `toml:"storage"`
	Allocation   AllocationConfig   `toml:"allocation"`
	Availability AvailabilityConfig `toml:"availability"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
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

// LogsConfig параметры логирования
type LogsConfig struct {
	File   string `toml:"file"`
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MetricsConfig параметры Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig параметры распределённой блокировки домов.
// При Enabled = false используется блокировка в памяти процесса.
type RedisConfig struct {
	Enabled       bool   `toml:"enabled"`
	Addr          string `toml:"addr"`
	Password      string `toml:"password"`
	DB            int    `toml:"db"`
	KeyPrefix     string `toml:"key_prefix"`
	LockTTL       int    `toml:"lock_ttl"`       // секунды
	RetryInterval int    `toml:"retry_interval"` // миллисекунды
}

// StorageConfig выбор хранилища
type StorageConfig struct {
	Driver string `toml:"driver"`
}

// AllocationConfig параметры аллокатора
type AllocationConfig struct {
	LockTimeout int `toml:"lock_timeout"` // секунды ожидания блокировки дома
}

// AvailabilityConfig параметры расчёта доступности
type AvailabilityConfig struct {
	MaxDays int `toml:"max_days"` // максимальная длина запрашиваемого окна в днях
	Timeout int `toml:"timeout"`  // дедлайн запроса в миллисекундах
}

// LockTTLDuration TTL ключа блокировки
func (r RedisConfig) LockTTLDuration() time.Duration {
	return time.Duration(r.LockTTL) * time.Second
}

// RetryIntervalDuration интервал повторных попыток взять блокировку
func (r RedisConfig) RetryIntervalDuration() time.Duration {
	return time.Duration(r.RetryInterval) * time.Millisecond
}

// LockTimeoutDuration время ожидания блокировки дома
func (a AllocationConfig) LockTimeoutDuration() time.Duration {
	return time.Duration(a.LockTimeout) * time.Second
}

// TimeoutDuration дедлайн расчёта доступности
func (a AvailabilityConfig) TimeoutDuration() time.Duration {
	return time.Duration(a.Timeout) * time.Millisecond
}

// Load читает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Logs.Format == "" {
		c.Logs.Format = "console"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "allotment_service"
	}

	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "allotment:"
	}
	if c.Redis.LockTTL == 0 {
		c.Redis.LockTTL = 30
	}
	if c.Redis.RetryInterval == 0 {
		c.Redis.RetryInterval = 50
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverPostgres
	}

	if c.Allocation.LockTimeout == 0 {
		c.Allocation.LockTimeout = 10
	}

	if c.Availability.MaxDays == 0 {
		c.Availability.MaxDays = 366
	}
	if c.Availability.Timeout == 0 {
		c.Availability.Timeout = 5000
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database host and dbname are required for postgres storage", ErrInvalidConfig)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis addr is required when redis is enabled", ErrInvalidConfig)
	}

	if c.Availability.MaxDays < 1 {
		return fmt.Errorf("%w: availability max_days must be positive", ErrInvalidConfig)
	}

	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: invalid http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	return nil
}
