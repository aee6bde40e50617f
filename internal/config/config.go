package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// EnvPrefix префикс переменных окружения, переопределяющих файл (APPT_DATABASE_HOST, APPT_FINANCE_RETRY_ENABLED)
const EnvPrefix = "APPT"

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server" split_words:"true"`
	Database DatabaseConfig `toml:"database" split_words:"true"`
	Logs     LogsConfig     `toml:"logs" split_words:"true"`
	Metrics  MetricsConfig  `toml:"metrics" split_words:"true"`
	Booking  BookingConfig  `toml:"booking" split_words:"true"`
	Finance  FinanceConfig  `toml:"finance" split_words:"true"`
	Redis    RedisConfig    `toml:"redis" split_words:"true"`
}

// ServerConfig HTTP сервер, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

// DatabaseConfig подключение к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig логирование
type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true"`
}

// MetricsConfig метрики Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
}

// BookingConfig правила записи
type BookingConfig struct {
	SlotStepMinutes int    `toml:"slot_step_minutes" split_words:"true"`
	LeadTimeMinutes int    `toml:"lead_time_minutes" split_words:"true"`
	Timezone        string `toml:"timezone" split_words:"true"` // Для салонов без своей зоны

	// Ограничение частоты записей с одного телефона, 0 выключает
	VelocityMaxBookings   int `toml:"velocity_max_bookings" split_words:"true"`
	VelocityWindowMinutes int `toml:"velocity_window_minutes" split_words:"true"`
}

// LeadTime минимальный отступ от текущего момента
func (b BookingConfig) LeadTime() time.Duration {
	return time.Duration(b.LeadTimeMinutes) * time.Minute
}

// VelocityWindow окно ограничения частоты
func (b BookingConfig) VelocityWindow() time.Duration {
	return time.Duration(b.VelocityWindowMinutes) * time.Minute
}

// Location часовой пояс по умолчанию
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

// FinanceConfig финансовая подсистема
type FinanceConfig struct {
	URL       string      `toml:"url" split_words:"true"`
	APIKey    string      `toml:"api_key" split_words:"true"`
	Timeout   int         `toml:"timeout" split_words:"true"` // секунды
	Operation string      `toml:"operation" split_words:"true"`
	Retry     RetryConfig `toml:"retry" split_words:"true"`
}

// RetryConfig повторные проводки
type RetryConfig struct {
	Enabled        bool   `toml:"enabled" split_words:"true"`
	MaxAttempts    int    `toml:"max_attempts" split_words:"true"`
	Schedule       string `toml:"schedule" split_words:"true"`
	BatchSize      int    `toml:"batch_size" split_words:"true"`
	BackoffSeconds int    `toml:"backoff_seconds" split_words:"true"`
}

// Backoff базовая задержка повтора
func (r RetryConfig) Backoff() time.Duration {
	return time.Duration(r.BackoffSeconds) * time.Second
}

// RedisConfig Redis для ограничения частоты; пустой адрес выключает
type RedisConfig struct {
	Addr     string `toml:"addr" split_words:"true"`
	Password string `toml:"password" split_words:"true"`
	DB       int    `toml:"db" split_words:"true"`
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 30,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			File:  "logs/app.log",
			Level: "info",
		},
		Metrics: MetricsConfig{
			ServiceName: "appointment_service",
			Path:        "/metrics",
		},
		Booking: BookingConfig{
			SlotStepMinutes:       domain.DefaultSlotStepMinutes,
			LeadTimeMinutes:       60,
			Timezone:              "UTC",
			VelocityWindowMinutes: 60,
		},
		Finance: FinanceConfig{
			Timeout:   10,
			Operation: "process-appointment-completion",
			Retry: RetryConfig{
				Enabled:        true,
				MaxAttempts:    5,
				Schedule:       "@every 1m",
				BatchSize:      20,
				BackoffSeconds: 60,
			},
		},
	}
}

// Load читает TOML файл поверх значений по умолчанию и применяет переменные окружения APPT_*
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port must be in 1..65535, got %d", c.Server.HTTPPort))
	}
	if c.Database.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if c.Database.DBName == "" {
		errs = append(errs, errors.New("database.dbname is required"))
	}
	if c.Database.User == "" {
		errs = append(errs, errors.New("database.user is required"))
	}
	if c.Booking.SlotStepMinutes <= 0 || c.Booking.SlotStepMinutes > 24*60 {
		errs = append(errs, fmt.Errorf("booking.slot_step_minutes must be in 1..1440, got %d", c.Booking.SlotStepMinutes))
	}
	if c.Booking.LeadTimeMinutes < 0 {
		errs = append(errs, fmt.Errorf("booking.lead_time_minutes must not be negative, got %d", c.Booking.LeadTimeMinutes))
	}
	if _, err := c.Booking.Location(); err != nil {
		errs = append(errs, fmt.Errorf("booking.timezone: %w", err))
	}
	if c.Booking.VelocityMaxBookings < 0 {
		errs = append(errs, errors.New("booking.velocity_max_bookings must not be negative"))
	}
	if c.Booking.VelocityMaxBookings > 0 && c.Booking.VelocityWindowMinutes <= 0 {
		errs = append(errs, errors.New("booking.velocity_window_minutes must be positive when velocity limit is set"))
	}
	if c.Finance.URL == "" {
		errs = append(errs, errors.New("finance.url is required"))
	}
	if c.Finance.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("finance.timeout must be positive, got %d", c.Finance.Timeout))
	}
	if c.Finance.Operation == "" {
		errs = append(errs, errors.New("finance.operation is required"))
	}
	if c.Finance.Retry.Enabled {
		if c.Finance.Retry.MaxAttempts <= 0 {
			errs = append(errs, errors.New("finance.retry.max_attempts must be positive"))
		}
		if c.Finance.Retry.BatchSize <= 0 {
			errs = append(errs, errors.New("finance.retry.batch_size must be positive"))
		}
		if c.Finance.Retry.BackoffSeconds <= 0 {
			errs = append(errs, errors.New("finance.retry.backoff_seconds must be positive"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
