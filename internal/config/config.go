package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Schedule ScheduleConfig `toml:"schedule"`
	Notifier NotifierConfig `toml:"notifier"`
	Admin    AdminConfig    `toml:"admin"`
}

// ServerConfig настройки HTTP-сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
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

// DSN собирает строку подключения к PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// ScheduleConfig настройки материализации расписания
type ScheduleConfig struct {
	// На сколько дней вперёд строится расписание при полной материализации
	HorizonDays int `toml:"horizon_days"`

	// Минимальный запас будущих дней, при котором горизонт не расширяется
	MinDaysAhead int `toml:"min_days_ahead"`

	// Размер пачки дней при расширении горизонта
	BatchSizeDays int `toml:"batch_size_days"`

	// Период фонового запуска расширения горизонта, часы
	ExtendIntervalHours int `toml:"extend_interval_hours"`
}

// NotifierConfig настройки webhook-уведомлений
type NotifierConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// AdminConfig настройки доступа к админским маршрутам
type AdminConfig struct {
	Token string `toml:"token"`
}

// Load загружает и валидирует конфигурацию из TOML-файла
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			ServiceName: "fgv-booking-service",
			Path:        "/metrics",
		},
		Schedule: ScheduleConfig{
			HorizonDays:         90,
			MinDaysAhead:        30,
			BatchSizeDays:       14,
			ExtendIntervalHours: 24,
		},
		Notifier: NotifierConfig{
			Timeout: 5,
		},
	}
}

func (c *Config) validate() error {
	if c.Database.User == "" || c.Database.DBName == "" {
		return fmt.Errorf("database user and dbname are required")
	}

	if c.Schedule.HorizonDays <= 0 {
		return fmt.Errorf("schedule.horizon_days must be positive")
	}

	if c.Schedule.MinDaysAhead <= 0 || c.Schedule.MinDaysAhead > c.Schedule.HorizonDays {
		return fmt.Errorf("schedule.min_days_ahead must be in (0, horizon_days]")
	}

	if c.Schedule.BatchSizeDays <= 0 {
		return fmt.Errorf("schedule.batch_size_days must be positive")
	}

	if c.Notifier.Enabled && c.Notifier.URL == "" {
		return fmt.Errorf("notifier.url is required when notifier is enabled")
	}

	if c.Admin.Token == "" {
		return fmt.Errorf("admin.token is required")
	}

	return nil
}
