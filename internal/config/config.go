package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/TattooBookingService/pkg/types"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса (config.toml)
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Booking        BookingConfig        `toml:"booking"`
	Stripe         StripeConfig         `toml:"stripe"`
	GoogleCalendar GoogleCalendarConfig `toml:"google_calendar"`
	Redis          RedisConfig          `toml:"redis"`
	Admin          AdminConfig          `toml:"admin"`
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
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig бизнес-параметры расписания и удержания слотов
type BookingConfig struct {
	Timezone         string `toml:"timezone"`
	HoldMinutes      int    `toml:"hold_minutes"`
	SlotStepMinutes  int    `toml:"slot_step_minutes"`
	MinNoticeMinutes int    `toml:"min_notice_minutes"`
	MaxRangeDays     int    `toml:"max_range_days"`
	Currency         string `toml:"currency"`

	DefaultSchedule DefaultScheduleConfig `toml:"default_schedule"`
}

// DefaultScheduleConfig расписание по умолчанию для мастеров без шаблонов
type DefaultScheduleConfig struct {
	WeekdayOpen  types.TimeString `toml:"weekday_open"`
	WeekdayClose types.TimeString `toml:"weekday_close"`
	WeekendOpen  types.TimeString `toml:"weekend_open"`
	WeekendClose types.TimeString `toml:"weekend_close"`
}

// Location загружает бизнес-таймзону
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

type StripeConfig struct {
	SecretKey               string `toml:"secret_key"`
	WebhookSecret           string `toml:"webhook_secret"`
	WebhookToleranceSeconds int    `toml:"webhook_tolerance_seconds"`
	SuccessURL              string `toml:"success_url"`
	CancelURL               string `toml:"cancel_url"`
}

type GoogleCalendarConfig struct {
	Enabled        bool   `toml:"enabled"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	EventTimeZone  string `toml:"event_time_zone"`
}

type RedisConfig struct {
	Addr               string `toml:"addr"`
	Password           string `toml:"password"`
	DB                 int    `toml:"db"`
	FreeBusyTTLSeconds int    `toml:"freebusy_ttl_seconds"`
}

// Enabled true, если кэш free/busy настроен
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type AdminConfig struct {
	Token string `toml:"token"`
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию,
// переопределения из окружения и валидирует результат
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 15)
	setDefault(&c.Server.WriteTimeout, 15)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 10)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 20)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "tattoo-booking-service"
	}

	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "Europe/Moscow"
	}
	setDefault(&c.Booking.HoldMinutes, 20)
	setDefault(&c.Booking.SlotStepMinutes, 15)
	setDefault(&c.Booking.MinNoticeMinutes, 60)
	setDefault(&c.Booking.MaxRangeDays, 31)
	if c.Booking.Currency == "" {
		c.Booking.Currency = "rub"
	}
	ds := &c.Booking.DefaultSchedule
	if ds.WeekdayOpen == "" {
		ds.WeekdayOpen = "10:00"
	}
	if ds.WeekdayClose == "" {
		ds.WeekdayClose = "20:00"
	}
	if ds.WeekendOpen == "" {
		ds.WeekendOpen = "12:00"
	}
	if ds.WeekendClose == "" {
		ds.WeekendClose = "18:00"
	}

	setDefault(&c.Stripe.WebhookToleranceSeconds, 300)
	setDefault(&c.GoogleCalendar.TimeoutSeconds, 10)
	setDefault(&c.Redis.FreeBusyTTLSeconds, 60)
}

// applyEnv переопределяет секреты из переменных окружения
func (c *Config) applyEnv() {
	overrideFromEnv(&c.Stripe.SecretKey, "STRIPE_SECRET_KEY")
	overrideFromEnv(&c.Stripe.WebhookSecret, "STRIPE_WEBHOOK_SECRET")
	overrideFromEnv(&c.Admin.Token, "ADMIN_TOKEN")
	overrideFromEnv(&c.Database.Password, "DB_PASSWORD")
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Booking.HoldMinutes < 1 {
		return fmt.Errorf("%w: booking.hold_minutes must be positive", ErrInvalidConfig)
	}
	if c.Booking.SlotStepMinutes < 5 || c.Booking.SlotStepMinutes > 60 {
		return fmt.Errorf("%w: booking.slot_step_minutes must be within 5..60", ErrInvalidConfig)
	}
	if c.Booking.MinNoticeMinutes < 0 {
		return fmt.Errorf("%w: booking.min_notice_minutes must not be negative", ErrInvalidConfig)
	}
	if err := validateWindow(c.Booking.DefaultSchedule.WeekdayOpen, c.Booking.DefaultSchedule.WeekdayClose); err != nil {
		return fmt.Errorf("%w: booking.default_schedule weekday: %v", ErrInvalidConfig, err)
	}
	if err := validateWindow(c.Booking.DefaultSchedule.WeekendOpen, c.Booking.DefaultSchedule.WeekendClose); err != nil {
		return fmt.Errorf("%w: booking.default_schedule weekend: %v", ErrInvalidConfig, err)
	}
	if c.Admin.Token == "" {
		return fmt.Errorf("%w: admin.token is required", ErrInvalidConfig)
	}
	return nil
}

func validateWindow(open, closeAt types.TimeString) error {
	start, err := open.Minutes()
	if err != nil {
		return err
	}
	end, err := closeAt.Minutes()
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("open %s must be before close %s", open, closeAt)
	}
	return nil
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func overrideFromEnv(v *string, key string) {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		*v = val
	}
}
