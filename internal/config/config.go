package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v9"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

var (
	// ErrReadConfig возвращается при ошибке чтения файла конфигурации
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrParseEnv возвращается при ошибке разбора переменных окружения
	ErrParseEnv = errors.New("config: failed to parse environment")

	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Storage  StorageConfig  `toml:"storage"`
	Booking  BookingConfig  `toml:"booking"`
	Calendar CalendarConfig `toml:"calendar"`
	Market   MarketConfig   `toml:"market"`
	Pricing  PricingConfig  `toml:"pricing"`
	Advisor  AdvisorConfig  `toml:"advisor"`
	Jobs     JobsConfig     `toml:"jobs"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" env:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" env:"DB_HOST"`
	Port            int    `toml:"port" env:"DB_PORT"`
	User            string `toml:"user" env:"DB_USER"`
	Password        string `toml:"password" env:"DB_PASSWORD"`
	DBName          string `toml:"dbname" env:"DB_NAME"`
	SSLMode         string `toml:"sslmode" env:"DB_SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
	ConnectTimeout  int    `toml:"connect_timeout"` // секунды на все попытки подключения
}

// DSN возвращает строку подключения
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig настройки кэша рыночных снимков
// Если Enabled = false, используется кэш в памяти процесса
type RedisConfig struct {
	Enabled  bool   `toml:"enabled" env:"REDIS_ENABLED"`
	Addr     string `toml:"addr" env:"REDIS_ADDR"`
	Password string `toml:"password" env:"REDIS_PASSWORD"`
	DB       int    `toml:"db" env:"REDIS_DB"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level" env:"LOG_LEVEL"`
	File  string `toml:"file" env:"LOG_FILE"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"METRICS_ENABLED"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// StorageConfig выбор хранилища: postgres или memory
type StorageConfig struct {
	Driver   string `toml:"driver" env:"STORAGE_DRIVER"`
	SeedFile string `toml:"seed_file" env:"STORAGE_SEED_FILE"` // только для memory
}

// BookingConfig правила бронирования и отмены
type BookingConfig struct {
	MaxStayNights         int           `toml:"max_stay_nights"`
	FreeCancellationHours int           `toml:"free_cancellation_hours"`
	CheckInHour           int           `toml:"check_in_hour"`
	PendingTTL            time.Duration `toml:"pending_ttl" env:"BOOKING_PENDING_TTL"`
}

// CalendarConfig ограничения календаря
type CalendarConfig struct {
	MaxRangeDays int `toml:"max_range_days"`
}

// MarketConfig настройки анализа рынка
type MarketConfig struct {
	CacheTTL       time.Duration `toml:"cache_ttl" env:"MARKET_CACHE_TTL"`
	CacheSize      int           `toml:"cache_size"`
	BeachCities    []string      `toml:"beach_cities"`
	MountainCities []string      `toml:"mountain_cities"`
}

// PricingConfig настройки движка цен
type PricingConfig struct {
	MaxRangeDays   int           `toml:"max_range_days"`
	AdvisorTimeout time.Duration `toml:"advisor_timeout"`
}

// AdvisorConfig внешний советник по ценам
type AdvisorConfig struct {
	Enabled bool   `toml:"enabled" env:"ADVISOR_ENABLED"`
	URL     string `toml:"url" env:"ADVISOR_URL"`
	Timeout int    `toml:"timeout"` // секунды, таймаут HTTP клиента
}

// JobsConfig периодические задачи
type JobsConfig struct {
	RepriceEnabled     bool          `toml:"reprice_enabled" env:"JOBS_REPRICE_ENABLED"`
	RepriceInterval    time.Duration `toml:"reprice_interval"`
	RepriceHorizonDays int           `toml:"reprice_horizon_days"`
	RepriceConcurrency int           `toml:"reprice_concurrency"`
	ExpireEnabled      bool          `toml:"expire_enabled" env:"JOBS_EXPIRE_ENABLED"`
	ExpireInterval     time.Duration `toml:"expire_interval"`
}

// Load читает конфигурацию из TOML файла, затем применяет переменные окружения и значения по умолчанию
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseEnv, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
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
		c.Server.ShutdownTimeout = 10
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
	if c.Database.ConnectTimeout == 0 {
		c.Database.ConnectTimeout = 60
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "availability_service"
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverPostgres
	}

	if c.Booking.MaxStayNights == 0 {
		c.Booking.MaxStayNights = domain.DefaultMaxStayNights
	}
	if c.Booking.FreeCancellationHours == 0 {
		c.Booking.FreeCancellationHours = domain.DefaultFreeCancellationHours
	}
	if c.Booking.CheckInHour == 0 {
		c.Booking.CheckInHour = domain.DefaultCheckInHour
	}
	if c.Booking.PendingTTL == 0 {
		c.Booking.PendingTTL = domain.DefaultPendingTTL
	}

	if c.Calendar.MaxRangeDays == 0 {
		c.Calendar.MaxRangeDays = domain.DefaultMaxRangeDays
	}

	if c.Market.CacheTTL == 0 {
		c.Market.CacheTTL = domain.DefaultMarketCacheTTL
	}
	if c.Market.CacheSize == 0 {
		c.Market.CacheSize = 1024
	}
	if len(c.Market.BeachCities) == 0 {
		c.Market.BeachCities = DefaultBeachCities
	}
	if len(c.Market.MountainCities) == 0 {
		c.Market.MountainCities = DefaultMountainCities
	}

	if c.Pricing.MaxRangeDays == 0 {
		c.Pricing.MaxRangeDays = domain.DefaultMaxPricingRangeDays
	}
	if c.Pricing.AdvisorTimeout == 0 {
		c.Pricing.AdvisorTimeout = domain.DefaultAdvisorTimeout
	}

	if c.Advisor.Timeout == 0 {
		c.Advisor.Timeout = 5
	}

	if c.Jobs.RepriceInterval == 0 {
		c.Jobs.RepriceInterval = 24 * time.Hour
	}
	if c.Jobs.RepriceHorizonDays == 0 {
		c.Jobs.RepriceHorizonDays = domain.DefaultRepriceHorizonDays
	}
	if c.Jobs.RepriceConcurrency == 0 {
		c.Jobs.RepriceConcurrency = domain.DefaultRepriceConcurrency
	}
	if c.Jobs.ExpireInterval == 0 {
		c.Jobs.ExpireInterval = time.Minute
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Storage.Driver == StorageDriverPostgres && c.Database.Host == "" {
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Advisor.Enabled && c.Advisor.URL == "" {
		return fmt.Errorf("%w: advisor.url is required when advisor is enabled", ErrInvalidConfig)
	}
	if c.Booking.CheckInHour < 0 || c.Booking.CheckInHour > 23 {
		return fmt.Errorf("%w: booking.check_in_hour must be in [0, 23]", ErrInvalidConfig)
	}
	if c.Booking.FreeCancellationHours < 0 {
		return fmt.Errorf("%w: booking.free_cancellation_hours must not be negative", ErrInvalidConfig)
	}
	if c.Calendar.MaxRangeDays < 1 || c.Pricing.MaxRangeDays < 1 {
		return fmt.Errorf("%w: max_range_days must be positive", ErrInvalidConfig)
	}
	if c.Jobs.RepriceConcurrency < 1 {
		return fmt.Errorf("%w: jobs.reprice_concurrency must be positive", ErrInvalidConfig)
	}

	return nil
}
