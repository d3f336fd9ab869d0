package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	QuoteProviderGoogle = "google"
	QuoteProviderYahoo  = "yahoo"
)

type Config struct {
	Log       Logger         `mapstructure:"logger"`
	DB        Database       `mapstructure:"database"`
	API       API            `mapstructure:"api"`
	Quote     Quote          `mapstructure:"quote"`
	Scheduler Scheduler      `mapstructure:"scheduler"`
	Cache     Cache          `mapstructure:"cache"`
	Telegram  TelegramConfig `mapstructure:"telegram"`
	Display   Display        `mapstructure:"display"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Driver          string `mapstructure:"driver"`
	Path            string `mapstructure:"path"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
}

type API struct {
	Port               int           `mapstructure:"port"`
	RateLimitPerSecond float64       `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst"`
	RateLimitExpiresIn time.Duration `mapstructure:"rate_limit_expires_in"`
}

type Quote struct {
	Provider         string        `mapstructure:"provider"`
	BaseURL          string        `mapstructure:"base_url"`
	YahooBaseURL     string        `mapstructure:"yahoo_base_url"`
	Exchange         string        `mapstructure:"exchange"`
	PriceSelector    string        `mapstructure:"price_selector"`
	UserAgent        string        `mapstructure:"user_agent"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
	MaxConcurrency   int           `mapstructure:"max_concurrency"`
}

type Scheduler struct {
	RefreshSpec     string        `mapstructure:"refresh_spec"`
	TimeoutDuration time.Duration `mapstructure:"timeout_duration"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	QuoteExpiration   time.Duration `mapstructure:"quote_expiration"`
	AlertExpiration   time.Duration `mapstructure:"alert_expiration"`
}

type TelegramConfig struct {
	BotToken                  string        `mapstructure:"bot_token"`
	APIURL                    string        `mapstructure:"api_url"`
	WebhookURL                string        `mapstructure:"webhook_url"`
	ChatID                    int64         `mapstructure:"chat_id"`
	TimeoutDuration           time.Duration `mapstructure:"timeout_duration"`
	MaxGlobalRequestPerSecond int           `mapstructure:"max_global_request_per_second"`
}

// Enabled reports whether price alerts can be delivered.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != 0
}

type Display struct {
	Currency string `mapstructure:"currency"`
	Style    string `mapstructure:"style"`
	Width    int    `mapstructure:"width"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.encoding", "console")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "stocks.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "portfolio")
	v.SetDefault("database.time_zone", "")
	v.SetDefault("database.max_idle_conns", 0)
	v.SetDefault("database.max_open_conns", 0)
	v.SetDefault("database.conn_max_lifetime", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.log_level", "Silent")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.rate_limit_per_second", 10)
	v.SetDefault("api.rate_limit_burst", 30)
	v.SetDefault("api.rate_limit_expires_in", 3*time.Minute)

	v.SetDefault("quote.provider", QuoteProviderGoogle)
	v.SetDefault("quote.base_url", "https://www.google.com/finance")
	v.SetDefault("quote.yahoo_base_url", "https://query1.finance.yahoo.com/v8/finance/chart")
	v.SetDefault("quote.exchange", "NSE")
	v.SetDefault("quote.price_selector", "div.YMlKec.fxKbKc")
	v.SetDefault("quote.user_agent", "Mozilla/5.0")
	v.SetDefault("quote.timeout", 15*time.Second)
	v.SetDefault("quote.max_request_per_min", 30)
	v.SetDefault("quote.max_concurrency", 4)

	v.SetDefault("scheduler.refresh_spec", "")
	v.SetDefault("scheduler.timeout_duration", 2*time.Minute)

	v.SetDefault("cache.default_expiration", 5*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)
	v.SetDefault("cache.quote_expiration", time.Minute)
	v.SetDefault("cache.alert_expiration", 6*time.Hour)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.api_url", "https://api.telegram.org")
	v.SetDefault("telegram.webhook_url", "")
	v.SetDefault("telegram.timeout_duration", 10*time.Second)
	v.SetDefault("telegram.max_global_request_per_second", 20)

	v.SetDefault("display.currency", "INR")
	v.SetDefault("display.style", "auto")
	v.SetDefault("display.width", 120)
}

// Load reads config.yaml from path (or the working directory when path is
// empty), then environment variables, then built-in defaults.
func Load(path string) (*Config, error) {
	// a missing .env is the common case
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
