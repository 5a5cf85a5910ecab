package utils

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

var (
	EnvPath string = "."
)

type Config struct {
	Env        string `mapstructure:"ENV"`
	ServerPort int    `mapstructure:"SERVER_PORT"`

	// Upstream eSIM backend
	BackendBaseURL string        `mapstructure:"BACKEND_BASE_URL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	RetryAttempts  int           `mapstructure:"RETRY_ATTEMPTS"`
	RetryBaseDelay time.Duration `mapstructure:"RETRY_BASE_DELAY"`

	// Reseller margin applied to provider prices
	PriceMarkupFactor     float64 `mapstructure:"PRICE_MARKUP_FACTOR"`
	UnlimitedMarkupFactor float64 `mapstructure:"UNLIMITED_MARKUP_FACTOR"`

	CatalogCacheTTL     time.Duration `mapstructure:"CATALOG_CACHE_TTL"`
	CatalogWarmInterval time.Duration `mapstructure:"CATALOG_WARM_INTERVAL"`
	CountdownInterval   time.Duration `mapstructure:"COUNTDOWN_INTERVAL"`
	DisplayTimezone     string        `mapstructure:"DISPLAY_TIMEZONE"`

	FlagCDNURL      string `mapstructure:"FLAG_CDN_URL"`
	RegionImagePath string `mapstructure:"REGION_IMAGE_PATH"`
	GlobalImage     string `mapstructure:"GLOBAL_IMAGE"`

	LogLevel          string `mapstructure:"LOG_LEVEL"`
	Papertrail        string `mapstructure:"PAPERTRAIL"`
	PapertrailAppName string `mapstructure:"PAPERTRAIL_APP_NAME"`

	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
}

var defaults = map[string]interface{}{
	"ENV":                     "development",
	"SERVER_PORT":             8080,
	"BACKEND_BASE_URL":        "",
	"REQUEST_TIMEOUT":         "15s",
	"RETRY_ATTEMPTS":          3,
	"RETRY_BASE_DELAY":        "200ms",
	"PRICE_MARKUP_FACTOR":     2.0,
	"UNLIMITED_MARKUP_FACTOR": 1.0,
	"CATALOG_CACHE_TTL":       "5m",
	"CATALOG_WARM_INTERVAL":   "0s",
	"COUNTDOWN_INTERVAL":      "1s",
	"DISPLAY_TIMEZONE":        "UTC",
	"FLAG_CDN_URL":            "https://flagcdn.com/w320",
	"REGION_IMAGE_PATH":       "/static/img/regions",
	"GLOBAL_IMAGE":            "as.png",
	"LOG_LEVEL":               "info",
	"PAPERTRAIL":              "",
	"PAPERTRAIL_APP_NAME":     "",
	"REDIS_HOST":              "",
	"REDIS_PORT":              "6379",
	"REDIS_PASSWORD":          "",
	"REDIS_DB":                0,
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "."
	}

	// Create a new Viper instance to avoid global state
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		// Environment variables and defaults still apply
		log.Printf("Warning: Unable to read config file: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.ServerPort == 0 {
		return fmt.Errorf("server port must be specified")
	}

	if config.BackendBaseURL == "" {
		return fmt.Errorf("backend base url must be provided")
	}

	if config.PriceMarkupFactor <= 0 || config.UnlimitedMarkupFactor <= 0 {
		return fmt.Errorf("markup factors must be positive")
	}

	if config.RetryAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1")
	}

	if _, err := time.LoadLocation(config.DisplayTimezone); err != nil {
		return fmt.Errorf("invalid display timezone %q: %w", config.DisplayTimezone, err)
	}

	return nil
}

// Location resolves DisplayTimezone; validateConfig has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Masking sensitive information for logging
func (c *Config) Redact() Config {
	redacted := *c
	if redacted.RedisPassword != "" {
		redacted.RedisPassword = "****"
	}
	return redacted
}
