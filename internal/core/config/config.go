package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Database holds the database configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// Redis holds the boundary store configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Kafka holds the order event publisher configuration.
	Kafka KafkaConfig `mapstructure:",squash"`

	// Ozon holds the Ozon seller API configuration.
	Ozon OzonConfig `mapstructure:",squash"`

	// Poll holds the new orders polling configuration.
	Poll PollConfig `mapstructure:",squash"`
}

// OzonConfig holds the credentials for the Ozon seller account.
type OzonConfig struct {
	// URL is the base URL of the Ozon seller API.
	URL string `mapstructure:"OZON_URL" default:"https://api-seller.ozon.ru"`
	// ClientID is sent as the Client-Id header.
	ClientID string `mapstructure:"OZON_CLIENT_ID" required:"true"`
	// APIKey is sent as the Api-Key header.
	APIKey string `mapstructure:"OZON_API_KEY" required:"true"`
	// ProfileID identifies the seller profile (tenant) the orders belong to.
	ProfileID string `mapstructure:"OZON_PROFILE_ID" required:"true"`
	// Timeout bounds a single API call.
	Timeout time.Duration `mapstructure:"OZON_TIMEOUT" default:"10s"`

	// Proxy routes API calls through an upstream HTTP proxy when enabled.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// ProxyConfig holds the optional upstream proxy for Ozon API calls.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"OZON_PROXY_ENABLED"`
	Hostname string `mapstructure:"OZON_PROXY_HOST"`
	Port     int    `mapstructure:"OZON_PROXY_PORT"`
	Username string `mapstructure:"OZON_PROXY_USER"`
	Password string `mapstructure:"OZON_PROXY_PASSWORD"`
}

// PollConfig controls how new orders are polled.
type PollConfig struct {
	// Interval is the scheduler period.
	Interval time.Duration `mapstructure:"POLL_INTERVAL" default:"1m"`
	// Lookback is the window used when no boundary is known yet.
	Lookback time.Duration `mapstructure:"POLL_LOOKBACK" default:"15m"`
	// Timezone is the location used for the daily catch-up window.
	Timezone string `mapstructure:"POLL_TIMEZONE" default:"UTC"`
	// WindowMode is either "frozen" or "advance".
	WindowMode string `mapstructure:"POLL_WINDOW_MODE" default:"frozen"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// URL is the Postgres connection string.
	URL string `mapstructure:"DATABASE_URL" required:"true"`
	// MigrationsDir holds the *.up.sql files applied on startup.
	MigrationsDir string `mapstructure:"DATABASE_MIGRATIONS_DIR" default:"migrations"`
}

// RedisConfig holds the Redis connection used for the polling boundary.
type RedisConfig struct {
	// URL is optional; when empty the boundary lives in memory only.
	URL string `mapstructure:"REDIS_URL"`
}

// KafkaConfig holds the optional publisher of fetched orders.
type KafkaConfig struct {
	// Brokers is a comma separated list; empty disables publishing.
	Brokers string `mapstructure:"KAFKA_BROKERS"`
	// Topic receives one message per new order.
	Topic string `mapstructure:"KAFKA_TOPIC" default:"ozon.orders.new"`
}

// BrokerList splits Brokers into addresses.
func (k KafkaConfig) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Location resolves the configured polling time zone.
func (p PollConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_TIMEZONE %q: %w", p.Timezone, err)
	}
	return loc, nil
}

// ConsoleConfig is the subset of settings needed by the console commands.
type ConsoleConfig struct {
	Environment string `mapstructure:"APP_ENV" default:"development"`
	LogLevel    string `mapstructure:"LOG_LEVEL" default:"info"`

	Database DatabaseConfig `mapstructure:",squash"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	var config AppConfig

	if err := load(path, &config); err != nil {
		return nil, err
	}

	if err := validateValues(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConsole loads the console configuration. Ozon credentials are not required.
func LoadConsole(path string) (*ConsoleConfig, error) {
	var config ConsoleConfig

	if err := load(path, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func load(path string, config interface{}) error {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := processTags(v, config); err != nil {
		return err
	}

	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("unable to decode into struct: %w", err)
	}

	return validateRequired(config)
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("bind env %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// validateValues rejects values that parse but make no sense for the poller.
func validateValues(config *AppConfig) error {
	switch config.Poll.WindowMode {
	case "frozen", "advance":
	default:
		return fmt.Errorf("invalid POLL_WINDOW_MODE: %q (want frozen or advance)", config.Poll.WindowMode)
	}

	if config.Poll.Lookback <= 0 {
		return fmt.Errorf("invalid POLL_LOOKBACK: %s", config.Poll.Lookback)
	}

	if config.Poll.Interval <= 0 {
		return fmt.Errorf("invalid POLL_INTERVAL: %s", config.Poll.Interval)
	}

	if _, err := config.Poll.Location(); err != nil {
		return err
	}

	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
