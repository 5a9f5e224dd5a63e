// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Firebase FirebaseConfig `mapstructure:"firebase"`
	Fanout   FanoutConfig   `mapstructure:"fanout"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Stripe   StripeConfig   `mapstructure:"stripe"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	MetricsPort    int `mapstructure:"metrics_port"`
	RequestTimeout int `mapstructure:"request_timeout"` // milliseconds
}

// FirebaseConfig holds the identity provider / document database / push gateway settings.
type FirebaseConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
	UserCollection  string `mapstructure:"user_collection"`
	EventCollection string `mapstructure:"event_collection"`
}

// FanoutConfig bounds the batched inbox writer.
type FanoutConfig struct {
	PageSize     int `mapstructure:"page_size"`
	MaxInboxSize int `mapstructure:"max_inbox_size"` // 0 = unbounded
}

type RedisConfig struct {
	Address     string `mapstructure:"address"`
	Password    string `mapstructure:"password"`
	DB          int    `mapstructure:"db"`
	DedupTTLSec int    `mapstructure:"dedup_ttl_sec"`
}

type StripeConfig struct {
	APIKey          string `mapstructure:"api_key"`
	DefaultCurrency string `mapstructure:"default_currency"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// MetricsAddr returns the listen address for the metrics endpoint.
func (s ServerConfig) MetricsAddr() string {
	return fmt.Sprintf(":%d", s.MetricsPort)
}
