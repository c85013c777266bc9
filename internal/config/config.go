package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap/zapcore"

	"github.com/and161185/lexinote/internal/dictionary"
)

// Provider kinds understood by the server.
const (
	KindMyMemory = "mymemory"
	KindGoogle   = "google"
)

// Config is the lexinote-server configuration.
type Config struct {
	App        AppConfig        `yaml:"app"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Auth       AuthConfig       `yaml:"auth"`
	Providers  []ProviderConfig `yaml:"providers"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Postgres.Validate(); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	seen := make(map[string]bool, len(c.Providers))
	for i := range c.Providers {
		p := &c.Providers[i]
		if err := p.Validate(); err != nil {
			return fmt.Errorf("providers[%d]: %w", i, err)
		}
		if seen[p.Name] {
			return fmt.Errorf("providers[%d]: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
	}
	return c.Dictionary.Validate()
}

// AppConfig holds process-level settings.
type AppConfig struct {
	LogLevel        zapcore.Level `yaml:"log_level"`
	HTTP            HTTPConfig    `yaml:"http"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Validate validates the application section.
func (c *AppConfig) Validate() error {
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout must not be negative")
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP listener settings.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the listen address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP section.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// PostgresConfig holds the database connection string.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// Validate validates the postgres section.
func (c *PostgresConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DSN, validation.Required),
	)
}

// AuthConfig holds the access token settings.
type AuthConfig struct {
	JWTKey    string        `yaml:"jwt_key"`
	AccessTTL time.Duration `yaml:"access_ttl"`
}

// Validate validates the auth section.
func (c *AuthConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.JWTKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.AccessTTL, validation.Min(time.Duration(0))),
	)
}

// ProviderConfig describes one translation provider.
// A nil DailyLimit keeps the provider's built-in limit; 0 means unlimited.
type ProviderConfig struct {
	Name         string        `yaml:"name"`
	Kind         string        `yaml:"kind"`
	Endpoint     string        `yaml:"endpoint"`
	Enabled      bool          `yaml:"enabled"`
	DailyLimit   *int          `yaml:"daily_limit"`
	RequiresAuth bool          `yaml:"requires_auth"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Validate validates one provider entry.
func (c *ProviderConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Kind, validation.Required, validation.In(KindMyMemory, KindGoogle)),
		validation.Field(&c.DailyLimit, validation.Min(0)),
	)
}

// Limit returns the configured limit, or -1 to select the provider default.
func (c *ProviderConfig) Limit() int {
	if c.DailyLimit == nil {
		return -1
	}
	return *c.DailyLimit
}

// DictionaryConfig controls the Free Dictionary enrichment.
type DictionaryConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Validate validates the dictionary section.
func (c *DictionaryConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Endpoint, validation.Required),
	)
}

func defaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{Name: "MyMemory", Kind: KindMyMemory, Enabled: true},
		{Name: "Google", Kind: KindGoogle, Enabled: true},
	}
}

// NewDefaultConfig returns a Config with defaults; the DSN and JWT key must still be supplied.
func NewDefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			LogLevel:        zapcore.InfoLevel,
			HTTP:            HTTPConfig{Port: 8080},
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{AccessTTL: 24 * time.Hour},
		Providers: defaultProviders(),
		Dictionary: DictionaryConfig{
			Enabled:  true,
			Endpoint: dictionary.DefaultEndpoint,
			Timeout:  5 * time.Second,
		},
	}
}
