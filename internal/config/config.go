// Package config loads careerflow settings from careerflow.yaml, CAREERFLOW_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// App names the config file and the environment prefix.
	App = "careerflow"
	// EnvPrefix is prepended to upper-cased keys, e.g. CAREERFLOW_REDIS_ADDR.
	EnvPrefix = "CAREERFLOW"
)

// Session store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Catalog formats.
const (
	CatalogYAML = "yaml"
	CatalogLoam = "loam"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Session    SessionConfig    `mapstructure:"session"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Token      TokenConfig      `mapstructure:"token"`
	Assessment AssessmentConfig `mapstructure:"assessment"`
	Backend    BackendConfig    `mapstructure:"backend"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type SessionConfig struct {
	Store string        `mapstructure:"store" validate:"oneof=memory redis file postgres"`
	TTL   time.Duration `mapstructure:"ttl" validate:"gte=0"`
	// Dir is the session directory of the file store.
	Dir string `mapstructure:"dir"`
	// EncryptionKey is a base64 AES-256 key sealing emails at rest. Empty disables it.
	EncryptionKey string `mapstructure:"encryption_key"`
	// FallbackKeys are retired keys still accepted for decryption.
	FallbackKeys []string `mapstructure:"fallback_keys"`
	// RedactEmail masks the email local part before storing.
	RedactEmail bool `mapstructure:"redact_email"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	Prefix   string `mapstructure:"prefix"`
}

type PostgresConfig struct {
	// URL is the connection string of the postgres session store.
	URL string `mapstructure:"url"`
	// Table holds the sessions; created on startup when missing.
	Table string `mapstructure:"table"`
}

type TokenConfig struct {
	// Secret signs session cookies. Empty means a random per-process secret.
	Secret string        `mapstructure:"secret" validate:"omitempty,min=16"`
	TTL    time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

type AssessmentConfig struct {
	PageSize   int `mapstructure:"page_size" validate:"gt=0"`
	Total      int `mapstructure:"total" validate:"gt=0"`
	TopDomains int `mapstructure:"top_domains" validate:"gt=0"`
}

type BackendConfig struct {
	// URL of the assessment backend. Empty means the file catalog serves all collaborators.
	URL     string        `mapstructure:"url" validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type CatalogConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
	// Format is "yaml" for the plain file layout or "loam" for a Loam document repository.
	Format string `mapstructure:"format" validate:"oneof=yaml loam"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// Defaults mirror the package defaults of the components they configure.
var Defaults = map[string]any{
	"server.addr":            ":8080",
	"session.store":          StoreMemory,
	"session.ttl":            24 * time.Hour,
	"session.dir":            ".careerflow/sessions",
	"redis.addr":             "localhost:6379",
	"redis.db":               0,
	"redis.prefix":           "careerflow:session:",
	"postgres.url":           "",
	"postgres.table":         "careerflow_sessions",
	"session.encryption_key": "",
	"session.fallback_keys":  []string{},
	"session.redact_email":   false,
	"backend.url":            "",
	"token.ttl":              24 * time.Hour,
	"assessment.page_size":   10,
	"assessment.total":       20,
	"assessment.top_domains": 3,
	"backend.timeout":        10 * time.Second,
	"catalog.dir":            "catalog",
	"catalog.format":         CatalogYAML,
	"log.level":              "info",
	"log.format":             "text",
}

// FlagKeys maps command-line flag names to config keys.
var FlagKeys = map[string]string{
	"addr":           "server.addr",
	"store":          "session.store",
	"redis":          "redis.addr",
	"backend":        "backend.url",
	"catalog":        "catalog.dir",
	"catalog-format": "catalog.format",
	"log-level":      "log.level",
	"log-json":       "log.format",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewViper returns a viper instance with defaults and environment binding applied.
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range Defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds the known flags present in fs. Unknown flags are ignored.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range FlagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if name == "log-json" {
			// boolean switch for the format key
			if flag.Changed && flag.Value.String() == "true" {
				v.Set(key, "json")
			}
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("binding flag %q: %w", name, err)
		}
	}
	return nil
}

// Load reads file (or careerflow.yaml from the working directory when file is empty),
// then decodes and validates the merged settings. A missing default file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(App)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Session.Store == StoreRedis && c.Redis.Addr == "" {
		return errors.New("invalid config: redis.addr is required when session.store is redis")
	}
	if c.Session.Store == StorePostgres && c.Postgres.URL == "" {
		return errors.New("invalid config: postgres.url is required when session.store is postgres")
	}
	if c.Session.Store == StoreFile && c.Session.Dir == "" {
		return errors.New("invalid config: session.dir is required when session.store is file")
	}
	return nil
}
