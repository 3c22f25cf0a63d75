package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "LEXNORM"

	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"

	DefaultServerAddr   = ":8000"
	DefaultMaxLogLength = 200
	DefaultGeminiModel  = "gemini-2.5-pro"
)

// Config is the full process configuration.
type Config struct {
	Database *DatabaseConfig `mapstructure:"database"`
	Gemini   *GeminiConfig   `mapstructure:"gemini"`
	Prompts  *PromptsConfig  `mapstructure:"prompts"`
	Server   *ServerConfig   `mapstructure:"server"`
	Log      *LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Driver      string   `mapstructure:"driver"`
	DSN         string   `mapstructure:"dsn"`
	Replicas    []string `mapstructure:"replicas"`
	AutoMigrate bool     `mapstructure:"auto-migrate"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

// PromptsConfig holds the default prompt templates. Empty values fall back to the built-in templates.
type PromptsConfig struct {
	Summary string `mapstructure:"summary"`
	Mapping string `mapstructure:"mapping"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	MaxLength int `mapstructure:"max-length"`
}

// NewDefault returns a configuration backed by a local sqlite database.
func NewDefault() *Config {
	return &Config{
		Database: &DatabaseConfig{
			Driver:      DriverSQLite,
			DSN:         "lexnorm.db",
			AutoMigrate: true,
		},
		Gemini:  &GeminiConfig{Model: DefaultGeminiModel},
		Prompts: &PromptsConfig{},
		Server:  &ServerConfig{Addr: DefaultServerAddr},
		Log:     &LogConfig{MaxLength: DefaultMaxLogLength},
	}
}

// Setup prepares v for reading: .env files are loaded into the process environment,
// environment overrides are enabled and the config file location is registered.
// A missing .env file is not an error.
func Setup(v *viper.Viper, configFile string, envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return errors.Wrapf(err, "loading env file %s", file)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		return nil
	}

	v.AddConfigPath(".")
	v.SetConfigName("lexnorm")
	v.SetConfigType("yaml")

	return nil
}

// Load reads the configuration registered on v. A missing default config file is tolerated,
// an explicitly configured one is not.
func Load(v *viper.Viper) (*Config, error) {
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Errorf("parsing config file: %s", err.Error())
		}
	}

	cfg := NewDefault()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	if cfg.Log.MaxLength <= 0 {
		cfg.Log.MaxLength = DefaultMaxLogLength
	}

	return cfg, nil
}

// bindEnvKeys registers every known key so AutomaticEnv overrides reach Unmarshal
// even when the key is absent from the config file.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"database.driver",
		"database.dsn",
		"database.replicas",
		"database.auto-migrate",
		"gemini.api-key",
		"gemini.api-key-file",
		"gemini.model",
		"prompts.summary",
		"prompts.mapping",
		"server.addr",
		"log.max-length",
	} {
		_ = v.BindEnv(key)
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() []error {
	errs := make([]error, 0)

	if c.Database == nil {
		errs = append(errs, errors.New("database section is required"))
	} else {
		switch strings.ToLower(strings.TrimSpace(c.Database.Driver)) {
		case DriverPostgres, DriverMySQL, DriverSQLite:
		default:
			errs = append(errs, errors.Errorf("unsupported database driver %q", c.Database.Driver))
		}
		if strings.TrimSpace(c.Database.DSN) == "" {
			errs = append(errs, errors.New("database.dsn is required"))
		}
	}

	if c.Server == nil || strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}

	return errs
}
