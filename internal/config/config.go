// Package config provides Viper-based hierarchical configuration management
// for the bot: defaults, an optional YAML config file, and environment
// variables (with .env support for local development).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var once sync.Once

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Telegram struct {
		Token string `mapstructure:"token" yaml:"-"` // Never serialize the token
		Debug bool   `mapstructure:"debug" yaml:"debug"`
	} `mapstructure:"telegram" yaml:"telegram"`

	Sheets struct {
		SpreadsheetID   string `mapstructure:"spreadsheet_id" yaml:"spreadsheet_id"`
		SheetName       string `mapstructure:"sheet_name" yaml:"sheet_name"`
		CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file"`
	} `mapstructure:"sheets" yaml:"sheets"`

	State struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"state" yaml:"state"`

	Parser struct {
		SynonymsFile string `mapstructure:"synonyms_file" yaml:"synonyms_file"`
	} `mapstructure:"parser" yaml:"parser"`
}

// LoadEnv loads environment variables from a .env file if one exists in the
// current or parent directory. Safe to call more than once.
func LoadEnv() {
	once.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				return
			}
		}
		_ = godotenv.Load(envFile)
	})
}

// Initialize builds the configuration with hierarchical loading: defaults,
// then an optional config file, then environment variables.
func Initialize() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.kasbot")
	v.AddConfigPath(".kasbot")
	v.AddConfigPath(".")

	v.SetEnvPrefix("KASBOT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file %s: %w", v.ConfigFileUsed(), err)
		}
		// No config file is fine, defaults and env vars apply.
	}

	// Secrets and deploy-level settings come from well-known unprefixed
	// environment variables.
	bindings := map[string]string{
		"telegram.token":          "BOT_TOKEN",
		"sheets.spreadsheet_id":   "SPREADSHEET_ID",
		"sheets.sheet_name":       "SHEET_NAME",
		"sheets.credentials_file": "GOOGLE_CREDENTIALS_FILE",
		"state.file":              "STATE_FILE",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("telegram.debug", false)

	v.SetDefault("sheets.sheet_name", "Sheet1")
	v.SetDefault("sheets.credentials_file", "credentials.json")

	v.SetDefault("state.file", "user_states.json")

	v.SetDefault("parser.synonyms_file", "")
}

func validate(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}
	return nil
}

// ValidateForBot checks the settings that are only required when actually
// talking to Telegram and Google Sheets. Offline commands skip this.
func (c *Config) ValidateForBot() error {
	var missing []string
	if c.Telegram.Token == "" {
		missing = append(missing, "BOT_TOKEN")
	}
	if c.Sheets.SpreadsheetID == "" {
		missing = append(missing, "SPREADSHEET_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ConfigureLogging returns a logrus logger set up from the config's log
// level and format.
func ConfigureLogging(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return logger
}
