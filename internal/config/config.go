// Package config loads application configuration and initializes logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	AppStore  AppStoreConfig  `yaml:"appstore" mapstructure:"appstore"`
	Analyze   AnalyzeConfig   `yaml:"analyze" mapstructure:"analyze"`
	Apps      AppsConfig      `yaml:"apps" mapstructure:"apps"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds text-generation settings. An empty key disables
// creative and insight generation; the numeric pipeline still runs.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Model       string `yaml:"model" mapstructure:"model"`
	MaxTokens   int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AppStoreConfig holds RapidAPI App Store scraper settings.
type AppStoreConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Host        string  `yaml:"host" mapstructure:"host"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AnalyzeConfig configures the D2C funnel analysis run.
type AnalyzeConfig struct {
	Input         string `yaml:"input" mapstructure:"input"`
	Sheet         string `yaml:"sheet" mapstructure:"sheet"`
	TopCategories int    `yaml:"top_categories" mapstructure:"top_categories"`
	OutputDir     string `yaml:"output_dir" mapstructure:"output_dir"`
	Concurrency   int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// AppsConfig configures the app-market pipeline.
type AppsConfig struct {
	KaggleCSV string `yaml:"kaggle_csv" mapstructure:"kaggle_csv"`
	DataDir   string `yaml:"data_dir" mapstructure:"data_dir"`
	TopApps   int    `yaml:"top_apps" mapstructure:"top_apps"`
}

// ServerConfig configures the artifact server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MARKETINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	// Secrets default empty so viper knows the keys; AutomaticEnv only
	// resolves env vars for keys it has seen.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("appstore.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("anthropic.timeout_secs", 60)
	v.SetDefault("appstore.base_url", "https://appstore-scrapper-api.p.rapidapi.com")
	v.SetDefault("appstore.host", "appstore-scrapper-api.p.rapidapi.com")
	v.SetDefault("appstore.rate_per_sec", 2.0)
	v.SetDefault("appstore.timeout_secs", 30)
	v.SetDefault("analyze.input", "data/d2c_dataset.xlsx")
	v.SetDefault("analyze.sheet", "Sheet1")
	v.SetDefault("analyze.top_categories", 3)
	v.SetDefault("analyze.output_dir", "outputs")
	v.SetDefault("analyze.concurrency", 0)
	v.SetDefault("apps.kaggle_csv", "data/googleplaystore.csv")
	v.SetDefault("apps.data_dir", "data")
	v.SetDefault("apps.top_apps", 10)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
