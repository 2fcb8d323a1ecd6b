package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	SourcesFile    string `mapstructure:"sources_file"`
	PublishersFile string `mapstructure:"publishers_file"`
	OutputDir      string `mapstructure:"output_dir"`

	RunTimeoutSeconds int64         `mapstructure:"run_timeout_seconds"`
	RunTimeout        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "news-parser")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("sources_file", "./configs/sources.yaml")
	v.SetDefault("publishers_file", "")
	v.SetDefault("output_dir", "./data/raw")
	v.SetDefault("run_timeout_seconds", 1800)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.SourcesFile == "" {
		return nil, fmt.Errorf("sources_file must not be empty")
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output_dir must not be empty")
	}
	if cfg.RunTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid run_timeout_seconds (must be positive seconds)")
	}
	cfg.RunTimeout = time.Duration(cfg.RunTimeoutSeconds) * time.Second

	return &cfg, nil
}
