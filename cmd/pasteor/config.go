package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pasteor/pasteor-cli/internal/model"
)

// cliConfig holds the client's configuration. Sources in ascending
// precedence: defaults, config file, PASTEOR_* environment, flags.
type cliConfig struct {
	APIURL         string        `mapstructure:"api-url"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
	TokenPath      string        `mapstructure:"token-path"`
	LogFile        string        `mapstructure:"log-file"`
	LogLevel       string        `mapstructure:"log-level"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	// A .env in the working directory is a development convenience; a
	// missing file is the normal case.
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}
	configDir := filepath.Join(home, ".config", "pasteor")

	v := viper.New()
	v.SetEnvPrefix("PASTEOR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("api-url", model.DefaultAPIURL)
	v.SetDefault("request-timeout", model.DefaultRequestTimeout)
	v.SetDefault("token-path", filepath.Join(configDir, "session.yml"))
	v.SetDefault("log-file", "")
	v.SetDefault("log-level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(configDir, "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return cfg, nil
}
