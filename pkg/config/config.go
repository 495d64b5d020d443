package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	TaxYear   int    `mapstructure:"tax_year"`
	LogLevel  string `mapstructure:"log_level"`
	OutputDir string `mapstructure:"output_dir"`
}

func (c *Config) GetOutputPath() string {
	return c.OutputDir
}

// Build loads configuration from (in increasing priority) defaults, the
// config file, a local .env file, TXFU_* environment variables and flags.
// An empty cfgFile looks for config.yaml in the working directory and is not
// required to exist.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// .env is optional
	_ = gotenv.Load()

	v := viper.New()
	v.SetDefault("tax_year", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("output_dir", "")

	v.SetEnvPrefix("TXFU")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for key, flag := range map[string]string{"tax_year": "tax-year", "log_level": "log-level", "output_dir": "output"} {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.TaxYear < 0 {
		return nil, fmt.Errorf("invalid tax_year %d", cfg.TaxYear)
	}
	return &cfg, nil
}

// New creates a configuration that only sets the output directory.
func New(outputPath string) *Config {
	return &Config{
		LogLevel:  "info",
		OutputDir: outputPath,
	}
}
