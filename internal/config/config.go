// Package config resolves settings from flags, environment, .env and an
// optional jeeace.yaml file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key: api-url -> JEEACE_API_URL.
const EnvPrefix = "JEEACE"

// Config holds resolved settings for all commands.
type Config struct {
	APIURL       string `mapstructure:"api-url" validate:"required,url"`
	UserID       string `mapstructure:"user-id"`
	SessionToken string `mapstructure:"session-token"`
	DB           string `mapstructure:"db"`
	LogLevel     string `mapstructure:"log-level" validate:"oneof=trace debug info warn error"`
	LogFormat    string `mapstructure:"log-format" validate:"oneof=pretty json text"`
	Theme        string `mapstructure:"theme" validate:"oneof=dark light"`

	Addr           string        `mapstructure:"addr" validate:"required"`
	Marking        string        `mapstructure:"marking" validate:"oneof=jee simple"`
	HTTPTimeout    time.Duration `mapstructure:"http-timeout" validate:"gt=0"`
	AllowedOrigins []string      `mapstructure:"allowed-origins"`
	AuthSecret     string        `mapstructure:"auth-secret"`
}

// Defaults applied before any other source.
var defaults = map[string]any{
	"api-url":      "http://localhost:5000",
	"log-level":    "info",
	"log-format":   "pretty",
	"theme":        "dark",
	"addr":         ":5000",
	"marking":      "jee",
	"http-timeout": 60 * time.Second,
}

// Load builds a Config from flags, the environment and config files. A .env
// file in the working directory is loaded first if present. configFile, when
// set, replaces the search for jeeace.yaml.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := newViper(flags)
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.AllowedOrigins = splitOrigins(cfg.AllowedOrigins)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func newViper(flags *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	if flags != nil {
		_ = v.BindPFlags(flags)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for k := range knownKeys {
		_ = v.BindEnv(k)
	}

	v.SetConfigName("jeeace")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$XDG_CONFIG_HOME/jeeace")
	v.AddConfigPath("$HOME/.config/jeeace")
	return v
}

// knownKeys lists every key so Unmarshal sees env-only values.
var knownKeys = map[string]struct{}{
	"api-url": {}, "user-id": {}, "session-token": {}, "db": {},
	"log-level": {}, "log-format": {}, "theme": {}, "addr": {},
	"marking": {}, "http-timeout": {}, "allowed-origins": {}, "auth-secret": {},
}

// splitOrigins accepts both list values and a single comma-separated string.
func splitOrigins(in []string) []string {
	var out []string
	for _, s := range in {
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
