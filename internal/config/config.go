// Package config loads settings from defaults, a YAML file, DATADRILL_*
// environment variables and command-line flags, in rising priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/datadrill/internal/llm"
	"github.com/abhisek/datadrill/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. DATADRILL_LOG_LEVEL.
const EnvPrefix = "DATADRILL"

type Config struct {
	LLM      llm.Config     `mapstructure:"llm"`
	DB       DBConfig       `mapstructure:"db"`
	Log      logging.Config `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Practice PracticeConfig `mapstructure:"practice"`
}

type DBConfig struct {
	// Path of the SQLite file. Empty means the per-user data directory.
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type PracticeConfig struct {
	// Tick is the clock period. Only tests change it.
	Tick time.Duration `mapstructure:"tick"`

	// EnrichTimeout bounds each commentary request. Zero leaves it to
	// llm.timeout.
	EnrichTimeout time.Duration `mapstructure:"enrich_timeout"`
}

// FlagKeys maps command-line flag names to config keys. Flags missing from
// the flag set are skipped.
var FlagKeys = map[string]string{
	"db":       "db.path",
	"log-file": "log.file",
	"addr":     "server.addr",
	"provider": "llm.provider",
}

func setDefaults(v *viper.Viper) {
	l := llm.DefaultConfig()
	v.SetDefault("llm.provider", l.Provider)
	v.SetDefault("llm.timeout", l.Timeout)
	v.SetDefault("llm.retry.max_attempts", l.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", l.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", l.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", l.Retry.Multiplier)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", l.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", l.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", l.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", l.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")

	v.SetDefault("db.path", "")

	lg := logging.DefaultConfig()
	v.SetDefault("log.level", lg.Level)
	v.SetDefault("log.file", lg.File)
	v.SetDefault("log.format", lg.Format)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("practice.tick", time.Second)
	v.SetDefault("practice.enrich_timeout", time.Duration(0))
}

// Load reads the configuration. file names an explicit config file, which
// must exist; when empty the user config directory and the working
// directory are searched and a missing file is not an error.
func Load(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// configDir returns $XDG_CONFIG_HOME/datadrill, falling back to
// ~/.config/datadrill.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "datadrill"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "datadrill"), nil
}
