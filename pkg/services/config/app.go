package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type PivotConfig struct {
	Strict      bool   `mapstructure:"strict"`
	PresetsPath string `mapstructure:"presets_path"`
}

type SourceConfig struct {
	Driver string            `mapstructure:"driver"`
	DSN    string            `mapstructure:"dsn"`
	Files  map[string]string `mapstructure:"files"`
}

type AppConfig struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Pivot  PivotConfig  `mapstructure:"pivot"`
	Source SourceConfig `mapstructure:"source"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("pivot.strict", false)
	v.SetDefault("pivot.presets_path", "")
	v.SetDefault("source.driver", "")
	v.SetDefault("source.dsn", "")
}

// LoadConfig reads the optional config file at path and applies PIVOT_*
// environment overrides (PIVOT_SERVER_PORT, PIVOT_LOG_LEVEL, ...). An empty
// path yields defaults plus environment.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("pivot")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse app config: %w", err)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	return &cfg, nil
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
