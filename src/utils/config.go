package utils

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

type (
	rootConfig struct {
		DatabaseUrl       string `toml:"database_url"`
		RedisUrl          string `toml:"redis_url"`
		CorsOrigin        string `toml:"cors_origin"`
		ListenAddr        string `toml:"listen_addr"`
		KeysDir           string `toml:"keys_dir"`
		DisableRateLimits bool   `toml:"disable_rate_limits"`
		Maintenance       bool   `toml:"maintenance"`
		JWT               jwtConfig
		Admin             adminConfig
	}

	jwtConfig struct {
		AccessExpiration time.Duration `toml:"access_exp"`
	}

	adminConfig struct {
		Prefix       string `toml:"prefix"`
		SiteTitle    string `toml:"site_title"`
		CookieName   string `toml:"cookie_name"`
		SecureCookie bool   `toml:"secure_cookie"`
	}
)

var Config *rootConfig

func defaultConfig() *rootConfig {
	return &rootConfig{
		ListenAddr: ":3000",
		KeysDir:    "keys",
		JWT: jwtConfig{
			AccessExpiration: 12 * time.Hour,
		},
		Admin: adminConfig{
			Prefix:     "/admin",
			SiteTitle:  "Quest administration",
			CookieName: "access_token",
		},
	}
}

func InitConfig(configPath string) {
	logger := zap.L()
	logger.Info("Reading config file...", zap.String("path", configPath))

	cfg, err := LoadConfig(configPath)
	if err != nil {
		logger.Fatal("Failed to decode config file", zap.Error(err))
	}
	Config = cfg

	logger.Info("Config variables successfully loaded")
}

// LoadConfig decodes the file over the defaults without touching the global Config.
func LoadConfig(configPath string) (*rootConfig, error) {
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, err
	}

	cfg.Admin.Prefix = "/" + strings.Trim(cfg.Admin.Prefix, "/")
	return cfg, nil
}

// SetConfig replaces the global config, used by tests and the CLI.
func SetConfig(cfg *rootConfig) {
	Config = cfg
}

// DefaultConfig returns a config populated only with defaults.
func DefaultConfig() *rootConfig {
	return defaultConfig()
}
