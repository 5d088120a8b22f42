package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
	Providers   map[string]ProviderConfig `json:"providers"`
	YouTube     YouTubeConfig             `json:"youtube"`
	JWTSecret   string                    `json:"jwt_secret"`
}

type BasicConfig struct {
	ServerAddress string `json:"server_address"`
	Provider      string `json:"provider"`
	Model         string `json:"model"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

type YouTubeConfig struct {
	APIKey string `json:"api_key"`
}

// Load reads configuration from the provided path (defaults to config.json).
// Secrets may also come from the environment: COMPANION_JWT_SECRET overrides
// jwt_secret, OPENAI_API_KEY overrides the openai provider key, and
// COMPANION_YOUTUBE_KEY overrides the YouTube key.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if secret := os.Getenv("COMPANION_JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret must be configured (COMPANION_JWT_SECRET)")
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if cfg.Providers == nil {
			cfg.Providers = make(map[string]ProviderConfig)
		}
		prov := cfg.Providers["openai"]
		prov.APIKey = key
		cfg.Providers["openai"] = prov
	}
	if key := os.Getenv("COMPANION_YOUTUBE_KEY"); key != "" {
		cfg.YouTube.APIKey = key
	}

	if cfg.BasicConfig.Provider == "" {
		cfg.BasicConfig.Provider = "openai"
	}

	return &cfg, nil
}
