package config

import "os"

const (
	defaultApiUrl = "https://orakh-backend.onrender.com"
	defaultDbPath = "orakh.db"
)

type Config struct {
	BaseURL string
	DBPath  string
}

func NewConfig() *Config {
	cfg := &Config{
		BaseURL: defaultApiUrl,
		DBPath:  defaultDbPath,
	}
	if url := os.Getenv("ORAKH_API_URL"); url != "" {
		cfg.BaseURL = url
	}
	if path := os.Getenv("ORAKH_DB_PATH"); path != "" {
		cfg.DBPath = path
	}
	return cfg
}
