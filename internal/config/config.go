package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL     string `yaml:"API_BASE_URL"    env:"API_BASE_URL"    env-default:"http://localhost:8080/api"`
	LogLevel       string `yaml:"LOG_LEVEL"       env:"LOG_LEVEL"       env-default:"info"`
	LogFile        string `yaml:"LOG_FILE"        env:"LOG_FILE"`
	SessionFile    string `yaml:"SESSION_FILE"    env:"SESSION_FILE"`
	RequestTimeout int    `yaml:"REQUEST_TIMEOUT" env:"REQUEST_TIMEOUT" env-default:"15"`
}

func New() (*Config, error) {
	// .env is optional; environment variables alone are enough
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, err
	}
	if config.SessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		config.SessionFile = filepath.Join(home, ".vote-system", "session.json")
	}
	return &config, nil
}
