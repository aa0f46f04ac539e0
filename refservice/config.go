package refservice

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the configuration of the reference service. Every value can come from a YAML file
// and be overridden by an environment variable.
type Config struct {
	// Env selects the log format: "prod" and "staging" log JSON, anything else logs text.
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the SQLite database file. ":memory:" keeps everything in memory.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"students.db"`

	HTTPServer `yaml:"http_server"`
}

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8000"`
}

// LoadConfig reads the configuration from the YAML file at path, or only from the environment
// if path is empty.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read config from environment: %w", err)
		}
		return &cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	return &cfg, nil
}
