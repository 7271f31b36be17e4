package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"files-manager/internal/storage"
	"files-manager/pkg/database/mongo"
	"files-manager/pkg/database/redis"
)

type Config struct {
	APIPort           string `env:"API_PORT" env-default:"5000"`
	FolderPath        string `env:"FOLDER_PATH" env-default:"/tmp/files_manager"`
	StorageBackend    string `env:"STORAGE_BACKEND" env-default:"disk"`
	WorkerConcurrency int    `env:"WORKER_CONCURRENCY" env-default:"10"`
	Mongo             mongo.Config
	Redis             redis.Config
	MinIO             storage.MinIOConfig
}

// New reads ./.env when present, the process environment otherwise.
func New() (*Config, error) {
	var cfg Config
	if _, err := os.Stat(".env"); err == nil {
		if err := cleanenv.ReadConfig(".env", &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	return &cfg, nil
}
