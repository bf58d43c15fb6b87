package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Reader interface {
	Read() (*Config, error)
}

var _ Reader = EnvReader{}

// EnvReader reads the process environment. When DotEnvPath is set, the
// file is loaded first without overriding variables that are already set.
type EnvReader struct {
	DotEnvPath string
}

func NewEnvReader(dotEnvPath string) EnvReader {
	return EnvReader{DotEnvPath: dotEnvPath}
}

func (r EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return nil, fmt.Errorf("unknown env: %s", cfg.Env)
	}

	return cfg, nil
}

// LoadDotEnv loads the dotenv file into the process environment.
// It reports whether the file was found.
func (r EnvReader) LoadDotEnv() (bool, error) {
	if r.DotEnvPath == "" {
		return false, nil
	}

	err := godotenv.Load(r.DotEnvPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
