package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration holds everything the API and CLI need at startup.
type Configuration struct {
	Port            string `env:"APP_PORT" envDefault:"8080"`
	DataDir         string `env:"DATA_DIR" envDefault:"./data"`
	DefaultCurrency string `env:"DEFAULT_CURRENCY" envDefault:"XAF"`
	ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"` // seconds

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`   // text, json
	LogOutput     string `env:"LOG_OUTPUT" envDefault:"stdout"` // stdout, file, both
	LogPath       string `env:"LOG_PATH" envDefault:"./logs"`
	LogFile       string `env:"LOG_FILE" envDefault:"app.log"`
	LogMaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"` // MB
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	LogMaxAge     int    `env:"LOG_MAX_AGE" envDefault:"7"` // days
	LogCompress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

// Load reads the given .env files (default ".env") when they exist and parses the environment.
// A missing .env file is not an error; a malformed one is.
func Load(files ...string) (*Configuration, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Configuration{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cfg.DefaultCurrency))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that have no safe fallback.
func (c *Configuration) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("DATA_DIR cannot be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("APP_PORT cannot be empty")
	}
	switch c.LogOutput {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("LOG_OUTPUT must be stdout, file or both (got %q)", c.LogOutput)
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10
	}
	return nil
}

// ShutdownGrace is the time allowed for in-flight requests on shutdown.
func (c *Configuration) ShutdownGrace() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// Addr is the listen address.
func (c *Configuration) Addr() string { return ":" + c.Port }
