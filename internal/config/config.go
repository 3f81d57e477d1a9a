package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends for loadouts.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Effectsim holds all configuration for the effectsim tool.
type Effectsim struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Directory with the YAML effect catalog.
	CatalogDir string `yaml:"catalog_dir"`

	// Loadout storage backend: memory, postgres or redis.
	Storage  string         `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`

	Simulation SimulationConfig `yaml:"simulation"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// SimulationConfig controls the duel simulation.
type SimulationConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"` // simulated time per round
	Rounds       int           `yaml:"rounds"`
	// Wall-clock pause between rounds. Zero runs as fast as possible.
	Pace time.Duration `yaml:"pace"`
}

// Default returns Effectsim config with sensible defaults.
func Default() Effectsim {
	return Effectsim{
		LogLevel:   "info",
		CatalogDir: "catalog",
		Storage:    StorageMemory,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "idkfx",
			Password: "idkfx",
			DBName:   "idkfx",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Addr:      "127.0.0.1:6379",
			KeyPrefix: "loadout:",
		},
		Simulation: SimulationConfig{
			TickInterval: time.Second,
			Rounds:       20,
		},
	}
}

// Load loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Effectsim, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Effectsim) validate() error {
	switch c.Storage {
	case StorageMemory, StoragePostgres, StorageRedis:
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	if c.Simulation.TickInterval <= 0 {
		return fmt.Errorf("simulation tick_interval must be positive, got %s", c.Simulation.TickInterval)
	}
	if c.Simulation.Rounds < 0 {
		return fmt.Errorf("simulation rounds must not be negative, got %d", c.Simulation.Rounds)
	}
	return nil
}
