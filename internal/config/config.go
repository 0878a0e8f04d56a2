package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the bookkeeper.yaml configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Import    ImportConfig    `yaml:"import"`
	Forecast  ForecastConfig  `yaml:"forecast"`
	Warehouse WarehouseConfig `yaml:"warehouse"`
}

// DatabaseConfig selects the ledger store
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`   // "postgres" or "sqlite"
	ConnStr  string `yaml:"conn_str"` // Overrides the individual fields when set
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// ServerConfig controls the gRPC listener
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	APIToken string `yaml:"api_token"`
}

// LogConfig controls zerolog output
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// ArchiveConfig selects where raw statement files are kept.
// A bucket wins over a directory; neither disables archiving.
type ArchiveConfig struct {
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Endpoint string `yaml:"endpoint"` // Storage emulator, e.g. http://localhost:4443/storage/v1/
	Dir      string `yaml:"dir"`
}

// ImportConfig controls statement parsing
type ImportConfig struct {
	Format    string `yaml:"format"`
	RulesFile string `yaml:"rules_file"`
}

// ForecastConfig controls series generation
type ForecastConfig struct {
	FixedHorizonMonths int `yaml:"fixed_horizon_months"`
}

// WarehouseConfig names the BigQuery table used by the export command
type WarehouseConfig struct {
	Project string `yaml:"project"`
	Dataset string `yaml:"dataset"`
	Table   string `yaml:"table"`
}

// Default returns a Config matching a local docker-compose setup
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Name:     "bookkeeper",
		},
		Server: ServerConfig{
			Addr:     ":8080",
			APIToken: "dev-token",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Import: ImportConfig{
			Format: "csv",
		},
		Forecast: ForecastConfig{
			FixedHorizonMonths: 60,
		},
		Warehouse: WarehouseConfig{
			Table: "transactions",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("DB_DRIVER", &c.Database.Driver)
	str("DB_CONN_STR", &c.Database.ConnStr)
	str("DB_HOST", &c.Database.Host)
	str("DB_USER", &c.Database.User)
	str("DB_PASSWORD", &c.Database.Password)
	str("DB_NAME", &c.Database.Name)
	if v, ok := lookup("DB_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT %q: %w", v, err)
		}
		c.Database.Port = port
	}

	str("GRPC_ADDR", &c.Server.Addr)
	str("API_TOKEN", &c.Server.APIToken)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("ARCHIVE_BUCKET", &c.Archive.Bucket)
	str("ARCHIVE_DIR", &c.Archive.Dir)
	str("STORAGE_EMULATOR_ENDPOINT", &c.Archive.Endpoint)
	str("RULES_FILE", &c.Import.RulesFile)
	str("BQ_PROJECT", &c.Warehouse.Project)
	str("BQ_DATASET", &c.Warehouse.Dataset)
	str("BQ_TABLE", &c.Warehouse.Table)
	return nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	driver := strings.ToLower(c.Database.Driver)
	switch driver {
	case "postgres", "postgresql", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("unsupported database driver %q (want postgres or sqlite)", c.Database.Driver)
	}
	if strings.HasPrefix(driver, "sqlite") && c.Database.ConnStr == "" {
		return fmt.Errorf("sqlite requires database.conn_str (a file path or :memory:)")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Forecast.FixedHorizonMonths < 1 {
		return fmt.Errorf("forecast.fixed_horizon_months must be positive, got %d", c.Forecast.FixedHorizonMonths)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("unsupported log format %q (want json or console)", c.Log.Format)
	}
	return nil
}

// DSN returns the driver connection string
func (d DatabaseConfig) DSN() string {
	if d.ConnStr != "" {
		return d.ConnStr
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}
