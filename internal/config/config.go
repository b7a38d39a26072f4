package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FieldServer holds all configuration for the field server process.
type FieldServer struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Main loop polling interval.
	TickResolution time.Duration `yaml:"tick_resolution"`

	// Database (player property sums)
	Database DatabaseConfig `yaml:"database"`

	// Websocket marker feed
	Observer ObserverConfig `yaml:"observer"`

	// Instance lifecycle journal
	Journal JournalConfig `yaml:"journal"`

	// Zones attached at startup
	Zones []ZoneEntry `yaml:"zones"`
}

// DatabaseConfig holds store connection parameters.
type DatabaseConfig struct {
	Driver     string `yaml:"driver"` // postgres or sqlite
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	DBName     string `yaml:"dbname"`
	SSLMode    string `yaml:"sslmode"`
	SQLitePath string `yaml:"sqlite_path"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// ObserverConfig configures the websocket marker feed.
// Players lets connections join a zone as a player and send commands.
type ObserverConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Players     bool   `yaml:"players"`
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
}

// Addr returns the listen address.
func (o ObserverConfig) Addr() string {
	return fmt.Sprintf("%s:%d", o.BindAddress, o.Port)
}

// JournalConfig configures the compressed instance journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// ZoneEntry names a zone and the file holding its field configuration.
type ZoneEntry struct {
	Name   string `yaml:"name"`
	Config string `yaml:"config"`
}

// DefaultFieldServer returns FieldServer config with sensible defaults.
func DefaultFieldServer() FieldServer {
	return FieldServer{
		LogLevel:       "info",
		TickResolution: 10 * time.Millisecond,
		Database: DatabaseConfig{
			Driver:     "sqlite",
			Host:       "127.0.0.1",
			Port:       5432,
			User:       "arenafield",
			Password:   "arenafield",
			DBName:     "arenafield",
			SSLMode:    "disable",
			SQLitePath: "data/arenafield.db",
		},
		Observer: ObserverConfig{
			Enabled:     false,
			BindAddress: "127.0.0.1",
			Port:        8090,
		},
		Journal: JournalConfig{
			Enabled: false,
			Dir:     "data/journal",
		},
	}
}

// LoadFieldServer loads field server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadFieldServer(path string) (FieldServer, error) {
	cfg := DefaultFieldServer()

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

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c FieldServer) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.TickResolution <= 0 {
		return fmt.Errorf("tick_resolution must be positive, got %s", c.TickResolution)
	}
	seen := make(map[string]struct{}, len(c.Zones))
	for _, z := range c.Zones {
		if z.Name == "" {
			return fmt.Errorf("zone entry with empty name")
		}
		if _, dup := seen[z.Name]; dup {
			return fmt.Errorf("duplicate zone %q", z.Name)
		}
		seen[z.Name] = struct{}{}
	}
	return nil
}
