package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the bake settings.
type Config struct {
	// RotoNode is the node created by roto bakes: Roto or RotoPaint.
	RotoNode string `yaml:"roto_node"`
	// ColorRange bounds each channel of generated colour groups, within [0, 1].
	ColorRange [2]float64 `yaml:"color_range"`

	Database Database `yaml:"database"`
}

// Database holds the ledger connection settings. The password is never read
// from the file.
type Database struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Name string `yaml:"name"`
}

// Flags are the CLI overrides of the config file.
type Flags struct {
	RotoNode string
	DBHost   string
	DBPort   int
	DBUser   string
	DBName   string
}

func Default() Config {
	return Config{
		RotoNode:   "RotoPaint",
		ColorRange: [2]float64{0.1, 0.8},
		Database: Database{
			Host: "localhost",
			Port: 3306,
			User: "motionbake",
			Name: "motionbake",
		},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies the non-zero flags.
func (c *Config) Resolve(flags Flags) {
	if flags.RotoNode != "" {
		c.RotoNode = flags.RotoNode
	}
	if flags.DBHost != "" {
		c.Database.Host = flags.DBHost
	}
	if flags.DBPort > 0 {
		c.Database.Port = flags.DBPort
	}
	if flags.DBUser != "" {
		c.Database.User = flags.DBUser
	}
	if flags.DBName != "" {
		c.Database.Name = flags.DBName
	}
}

func (c Config) Validate() error {
	if c.RotoNode != "Roto" && c.RotoNode != "RotoPaint" {
		return fmt.Errorf("roto_node must be Roto or RotoPaint, got %q", c.RotoNode)
	}
	lo, hi := c.ColorRange[0], c.ColorRange[1]
	if lo < 0 || hi > 1 || lo > hi {
		return fmt.Errorf("color_range must satisfy 0 <= lo <= hi <= 1, got [%g, %g]", lo, hi)
	}
	return nil
}
