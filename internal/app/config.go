package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default configuration constants
const (
	DefaultChannel    = "A"
	DefaultTalkerID   = "AI"
	DefaultPriority   = 2
	DefaultLogDir     = "./logs"
	DefaultSerialBaud = 38400 // IEC 61162-1 high-speed rate
)

// Config holds application configuration
type Config struct {
	Channel      string `yaml:"channel"`
	TalkerID     string `yaml:"talkerId"`
	UniqueID     string `yaml:"uniqueId"`
	UTCHHMM      string `yaml:"utcHHMM"`
	StartSlot    string `yaml:"startSlot"`
	Priority     int    `yaml:"priority"`
	InputPath    string `yaml:"input"`
	LogDir       string `yaml:"logDir"`
	LogRotateUTC bool   `yaml:"logRotateUTC"`
	LogMaxDays   int    `yaml:"logMaxDays"`
	SerialDevice string `yaml:"serialDevice"`
	SerialBaud   int    `yaml:"serialBaud"`
	Verbose      bool   `yaml:"-"`
	ShowVersion  bool   `yaml:"-"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() Config {
	return Config{
		Channel:      DefaultChannel,
		TalkerID:     DefaultTalkerID,
		Priority:     DefaultPriority,
		LogDir:       DefaultLogDir,
		LogRotateUTC: true,
		SerialBaud:   DefaultSerialBaud,
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration fields this layer depends on.
func (c *Config) Validate() error {
	if c.Channel != "A" && c.Channel != "B" {
		return fmt.Errorf("channel must be A or B, got %q", c.Channel)
	}
	if c.Priority < 0 || c.Priority > 2 {
		return fmt.Errorf("priority must be 0-2, got %d", c.Priority)
	}
	if len(c.UniqueID) > 15 {
		return fmt.Errorf("unique ID %q exceeds 15 characters", c.UniqueID)
	}
	return nil
}
