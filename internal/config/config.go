// Package config loads detection profiles and server settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/line-sensor-mcp/internal/detection"
	"github.com/ironsheep/line-sensor-mcp/internal/sensor"
)

// DefaultProfileName is the profile used when none is requested.
const DefaultProfileName = "default"

// ErrUnknownProfile is returned when a requested profile does not exist.
var ErrUnknownProfile = errors.New("unknown profile")

// Config holds the global configuration.
type Config struct {
	Logging        LoggingConfig      `yaml:"logging"`
	DefaultProfile string             `yaml:"default_profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// LoggingConfig holds configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Profile is a named detection setup for one kind of sensor bar.
type Profile struct {
	// MinBorder is the exclusive lower bound on flanking clear cells.
	MinBorder int `yaml:"min_border" json:"min_border"`

	// MinLine is the exclusive lower bound on line cells.
	MinLine int `yaml:"min_line" json:"min_line"`

	// Blur is one of none, blur, weak, strong.
	Blur string `yaml:"blur" json:"blur"`

	// Active lists the reading symbols that count as a set cell.
	Active string `yaml:"active" json:"active"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging:        LoggingConfig{Level: "info"},
		DefaultProfile: DefaultProfileName,
		Profiles: map[string]Profile{
			DefaultProfileName: {MinBorder: 2, MinLine: 3, Blur: "none", Active: sensor.DefaultActive},
		},
	}
}

// Load reads configuration from a file and applies environment variable
// overrides. An empty path yields the defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("LINE_MCP_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("LINE_MCP_PROFILE"); val != "" {
		cfg.DefaultProfile = val
	}
}

// Validate checks every profile and fills in defaults.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = "info"
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging configuration: invalid level %q", c.Logging.Level)
	}

	if c.Profiles == nil {
		c.Profiles = map[string]Profile{}
	}
	if _, ok := c.Profiles[DefaultProfileName]; !ok {
		c.Profiles[DefaultProfileName] = Default().Profiles[DefaultProfileName]
	}
	if strings.TrimSpace(c.DefaultProfile) == "" {
		c.DefaultProfile = DefaultProfileName
	}
	if _, ok := c.Profiles[c.DefaultProfile]; !ok {
		return fmt.Errorf("default_profile: %w: %q", ErrUnknownProfile, c.DefaultProfile)
	}

	for name, p := range c.Profiles {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
		if p.Active == "" {
			p.Active = sensor.DefaultActive
			c.Profiles[name] = p
		}
	}
	return nil
}

// Validate checks thresholds and the blur mode.
func (p Profile) Validate() error {
	if p.MinBorder < 0 {
		return fmt.Errorf("min_border must be >= 0, got %d", p.MinBorder)
	}
	if p.MinLine < 0 {
		return fmt.Errorf("min_line must be >= 0, got %d", p.MinLine)
	}
	if _, err := detection.ParseBlurMode(p.Blur); err != nil {
		return err
	}
	return nil
}

// Detector converts the profile into a detection.Detector.
func (p Profile) Detector() (detection.Detector, error) {
	mode, err := detection.ParseBlurMode(p.Blur)
	if err != nil {
		return detection.Detector{}, err
	}
	return detection.Detector{MinBorder: p.MinBorder, MinLine: p.MinLine, Blur: mode}, nil
}

// Profile returns the named profile, or the default profile for "".
func (c *Config) Profile(name string) (Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// ProfileNames returns the configured profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
