package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/flamedump/flamedump/pkg/colorspace"
	"github.com/flamedump/flamedump/pkg/flame"
)

// Config holds the settings read from the optional config file at
// ~/.config/flamedump/config.toml. Command-line flags override it.
type Config struct {
	Width        float64       `toml:"width"`
	SampleHeight float64       `toml:"sample_height"`
	Inverted     bool          `toml:"inverted"`
	Background   string        `toml:"background"`
	Palette      PaletteConfig `toml:"palette"`
	Serve        ServeConfig   `toml:"serve"`
}

// PaletteConfig names the four corner colors of the flame gradient as
// "#rrggbb" strings. Empty fields keep the default corner.
type PaletteConfig struct {
	LeftBottom  string `toml:"left_bottom"`
	LeftTop     string `toml:"left_top"`
	RightBottom string `toml:"right_bottom"`
	RightTop    string `toml:"right_top"`
}

// ServeConfig holds settings for the serve command.
type ServeConfig struct {
	Addr      string `toml:"addr"`
	RedisURL  string `toml:"redis_url"`
	KeyPrefix string `toml:"key_prefix"`
	CacheTTL  string `toml:"cache_ttl"`
}

// DefaultConfig returns the built-in settings used when no config file
// exists.
func DefaultConfig() Config {
	return Config{
		Width:        flame.DefaultTotalWidth,
		SampleHeight: flame.DefaultSampleHeight,
		Serve: ServeConfig{
			Addr:     ":8470",
			CacheTTL: "24h",
		},
	}
}

// LoadConfig reads the config file at path, or at the default location if
// path is empty. A missing file at the default location is not an error;
// a missing file at an explicit path is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// configPath returns the config file location using the XDG standard
// (~/.config/flamedump/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, configFileName), nil
}

// ColorPalette resolves the configured corner colors, keeping defaults
// for corners left unset.
func (p PaletteConfig) ColorPalette() (colorspace.Palette, error) {
	pal := colorspace.DefaultPalette()

	set := func(dst *colorspace.Color, hex string) error {
		if hex == "" {
			return nil
		}
		c, err := colorspace.ParseHex(hex)
		if err != nil {
			return err
		}
		*dst = c
		return nil
	}

	if err := set(&pal.LeftBottom, p.LeftBottom); err != nil {
		return pal, err
	}
	if err := set(&pal.LeftTop, p.LeftTop); err != nil {
		return pal, err
	}
	if err := set(&pal.RightBottom, p.RightBottom); err != nil {
		return pal, err
	}
	if err := set(&pal.RightTop, p.RightTop); err != nil {
		return pal, err
	}
	return pal, nil
}

// TTL parses the configured cache TTL. An empty value means no
// expiration.
func (s ServeConfig) TTL() (time.Duration, error) {
	if s.CacheTTL == "" {
		return 0, nil
	}
	return time.ParseDuration(s.CacheTTL)
}
