// Package config handles configuration loading and validation for sheetmark.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/sheetmark/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Grid       GridConfig       `yaml:"grid"`
	AutoScroll AutoScrollConfig `yaml:"autoscroll"`
	Hover      HoverConfig      `yaml:"hover"`
	Cache      CacheConfig      `yaml:"cache"`
	Colors     ColorConfig      `yaml:"colors"`
	Database   DatabaseConfig   `yaml:"database"`
	DataDir    string           `yaml:"-"` // set by caller, not from config file
}

// APIConfig points at the evidence service and the document library folder
// that reference uploads land in.
type APIConfig struct {
	BaseURL          string        `yaml:"base_url"`
	Token            string        `yaml:"token"` // $VARS are expanded
	Timeout          time.Duration `yaml:"timeout"`
	FolderID         string        `yaml:"folder_id"`
	ClassificationID string        `yaml:"classification_id"`
}

// GridConfig controls how sheets are padded and drawn.
type GridConfig struct {
	MinRows     int `yaml:"min_rows"`
	MinCols     int `yaml:"min_cols"`
	ColumnWidth int `yaml:"column_width"` // terminal cells per column
}

// AutoScrollConfig tunes the drag auto-scroll curve. Speeds are pixels per
// frame; distance is pixels past the viewport edge.
type AutoScrollConfig struct {
	MinSpeed      float64       `yaml:"min_speed"`
	MaxSpeed      float64       `yaml:"max_speed"`
	MaxDistance   float64       `yaml:"max_distance"`
	FrameInterval time.Duration `yaml:"frame_interval"`
}

// HoverConfig controls the floating annotation menu.
type HoverConfig struct {
	HideDelay time.Duration `yaml:"hide_delay"`
}

// CacheConfig controls the local sheet snapshot cache.
type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	Disabled      bool          `yaml:"disabled"`
}

// ColorConfig holds hex colors used for cell highlighting.
type ColorConfig struct {
	MappingDefault string `yaml:"mapping_default"`
	Reference      string `yaml:"reference"`
	Selection      string `yaml:"selection"`
	Theme          string `yaml:"theme"`
}

// DatabaseConfig tunes the sqlite connection pool.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout: 30 * time.Second,
		},
		Grid: GridConfig{
			MinRows:     50,
			MinCols:     26,
			ColumnWidth: 12,
		},
		AutoScroll: AutoScrollConfig{
			MinSpeed:      3,
			MaxSpeed:      30,
			MaxDistance:   100,
			FrameInterval: 16 * time.Millisecond,
		},
		Hover: HoverConfig{
			HideDelay: 200 * time.Millisecond,
		},
		Cache: CacheConfig{
			TTL:           10 * time.Minute,
			SweepInterval: 5 * time.Minute,
		},
		Colors: ColorConfig{
			MappingDefault: "#FFEB3B",
			Reference:      "#90CAF9",
			Selection:      "#3B82F6",
			Theme:          styles.DefaultTheme,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.API.Token = os.ExpandEnv(cfg.API.Token)
	cfg.API.BaseURL = os.ExpandEnv(cfg.API.BaseURL)

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.API.Timeout == 0 {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.Grid.MinRows == 0 {
		c.Grid.MinRows = defaults.Grid.MinRows
	}
	if c.Grid.MinCols == 0 {
		c.Grid.MinCols = defaults.Grid.MinCols
	}
	if c.Grid.ColumnWidth == 0 {
		c.Grid.ColumnWidth = defaults.Grid.ColumnWidth
	}
	if c.AutoScroll.MinSpeed == 0 {
		c.AutoScroll.MinSpeed = defaults.AutoScroll.MinSpeed
	}
	if c.AutoScroll.MaxSpeed == 0 {
		c.AutoScroll.MaxSpeed = defaults.AutoScroll.MaxSpeed
	}
	if c.AutoScroll.MaxDistance == 0 {
		c.AutoScroll.MaxDistance = defaults.AutoScroll.MaxDistance
	}
	if c.AutoScroll.FrameInterval == 0 {
		c.AutoScroll.FrameInterval = defaults.AutoScroll.FrameInterval
	}
	if c.Hover.HideDelay == 0 {
		c.Hover.HideDelay = defaults.Hover.HideDelay
	}
	if c.Cache.SweepInterval == 0 {
		c.Cache.SweepInterval = defaults.Cache.SweepInterval
	}
	if c.Colors.MappingDefault == "" {
		c.Colors.MappingDefault = defaults.Colors.MappingDefault
	}
	if c.Colors.Reference == "" {
		c.Colors.Reference = defaults.Colors.Reference
	}
	if c.Colors.Selection == "" {
		c.Colors.Selection = defaults.Colors.Selection
	}
	if c.Colors.Theme == "" {
		c.Colors.Theme = defaults.Colors.Theme
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout cannot be negative")
	}

	if c.Grid.MinRows < 1 || c.Grid.MinCols < 1 {
		return fmt.Errorf("grid.min_rows and grid.min_cols must be at least 1")
	}
	if c.Grid.ColumnWidth < 3 {
		return fmt.Errorf("grid.column_width must be at least 3")
	}

	as := c.AutoScroll
	if as.MinSpeed <= 0 || as.MaxSpeed <= 0 {
		return fmt.Errorf("autoscroll speeds must be positive")
	}
	if as.MinSpeed > as.MaxSpeed {
		return fmt.Errorf("autoscroll.min_speed (%g) cannot exceed autoscroll.max_speed (%g)", as.MinSpeed, as.MaxSpeed)
	}
	if as.MaxDistance <= 0 {
		return fmt.Errorf("autoscroll.max_distance must be positive")
	}
	if as.FrameInterval <= 0 {
		return fmt.Errorf("autoscroll.frame_interval must be positive")
	}

	if c.Hover.HideDelay < 0 {
		return fmt.Errorf("hover.hide_delay cannot be negative")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl cannot be negative")
	}

	for name, hex := range map[string]string{
		"colors.mapping_default": c.Colors.MappingDefault,
		"colors.reference":       c.Colors.Reference,
		"colors.selection":       c.Colors.Selection,
	} {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("%s: invalid hex color %q", name, hex)
		}
	}

	if _, ok := styles.GetPalette(c.Colors.Theme); !ok {
		return fmt.Errorf("colors.theme: unknown theme %q (available: %s)", c.Colors.Theme, strings.Join(styles.ThemeNames(), ", "))
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	return nil
}

// HasAPI reports whether an evidence service is configured.
func (c *Config) HasAPI() bool {
	return c.API.BaseURL != ""
}

// LogFile returns the default log file path inside the data directory.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "sheetmark.log")
}

// LogsDir is where per-run logs such as import logs are written.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}
