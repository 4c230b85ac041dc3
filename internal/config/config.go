// Package config loads and persists the run configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/miokari/smartppt/internal/layout"
)

// ErrCreatedDefault reports that no configuration file existed, so a
// default one was written for the operator to review before re-running.
var ErrCreatedDefault = errors.New("default configuration created")

// Config holds every run setting. Loaded once, immutable for the run.
type Config struct {
	ImageFolders []string `yaml:"image_folders"`
	OutputPPT    string   `yaml:"output_ppt"`

	ImageAreaRatio float64 `yaml:"image_area_ratio"`
	Margin         float64 `yaml:"margin"` // centimeters
	Gap            float64 `yaml:"gap"`    // centimeters

	// ShowFilenames is reserved; layout does not consume it yet.
	ShowFilenames   bool    `yaml:"show_filenames"`
	BorderWidth     float64 `yaml:"border_width"` // points, 0 disables
	ShowPageNumbers bool    `yaml:"show_page_numbers"`

	PortraitThreshold  float64 `yaml:"portrait_threshold"`
	SquareMinThreshold float64 `yaml:"square_min_threshold"`
	SquareMaxThreshold float64 `yaml:"square_max_threshold"`

	SupportedFormats []string `yaml:"supported_formats"`

	// SortFiles enables deterministic filename ordering of folder
	// enumeration. Off means storage order, which makes pairing depend
	// on whatever the filesystem returns.
	SortFiles bool `yaml:"sort_files"`

	// UnmatchedPolicy is "drop" or "rows"; see layout.UnmatchedPolicy.
	UnmatchedPolicy string `yaml:"unmatched_policy"`

	// InspectWorkers bounds parallel image inspection within a folder.
	InspectWorkers int `yaml:"inspect_workers"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		ImageFolders:       []string{"./images"},
		OutputPPT:          "slides_a3.pptx",
		ImageAreaRatio:     0.7,
		Margin:             1.5,
		Gap:                1.2,
		ShowFilenames:      false,
		BorderWidth:        1.0,
		ShowPageNumbers:    true,
		PortraitThreshold:  0.9,
		SquareMinThreshold: 0.9,
		SquareMaxThreshold: 1.1,
		SupportedFormats: []string{
			".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tiff", ".tif", ".webp", ".jfif",
		},
		SortFiles:       true,
		UnmatchedPolicy: string(layout.DropUnmatched),
		InspectWorkers:  1,
	}
}

// Load reads the YAML configuration at path. Missing keys keep their
// defaults. When the file does not exist, the defaults are written
// there and ErrCreatedDefault is returned so the caller can ask the
// operator to review the paths and re-run.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if werr := Write(path, Default()); werr != nil {
			return Config{}, fmt.Errorf("failed to create default config: %w", werr)
		}
		return Config{}, ErrCreatedDefault
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write persists the configuration as YAML.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects settings the layout engine cannot work with.
func (c Config) Validate() error {
	if len(c.ImageFolders) == 0 {
		return errors.New("config has no image folders")
	}
	if c.ImageAreaRatio <= 0 || c.ImageAreaRatio > 1 {
		return fmt.Errorf("image_area_ratio %v out of range (0, 1]", c.ImageAreaRatio)
	}
	if c.Margin < 0 || c.Gap < 0 {
		return fmt.Errorf("margin %v and gap %v must not be negative", c.Margin, c.Gap)
	}
	if c.PortraitThreshold <= 0 {
		return fmt.Errorf("portrait_threshold %v must be positive", c.PortraitThreshold)
	}
	switch layout.UnmatchedPolicy(c.UnmatchedPolicy) {
	case layout.DropUnmatched, layout.RowUnmatched:
	default:
		return fmt.Errorf("unknown unmatched_policy %q", c.UnmatchedPolicy)
	}
	return nil
}

// IsSupported reports whether a filename carries one of the configured
// image extensions.
func (c Config) IsSupported(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range c.SupportedFormats {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// normalize expands environment variables and the home shorthand in
// every configured path, makes them absolute, and clamps the remaining
// knobs into usable shape.
func (c *Config) normalize() {
	for i, folder := range c.ImageFolders {
		c.ImageFolders[i] = expandPath(folder)
	}
	if c.OutputPPT != "" {
		c.OutputPPT = expandPath(c.OutputPPT)
	}
	for i, ext := range c.SupportedFormats {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.SupportedFormats[i] = ext
	}
	if c.InspectWorkers < 1 {
		c.InspectWorkers = 1
	}
	if c.UnmatchedPolicy == "" {
		c.UnmatchedPolicy = string(layout.DropUnmatched)
	}
}

func expandPath(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
