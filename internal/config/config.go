// Package config loads crop/export settings from a JSON file with CLI flag
// overrides and sensible defaults.
package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"runtime"
	"strconv"
	"strings"

	"avatar-cropper/internal/export"
	"avatar-cropper/internal/geometry"
	"avatar-cropper/internal/render"
)

// Config holds all configurable crop and export settings.
type Config struct {
	// Paths
	InputPath string `json:"input_path"`
	OutputDir string `json:"output_dir"`

	// Crop appearance
	Background   string  `json:"background"` // hex color
	Overlay      string  `json:"overlay"`    // hex color
	Border       string  `json:"border"`     // hex color
	BorderWidth  float64 `json:"border_width"`
	Shape        string  `json:"shape"` // circle | circle-dotted | square
	CropFraction float64 `json:"crop_fraction"`
	Quality      string  `json:"quality"` // none | low | medium | high

	// Export settings
	Format  string `json:"format"` // png | webp
	Workers int    `json:"workers"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputPath string
	OutputDir string
	Shape     string
	Format    string
	Workers   int
}

// Load reads a JSON config file. Fields not set in the file keep their zero
// values until Resolve fills defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in empty fields with defaults. CLI flags take priority when
// non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.InputPath != "" {
		c.InputPath = flags.InputPath
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Shape != "" {
		c.Shape = flags.Shape
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.Background == "" {
		c.Background = "#ffffff"
	}
	if c.Overlay == "" {
		c.Overlay = "#000000b3"
	}
	if c.Border == "" {
		c.Border = "#ffffff"
	}
	if c.BorderWidth <= 0 {
		c.BorderWidth = 2
	}
	if c.Shape == "" {
		c.Shape = "circle"
	}
	if c.CropFraction <= 0 || c.CropFraction > 1 {
		c.CropFraction = 0.62
	}
	if c.Quality == "" {
		c.Quality = "high"
	}
	if c.Format == "" {
		c.Format = "png"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Style converts the resolved settings into render/geometry types.
func (c *Config) Style() (render.Style, error) {
	bg, err := ParseHexColor(c.Background)
	if err != nil {
		return render.Style{}, fmt.Errorf("config: background: %w", err)
	}
	ov, err := ParseHexColor(c.Overlay)
	if err != nil {
		return render.Style{}, fmt.Errorf("config: overlay: %w", err)
	}
	bd, err := ParseHexColor(c.Border)
	if err != nil {
		return render.Style{}, fmt.Errorf("config: border: %w", err)
	}
	shape, err := parseShape(c.Shape)
	if err != nil {
		return render.Style{}, err
	}
	quality, err := parseQuality(c.Quality)
	if err != nil {
		return render.Style{}, err
	}

	return render.Style{
		Background:   bg,
		Overlay:      ov,
		Border:       bd,
		BorderWidth:  c.BorderWidth,
		Shape:        shape,
		CropFraction: c.CropFraction,
		Quality:      quality,
	}, nil
}

// ExportFormat converts the resolved format string.
func (c *Config) ExportFormat() (export.Format, error) {
	return export.ParseFormat(c.Format)
}

// ParseHexColor parses #RGB, #RRGGBB and #RRGGBBAA strings.
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(s, "#")

	switch len(h) {
	case 3:
		h = strings.Repeat(h[0:1], 2) + strings.Repeat(h[1:2], 2) + strings.Repeat(h[2:3], 2) + "ff"
	case 6:
		h += "ff"
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("config: bad color %q", s)
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("config: bad color %q: %w", s, err)
	}

	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

func parseShape(s string) (geometry.Shape, error) {
	switch s {
	case "circle":
		return geometry.ShapeCircle, nil
	case "circle-dotted":
		return geometry.ShapeCircleDotted, nil
	case "square":
		return geometry.ShapeSquare, nil
	default:
		return 0, fmt.Errorf("config: unknown shape %q", s)
	}
}

func parseQuality(s string) (render.Quality, error) {
	switch s {
	case "none":
		return render.QualityNone, nil
	case "low":
		return render.QualityLow, nil
	case "medium":
		return render.QualityMedium, nil
	case "high":
		return render.QualityHigh, nil
	default:
		return 0, fmt.Errorf("config: unknown quality %q", s)
	}
}
