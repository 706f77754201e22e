package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"avatar-cropper/internal/export"
	"avatar-cropper/internal/geometry"
	"avatar-cropper/internal/render"

	"github.com/stretchr/testify/require"
)

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})

	require.Equal(t, 0.62, cfg.CropFraction)
	require.Equal(t, "circle", cfg.Shape)
	require.Equal(t, "png", cfg.Format)
	require.Equal(t, "high", cfg.Quality)
	require.Equal(t, 2.0, cfg.BorderWidth)
	require.Greater(t, cfg.Workers, 0)
}

func TestResolveFlagsOverrideFile(t *testing.T) {
	cfg := Config{Shape: "square", Format: "png", Workers: 2}
	cfg.Resolve(Flags{Shape: "circle-dotted", Format: "webp", Workers: 8})

	require.Equal(t, "circle-dotted", cfg.Shape)
	require.Equal(t, "webp", cfg.Format)
	require.Equal(t, 8, cfg.Workers)
}

func TestResolveRejectsBadFraction(t *testing.T) {
	cfg := Config{CropFraction: 1.7}
	cfg.Resolve(Flags{})
	require.Equal(t, 0.62, cfg.CropFraction)

	cfg = Config{CropFraction: -0.2}
	cfg.Resolve(Flags{})
	require.Equal(t, 0.62, cfg.CropFraction)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"shape": "square", "crop_fraction": 0.8, "format": "webp"}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "square", cfg.Shape)
	require.Equal(t, 0.8, cfg.CropFraction)

	cfg.Resolve(Flags{})
	style, err := cfg.Style()
	require.NoError(t, err)
	require.Equal(t, geometry.ShapeSquare, style.Shape)
	require.Equal(t, 0.8, style.CropFraction)

	f, err := cfg.ExportFormat()
	require.NoError(t, err)
	require.Equal(t, export.FormatWebP, f)
}

func TestLoadBadFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#102030", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}},
		{"#00000080", color.NRGBA{A: 0x80}},
		{"ff0000", color.NRGBA{R: 255, A: 255}},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "#12", "#12345", "#zzzzzz"} {
		_, err := ParseHexColor(bad)
		require.Error(t, err, bad)
	}
}

func TestStyleRejectsUnknownNames(t *testing.T) {
	cfg := Config{Shape: "hexagon"}
	cfg.Resolve(Flags{})
	_, err := cfg.Style()
	require.Error(t, err)

	cfg = Config{}
	cfg.Resolve(Flags{})
	cfg.Quality = "ultra"
	_, err = cfg.Style()
	require.Error(t, err)
}

func TestQualityMapping(t *testing.T) {
	cfg := Config{Quality: "none"}
	cfg.Resolve(Flags{})
	style, err := cfg.Style()
	require.NoError(t, err)
	require.Equal(t, render.QualityNone, style.Quality)
}
