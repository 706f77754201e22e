// Package export serializes a baked crop raster into a portable byte buffer.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
)

// Format selects the output encoding. Both formats are lossless.
type Format int

const (
	FormatPNG Format = iota
	FormatWebP
)

// String returns the format's file extension without the dot.
func (f Format) String() string {
	if f == FormatWebP {
		return "webp"
	}
	return "png"
}

// ParseFormat maps a config string to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return 0, fmt.Errorf("export: unknown format %q", s)
	}
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("export: webp encode: %w", err)
		}
	default:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("export: png encode: %w", err)
		}
	}
	return nil
}

// Bytes encodes img into a fresh buffer.
func Bytes(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
