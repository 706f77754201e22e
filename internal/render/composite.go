// Package render composites a source raster behind a crop mask, both for the
// live on-screen preview and for the full-resolution export.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"avatar-cropper/internal/geometry"
	"avatar-cropper/internal/transform"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Quality selects the resampling kernel used when drawing the source image.
type Quality int

const (
	QualityNone   Quality = iota // nearest neighbor
	QualityLow                   // approximate bilinear
	QualityMedium                // bilinear
	QualityHigh                  // Catmull-Rom
)

func (q Quality) kernel() draw.Transformer {
	switch q {
	case QualityNone:
		return draw.NearestNeighbor
	case QualityLow:
		return draw.ApproxBiLinear
	case QualityMedium:
		return draw.BiLinear
	default:
		return draw.CatmullRom
	}
}

// Style holds the session's immutable appearance parameters.
type Style struct {
	Background   color.NRGBA
	Overlay      color.NRGBA
	Border       color.NRGBA
	BorderWidth  float64
	Shape        geometry.Shape
	CropFraction float64
	Quality      Quality
}

// Renderer produces composites for one crop session.
type Renderer struct {
	Style Style
}

// Preview renders the on-screen composite: background, transformed source,
// overlay outside the crop hole, then the boundary stroke. That order is
// load-bearing: the overlay must cover the image but never the hole, and
// the stroke sits above both.
func (r *Renderer) Preview(src image.Image, st transform.State, vp geometry.Viewport) (image.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("render: preview requires a loaded source raster")
	}
	w := int(math.Round(vp.Width))
	h := int(math.Round(vp.Height))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: invalid viewport %gx%g", vp.Width, vp.Height)
	}

	// The scale that makes the source's larger dimension exactly fill the
	// crop hole at user scale 1.
	sb := src.Bounds()
	maxDim := math.Max(float64(sb.Dx()), float64(sb.Dy()))
	defaultScale := vp.CropSide() / maxDim
	eff := st.Scale * defaultScale

	aff := affineAbout(st.X+vp.Width/2, st.Y+vp.Height/2, eff, st.Angle, sb)
	bound := geometry.CropBoundary(vp, r.Style.Shape)

	return r.composite(w, h, src, aff, bound, r.Style.Overlay, true)
}

// Export bakes the current transform into a square raster of side
// max(srcW, srcH), independent of the on-screen viewport size. The viewport
// is still needed to convert screen-pixel offsets into export-resolution
// offsets. A nil source yields (nil, nil): an explicit absence, not an error.
func (r *Renderer) Export(src image.Image, st transform.State, vp geometry.Viewport) (image.Image, error) {
	if src == nil {
		return nil, nil
	}
	uiCropSide := vp.CropSide()
	if uiCropSide <= 0 {
		return nil, fmt.Errorf("render: invalid viewport %gx%g fraction %g", vp.Width, vp.Height, vp.CropFraction)
	}

	sb := src.Bounds()
	side := sb.Dx()
	if sb.Dy() > side {
		side = sb.Dy()
	}
	translateScale := float64(side) / uiCropSide

	aff := affineAbout(
		translateScale*st.X+float64(side)/2,
		translateScale*st.Y+float64(side)/2,
		st.Scale, st.Angle, sb)

	// Boundary re-evaluated at export resolution: the hole fills the
	// export canvas up to the crop fraction. Outside it, background only.
	exportVP := geometry.Viewport{
		Width:        float64(side),
		Height:       float64(side),
		CropFraction: vp.CropFraction,
	}
	bound := geometry.CropBoundary(exportVP, r.Style.Shape)

	return r.composite(side, side, src, aff, bound, r.Style.Background, false)
}

// composite is the shared algorithm behind both modes: fill, draw the
// transformed source, paint everything outside the boundary, optionally
// stroke the boundary decoration.
func (r *Renderer) composite(
	w, h int,
	src image.Image,
	aff f64.Aff3,
	bound geometry.Boundary,
	outside color.NRGBA,
	decorated bool,
) (image.Image, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(r.Style.Background), image.Point{}, draw.Src)

	r.Style.Quality.kernel().Transform(canvas, aff, src, src.Bounds(), draw.Over, nil)

	// Rasterize the outside-the-hole region (even-odd: full canvas +
	// boundary subpath) into an alpha mask on a transparent scratch
	// context, then source-over the outside color through it. A direct
	// gg fill would replace covered pixels, so a translucent overlay
	// would wipe the image instead of dimming it.
	mc := gg.NewContext(w, h)
	defer mc.Close()
	mc.SetFillRule(gg.FillRuleEvenOdd)
	mc.DrawRectangle(0, 0, float64(w), float64(h))
	bound.AddPath(mc)
	mc.SetColor(color.White)
	if err := mc.Fill(); err != nil {
		return nil, fmt.Errorf("render: mask fill: %w", err)
	}
	draw.DrawMask(canvas, canvas.Bounds(), image.NewUniform(outside), image.Point{}, mc.Image(), image.Point{}, draw.Over)

	if !decorated {
		return canvas, nil
	}

	dc := gg.NewContextForImage(canvas)
	defer dc.Close()
	bound.AddPath(dc)
	dc.SetColor(r.Style.Border)
	dc.SetLineWidth(r.Style.BorderWidth)
	if r.Style.Shape == geometry.ShapeCircleDotted {
		dc.SetDash(r.Style.BorderWidth*2, r.Style.BorderWidth*2)
	}
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("render: border stroke: %w", err)
	}

	return dc.Image(), nil
}

// affineAbout builds the source-to-destination matrix that scales uniformly
// and rotates clockwise about the source image's own center, then places
// that center at (cx, cy).
func affineAbout(cx, cy, scale, angle float64, src image.Rectangle) f64.Aff3 {
	sin, cos := math.Sincos(angle)
	a := scale * cos
	b := -scale * sin
	c := scale * sin
	d := scale * cos

	// The matrix maps absolute source coordinates, so the pivot must
	// include the bounds origin.
	scx := float64(src.Min.X) + float64(src.Dx())/2
	scy := float64(src.Min.Y) + float64(src.Dy())/2

	return f64.Aff3{
		a, b, cx - a*scx - b*scy,
		c, d, cy - c*scx - d*scy,
	}
}
