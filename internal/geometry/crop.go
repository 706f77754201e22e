// Package geometry computes crop-boundary shapes for a viewport.
package geometry

import (
	"math"

	"github.com/gogpu/gg"
)

// Shape selects the crop-hole outline.
type Shape int

const (
	// ShapeCircle is a plain circle with a solid border.
	ShapeCircle Shape = iota
	// ShapeCircleDotted is the same circle with a dotted border. The
	// decoration is a rendering concern only; boundary geometry is
	// identical to ShapeCircle and must never branch on the distinction.
	ShapeCircleDotted
	// ShapeSquare is an axis-aligned square.
	ShapeSquare
)

// Viewport is the available drawing area plus the crop-area fraction,
// read fresh each render pass.
type Viewport struct {
	Width        float64
	Height       float64
	CropFraction float64 // in (0, 1]: portion of min(W, H) used as hole size
}

// CropSide returns the crop-hole side (circle diameter or square side).
func (v Viewport) CropSide() float64 {
	return math.Min(v.Width, v.Height) * v.CropFraction
}

// Boundary is a crop outline: derived, never cached across viewport changes.
type Boundary struct {
	Shape   Shape
	CenterX float64
	CenterY float64
	Side    float64 // diameter for circles, side for squares
}

// CropBoundary computes the boundary for a viewport and shape. Pure function
// of its inputs.
func CropBoundary(vp Viewport, shape Shape) Boundary {
	return Boundary{
		Shape:   shape,
		CenterX: vp.Width / 2,
		CenterY: vp.Height / 2,
		Side:    vp.CropSide(),
	}
}

// AddPath appends the closed boundary outline to the drawing context's
// current path without filling or stroking, so mask fills and border strokes
// share the exact same geometry.
func (b Boundary) AddPath(dc *gg.Context) {
	switch b.Shape {
	case ShapeSquare:
		half := b.Side / 2
		dc.DrawRectangle(b.CenterX-half, b.CenterY-half, b.Side, b.Side)
	default:
		dc.DrawCircle(b.CenterX, b.CenterY, b.Side/2)
	}
}

// Contains reports whether a point lies inside the crop hole.
func (b Boundary) Contains(x, y float64) bool {
	dx := x - b.CenterX
	dy := y - b.CenterY
	half := b.Side / 2
	if b.Shape == ShapeSquare {
		return math.Abs(dx) <= half && math.Abs(dy) <= half
	}
	return dx*dx+dy*dy <= half*half
}
