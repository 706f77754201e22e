// Package session wires one interactive crop session together: the transform
// state, the gesture accumulator, the compositor, and the one-shot export.
package session

import (
	"errors"
	"image"
	"sync"

	"avatar-cropper/internal/export"
	"avatar-cropper/internal/geometry"
	"avatar-cropper/internal/render"
	"avatar-cropper/internal/transform"
)

// ErrExportBusy is returned when an export is requested while a previous one
// is still in flight for the same session.
var ErrExportBusy = errors.New("session: export already in flight")

// Config is supplied at session start and immutable thereafter.
type Config struct {
	Style  render.Style
	Format export.Format
}

// Result is the outcome of one export. Data is nil when no result could be
// produced (no source loaded, or the rasterization/encoding backend failed);
// that absence is the contract, never a panic across the export boundary.
type Result struct {
	Data []byte
}

// Session owns the live crop interaction for one source image.
//
// Gesture delivery, state mutation and preview rendering form a single
// cooperative thread; only the export in-flight flag is guarded, since the
// export goroutine runs off the interactive path.
type Session struct {
	cfg      Config
	renderer *render.Renderer

	state transform.State
	acc   *transform.Accumulator

	src      image.Image
	viewport geometry.Viewport

	mu        sync.Mutex
	exporting bool

	// exportOnce produces the encoded bytes for one request; swapped in
	// tests to hold an export open deterministically.
	exportOnce func(src image.Image, st transform.State, vp geometry.Viewport) []byte
}

// New creates a session with an identity transform.
func New(cfg Config) *Session {
	s := &Session{
		cfg:      cfg,
		renderer: &render.Renderer{Style: cfg.Style},
		state:    transform.Identity(),
	}
	s.acc = transform.NewAccumulator(&s.state)
	s.exportOnce = s.bakeAndEncode
	return s
}

// SetSource installs the decoded source raster. Preview and export are only
// valid once a source is present; export before that yields the explicit
// nil-Data result.
func (s *Session) SetSource(img image.Image) {
	s.src = img
}

// SetViewport records the current drawing area, supplied by the UI layer
// each frame.
func (s *Session) SetViewport(width, height float64) {
	s.viewport = geometry.Viewport{
		Width:        width,
		Height:       height,
		CropFraction: s.cfg.Style.CropFraction,
	}
}

// Gesture events, forwarded to the accumulator.

func (s *Session) PanStart()                { s.acc.PanStart() }
func (s *Session) PanUpdate(dx, dy float64) { s.acc.PanUpdate(dx, dy) }
func (s *Session) ScaleRotateStart()        { s.acc.ScaleRotateStart() }
func (s *Session) ScaleRotateEnd()          { s.acc.ScaleRotateEnd() }

func (s *Session) ScaleRotateUpdate(scale, angle float64) {
	s.acc.ScaleRotateUpdate(scale, angle)
}

// ApplyDelta folds a transform delta into the session state.
func (s *Session) ApplyDelta(d transform.State) {
	s.state.Apply(d)
}

// SetState replaces the session transform outright.
func (s *Session) SetState(st transform.State) {
	s.state.Replace(st)
}

// State returns the current transform.
func (s *Session) State() transform.State {
	return s.state
}

// Boundary returns the crop outline for the current viewport, for callers
// that draw their own handles or hit-test the hole.
func (s *Session) Boundary() geometry.Boundary {
	return geometry.CropBoundary(s.viewport, s.cfg.Style.Shape)
}

// HitTest reports whether a viewport point falls inside the crop hole, for
// input layers that route gestures differently inside and outside it.
func (s *Session) HitTest(x, y float64) bool {
	return s.Boundary().Contains(x, y)
}

// Preview renders the composite for the current state and viewport.
func (s *Session) Preview() (image.Image, error) {
	return s.renderer.Preview(s.src, s.state, s.viewport)
}

// RequestExport starts a one-shot asynchronous export of the current state.
// The returned channel yields exactly one Result and is then closed; a nil
// Result.Data means no output could be produced. Only one export may be in
// flight per session; overlapping requests get ErrExportBusy. There is no
// mid-render cancellation; an accepted export runs to completion or failure.
func (s *Session) RequestExport() (<-chan Result, error) {
	s.mu.Lock()
	if s.exporting {
		s.mu.Unlock()
		return nil, ErrExportBusy
	}
	s.exporting = true
	s.mu.Unlock()

	// Snapshot on the interactive path so later gestures cannot shear
	// the in-flight export.
	src := s.src
	st := s.state
	vp := s.viewport

	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		data := s.exportOnce(src, st, vp)

		s.mu.Lock()
		s.exporting = false
		s.mu.Unlock()

		ch <- Result{Data: data}
	}()
	return ch, nil
}

// bakeAndEncode renders the export raster and serializes it. Any failure
// collapses to the nil-Data absence.
func (s *Session) bakeAndEncode(src image.Image, st transform.State, vp geometry.Viewport) []byte {
	raster, err := s.renderer.Export(src, st, vp)
	if err != nil || raster == nil {
		return nil
	}
	data, err := export.Bytes(raster, s.cfg.Format)
	if err != nil {
		return nil
	}
	return data
}
