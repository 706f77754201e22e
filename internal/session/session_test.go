package session

import (
	"image"
	"image/color"
	"testing"
	"time"

	"avatar-cropper/internal/export"
	"avatar-cropper/internal/geometry"
	"avatar-cropper/internal/render"
	"avatar-cropper/internal/transform"

	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Style: render.Style{
			Background:   color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			Overlay:      color.NRGBA{A: 180},
			Border:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			BorderWidth:  2,
			Shape:        geometry.ShapeCircle,
			CropFraction: 0.62,
			Quality:      render.QualityNone,
		},
		Format: export.FormatPNG,
	}
}

func testSource() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 200, 255
	}
	return img
}

func TestNewStartsAtIdentity(t *testing.T) {
	s := New(testConfig())
	require.Equal(t, transform.Identity(), s.State())
}

func TestGestureForwarding(t *testing.T) {
	s := New(testConfig())

	s.PanStart()
	s.PanUpdate(5, -3)

	s.ScaleRotateStart()
	s.ScaleRotateUpdate(1.0, 0.0)
	s.ScaleRotateUpdate(1.5, 0.3)
	s.ScaleRotateEnd()

	st := s.State()
	require.Equal(t, 5.0, st.X)
	require.Equal(t, -3.0, st.Y)
	require.InDelta(t, 1.5, st.Scale, 1e-12)
	require.InDelta(t, -0.3, st.Angle, 1e-12)
}

func TestApplyDeltaAndSetState(t *testing.T) {
	s := New(testConfig())

	s.ApplyDelta(transform.State{X: 1, Y: 2, Scale: -0.25})
	require.InDelta(t, 1.25, s.State().Scale, 1e-12)

	s.SetState(transform.State{Scale: 100})
	require.Equal(t, transform.MaxScale, s.State().Scale)
}

func TestPreviewRequiresSource(t *testing.T) {
	s := New(testConfig())
	s.SetViewport(400, 300)

	_, err := s.Preview()
	require.Error(t, err)

	s.SetSource(testSource())
	img, err := s.Preview()
	require.NoError(t, err)
	require.Equal(t, 400, img.Bounds().Dx())
}

func TestExportWithoutSourceYieldsAbsence(t *testing.T) {
	s := New(testConfig())
	s.SetViewport(400, 300)

	ch, err := s.RequestExport()
	require.NoError(t, err)

	res := <-ch
	require.Nil(t, res.Data)
}

func TestExportProducesPNG(t *testing.T) {
	s := New(testConfig())
	s.SetViewport(400, 300)
	s.SetSource(testSource())

	ch, err := s.RequestExport()
	require.NoError(t, err)

	res := <-ch
	require.NotNil(t, res.Data)
	require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, res.Data[:4])
}

func TestExportIdempotent(t *testing.T) {
	s := New(testConfig())
	s.SetViewport(400, 300)
	s.SetSource(testSource())

	ch1, err := s.RequestExport()
	require.NoError(t, err)
	first := <-ch1

	ch2, err := s.RequestExport()
	require.NoError(t, err)
	second := <-ch2

	require.Equal(t, first.Data, second.Data)
}

func TestSecondExportWhileInFlightIsBusy(t *testing.T) {
	s := New(testConfig())
	s.SetViewport(400, 300)
	s.SetSource(testSource())

	release := make(chan struct{})
	real := s.exportOnce
	s.exportOnce = func(src image.Image, st transform.State, vp geometry.Viewport) []byte {
		<-release
		return real(src, st, vp)
	}

	ch, err := s.RequestExport()
	require.NoError(t, err)

	_, err = s.RequestExport()
	require.ErrorIs(t, err, ErrExportBusy)

	close(release)
	res := <-ch
	require.NotNil(t, res.Data)

	// Once the first export resolves, a new request is accepted.
	require.Eventually(t, func() bool {
		ch, err := s.RequestExport()
		if err != nil {
			return false
		}
		<-ch
		return true
	}, time.Second, 5*time.Millisecond)
}

func TestBoundaryTracksViewport(t *testing.T) {
	s := New(testConfig())
	s.SetViewport(400, 300)

	b := s.Boundary()
	require.InDelta(t, 186, b.Side, 1e-9)
	require.InDelta(t, 200, b.CenterX, 1e-9)
	require.InDelta(t, 150, b.CenterY, 1e-9)
}

func TestHitTestSplitsInsideAndOutside(t *testing.T) {
	s := New(testConfig())
	s.SetViewport(400, 300)

	require.True(t, s.HitTest(200, 150))
	require.True(t, s.HitTest(200, 150-92))
	require.False(t, s.HitTest(10, 10))
	require.False(t, s.HitTest(200, 150-94))
}
