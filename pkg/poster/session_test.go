package poster

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// trackedReader records Close and can hold the first Read until released.
type trackedReader struct {
	r       io.Reader
	closed  bool
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func tracked(data []byte) *trackedReader {
	return &trackedReader{r: bytes.NewReader(data)}
}

func blocking(data []byte) *trackedReader {
	tr := tracked(data)
	tr.started = make(chan struct{})
	tr.release = make(chan struct{})
	return tr
}

func (tr *trackedReader) Read(p []byte) (int, error) {
	if tr.started != nil {
		tr.once.Do(func() {
			close(tr.started)
			<-tr.release
		})
	}
	return tr.r.Read(p)
}

func (tr *trackedReader) Close() error {
	tr.closed = true
	return nil
}

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s, err := NewSession(Background{Image: blank(108, 135), Dimensions: Dimensions{Width: 108, Height: 135}}, fakeFactory(nil), opts...)
	require.NoError(t, err)
	return s
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, Status{Text: MsgBegin}, s.Status())
	assert.Equal(t, Dimensions{Width: 108, Height: 135}, s.ExportDimensions())

	_, err := NewSession(Background{}, nil)
	assert.Error(t, err)

	bad := DefaultLayout
	bad.Photo.CY = 0
	_, err = NewSession(Background{}, fakeFactory(nil), WithLayout(bad))
	assert.Error(t, err)
}

func TestNewSessionKeepsBackgroundStatus(t *testing.T) {
	bg := Background{Tier: TierPlain, Status: failed(MsgBackgroundLost)}
	s, err := NewSession(bg, fakeFactory(nil))
	require.NoError(t, err)

	assert.Equal(t, Status{Text: MsgBackgroundLost, Error: true}, s.Status())
	assert.Equal(t, DefaultExport, s.ExportDimensions())
}

func TestProgressMessages(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	st := s.SetName("   ")
	assert.Equal(t, Status{Text: MsgBegin}, st)

	st = s.SetName("Ada")
	assert.Equal(t, Status{Text: MsgUploadPhoto}, st)

	st, err := s.SetPhoto(ctx, tracked(pngBytes(t, 20, 10)), "image/png")
	require.NoError(t, err)
	assert.Equal(t, Status{Text: MsgReady, ExportEnabled: true}, st)

	st = s.SetName("")
	assert.Equal(t, Status{Text: MsgTypeName, ExportEnabled: true}, st)
}

func TestPhotoWithoutName(t *testing.T) {
	s := newTestSession(t)

	st, err := s.SetPhoto(context.Background(), tracked(pngBytes(t, 20, 10)), "image/png")
	require.NoError(t, err)
	assert.Equal(t, MsgTypeName, st.Text)
	assert.True(t, st.ExportEnabled)

	b := s.State().Photo.Bounds()
	assert.Equal(t, 20, b.Dx())
	assert.Equal(t, 10, b.Dy())
}

func TestSetPhotoRejectsNonImage(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	_, err := s.SetPhoto(ctx, tracked(pngBytes(t, 4, 4)), "image/png")
	require.NoError(t, err)
	before := s.State().Photo

	r := tracked([]byte("hello"))
	st, err := s.SetPhoto(ctx, r, "text/plain")
	assert.ErrorIs(t, err, ErrNotImage)
	assert.Equal(t, Status{Text: MsgNotImage, Error: true, ExportEnabled: true}, st)
	assert.True(t, before == s.State().Photo, "photo must be unchanged")
	assert.True(t, r.closed)
}

func TestSetPhotoDecodeFailureClearsPhoto(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	_, err := s.SetPhoto(ctx, tracked(pngBytes(t, 4, 4)), "image/png")
	require.NoError(t, err)

	r := tracked([]byte("definitely not a png"))
	st, err := s.SetPhoto(ctx, r, "image/png")
	assert.Error(t, err)
	assert.Equal(t, Status{Text: MsgUnreadable, Error: true}, st)
	assert.Nil(t, s.State().Photo)
	assert.True(t, r.closed)
}

func TestSetPhotoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newTestSession(t)

	st, err := s.SetPhoto(ctx, tracked(pngBytes(t, 4, 4)), "image/png")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Status{Text: MsgBegin}, st)
	assert.Nil(t, s.State().Photo)
}

func TestStalePhotoIsDiscarded(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	slow := blocking(pngBytes(t, 30, 30))
	done := make(chan error, 1)
	go func() {
		_, err := s.SetPhoto(ctx, slow, "image/png")
		done <- err
	}()
	<-slow.started
	assert.Equal(t, MsgLoadingPhoto, s.Status().Text)

	_, err := s.SetPhoto(ctx, tracked(pngBytes(t, 7, 5)), "image/png")
	require.NoError(t, err)

	close(slow.release)
	err = <-done
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.True(t, IsSuperseded(err))
	assert.True(t, slow.closed)

	assert.Equal(t, 7, s.State().Photo.Bounds().Dx())
	assert.Equal(t, MsgTypeName, s.Status().Text)
}

func TestResetDiscardsInFlightPhoto(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	s.SetName("Ada")

	slow := blocking(pngBytes(t, 30, 30))
	done := make(chan error, 1)
	go func() {
		_, err := s.SetPhoto(ctx, slow, "image/png")
		done <- err
	}()
	<-slow.started

	assert.Equal(t, Status{Text: MsgBegin}, s.Reset())
	close(slow.release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Equal(t, PosterState{Background: s.State().Background}, s.State())
	assert.Equal(t, Status{Text: MsgBegin}, s.Status())
}

func TestPhotoOrderFollowsSelection(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	s.SetName("Ada")

	first := s.BeginPhoto()
	second := s.BeginPhoto()
	assert.Equal(t, MsgLoadingPhoto, s.Status().Text)

	// The later selection finishes reading first.
	_, err := s.LoadPhoto(ctx, second, tracked(pngBytes(t, 9, 3)), "image/png")
	require.NoError(t, err)

	late := tracked(pngBytes(t, 30, 30))
	st, err := s.LoadPhoto(ctx, first, late, "image/png")
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.True(t, late.closed)
	assert.Equal(t, 9, s.State().Photo.Bounds().Dx())
	assert.Equal(t, Status{Text: MsgReady, ExportEnabled: true}, st)
}

func TestStaleRejectionLeavesStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)

	first := s.BeginPhoto()
	second := s.BeginPhoto()

	_, err := s.LoadPhoto(ctx, first, tracked([]byte("hello")), "text/plain")
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Equal(t, Status{Text: MsgLoadingPhoto}, s.Status())

	_, err = s.LoadPhoto(ctx, second, tracked(pngBytes(t, 4, 4)), "image/png")
	require.NoError(t, err)
	assert.True(t, s.State().HasPhoto())
}

func TestResetSupersedesReservedPhoto(t *testing.T) {
	s := newTestSession(t)
	id := s.BeginPhoto()
	s.Reset()

	_, err := s.LoadPhoto(context.Background(), id, tracked(pngBytes(t, 4, 4)), "image/png")
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.False(t, s.State().HasPhoto())
}

func TestClearPhoto(t *testing.T) {
	s := newTestSession(t)
	s.SetName("Ada")
	_, err := s.SetPhoto(context.Background(), tracked(pngBytes(t, 4, 4)), "image/jpeg")
	require.NoError(t, err)

	st := s.ClearPhoto()
	assert.Equal(t, Status{Text: MsgUploadPhoto}, st)
	assert.False(t, s.State().HasPhoto())
}

func TestPreviewSize(t *testing.T) {
	s := newTestSession(t)

	tests := []struct {
		parent float64
		w, h   float64
	}{
		{200, 280, 350},
		{500, 500, 625},
		{1600, 900, 1125},
	}
	for _, tt := range tests {
		w, h := s.PreviewSize(tt.parent)
		assert.Equal(t, tt.w, w, "parent %v", tt.parent)
		assert.Equal(t, tt.h, h, "parent %v", tt.parent)
	}
}

func TestPreviewUsesDPRAndPreviewStyle(t *testing.T) {
	var created []*fakeSurface
	s, err := NewSession(Background{Dimensions: Dimensions{Width: 108, Height: 135}}, fakeFactory(&created))
	require.NoError(t, err)
	s.SetName("Ada")

	img, st, err := s.Preview(300, 375, 2)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.False(t, st.ExportEnabled)

	require.Len(t, created, 1)
	f := created[0]
	assert.Equal(t, 2.0, f.scale)
	assert.Equal(t, 300.0, f.w)
	require.Len(t, f.texts, 1)
	assert.Equal(t, PreviewStyle.Font.Bounds(300).Base, f.texts[0].size)

	_, _, err = s.Preview(300, 375, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, created[1].scale)
}

func TestRequestExportNeedsPhoto(t *testing.T) {
	s := newTestSession(t)
	s.SetName("Ada")

	out, st, err := s.RequestExport(context.Background())
	assert.ErrorIs(t, err, ErrNoPhoto)
	assert.Nil(t, out)
	assert.Equal(t, Status{Text: MsgExportNoPhoto, Error: true}, st)
	assert.Equal(t, "Ada", s.State().Name)
}

func TestRequestExport(t *testing.T) {
	var created []*fakeSurface
	bg := Background{Image: blank(108, 135), Dimensions: Dimensions{Width: 108, Height: 135}}
	s, err := NewSession(bg, fakeFactory(&created))
	require.NoError(t, err)

	ctx := context.Background()
	s.SetName("Ada")
	_, err = s.SetPhoto(ctx, tracked(pngBytes(t, 10, 10)), "image/png")
	require.NoError(t, err)
	// Previews never change the export size.
	_, _, err = s.Preview(280, 350, 3)
	require.NoError(t, err)

	out, st, err := s.RequestExport(ctx)
	require.NoError(t, err)
	assert.Equal(t, Status{Text: MsgDownloaded, ExportEnabled: true}, st)
	assert.Equal(t, "event-poster.png", out.Filename)
	assert.Equal(t, Dimensions{Width: 108, Height: 135}, out.Dimensions)

	cfg, err := png.DecodeConfig(bytes.NewReader(out.PNG))
	require.NoError(t, err)
	assert.Equal(t, 108, cfg.Width)
	assert.Equal(t, 135, cfg.Height)

	require.Len(t, created, 2)
	exp := created[1]
	assert.Equal(t, 1.0, exp.scale)
	assert.Equal(t, ExportStyle.ShadowBlur, exp.texts[0].style.ShadowBlur)

	// The session can export again.
	_, _, err = s.RequestExport(ctx)
	require.NoError(t, err)
	assert.Len(t, created, 3)
}

func TestRequestExportFailureKeepsState(t *testing.T) {
	calls := 0
	factory := func(w, h int, scale float64) (Surface, error) {
		calls++
		return nil, errors.New("out of memory")
	}
	s, err := NewSession(Background{}, factory)
	require.NoError(t, err)

	ctx := context.Background()
	s.SetName("Ada")
	_, err = s.SetPhoto(ctx, tracked(pngBytes(t, 4, 4)), "image/png")
	require.NoError(t, err)

	_, st, err := s.RequestExport(ctx)
	assert.Error(t, err)
	assert.Equal(t, Status{Text: MsgExportFailed, Error: true, ExportEnabled: true}, st)
	assert.Equal(t, 1, calls)
	assert.True(t, s.State().HasPhoto())
	assert.Equal(t, "Ada", s.State().Name)
}

func TestStyleColors(t *testing.T) {
	assert.Equal(t, color.NRGBA{255, 255, 255, 89}, ExportStyle.Shadow)
	assert.Equal(t, color.NRGBA{0, 0, 0, 38}, PreviewStyle.Stroke)
}
