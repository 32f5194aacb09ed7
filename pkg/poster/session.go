// session.go - The poster session: state, status and the operations a UI drives.
package poster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/xob0t/GoPoster/pkg/generator"
)

// Preview canvas CSS width limits.
const (
	MinPreviewWidth = 280
	MaxPreviewWidth = 900
)

// Session owns one user's PosterState. Every operation is all-or-nothing:
// state and status change together under the lock or not at all.
type Session struct {
	mu     sync.Mutex
	state  PosterState
	export Dimensions
	status Status
	seq    uint64 // id of the latest photo request

	layout     LayoutSpec
	newSurface SurfaceFactory
	log        *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithLayout replaces DefaultLayout.
func WithLayout(l LayoutSpec) Option {
	return func(s *Session) { s.layout = l }
}

// NewSession starts a session on a resolved background. The export resolution
// is taken from the background and stays fixed for the session.
func NewSession(bg Background, factory SurfaceFactory, opts ...Option) (*Session, error) {
	if factory == nil {
		return nil, fmt.Errorf("surface factory is required")
	}

	s := &Session{
		state:      PosterState{Background: bg.Image},
		export:     bg.Dimensions,
		status:     bg.Status,
		layout:     DefaultLayout,
		newSurface: factory,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.layout.Validate(); err != nil {
		return nil, err
	}
	if !s.export.Valid() {
		s.export = DefaultExport
	}
	if s.status.Text == "" {
		s.status = info(MsgBegin)
	}
	s.log = s.log.With(slog.String("component", "session"))
	return s, nil
}

// Status returns the current status line.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

// State returns a copy of the poster state.
func (s *Session) State() PosterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ExportDimensions returns the fixed export resolution.
func (s *Session) ExportDimensions() Dimensions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.export
}

// PreviewSize returns the CSS size of the preview canvas for a container
// of the given width, keeping the export aspect ratio.
func (s *Session) PreviewSize(parentWidth float64) (w, h float64) {
	dims := s.ExportDimensions()
	w = math.Min(math.Max(parentWidth, MinPreviewWidth), MaxPreviewWidth)
	return w, math.Round(w * dims.Aspect())
}

// SetName replaces the name.
func (s *Session) SetName(name string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Name = name
	s.status = progress(s.state)
	return s.current()
}

// SetPhoto decodes r and makes it the photo. r is closed if it is an
// io.Closer, whatever the outcome.
//
// A non-image MIME type is rejected without touching the current photo. A
// decode failure clears the photo. If another SetPhoto or Reset started after
// this one, the result is discarded and ErrSuperseded returned.
func (s *Session) SetPhoto(ctx context.Context, r io.Reader, mimeType string) (Status, error) {
	return s.loadPhoto(ctx, 0, r, mimeType)
}

// BeginPhoto reserves a photo request at the moment a file is picked, before
// its bytes are read. Requests are ordered by BeginPhoto, not by when their
// LoadPhoto calls arrive. Any request reserved earlier is superseded.
func (s *Session) BeginPhoto() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.status = info(MsgLoadingPhoto)
	return s.seq
}

// LoadPhoto is SetPhoto for a request reserved with BeginPhoto.
func (s *Session) LoadPhoto(ctx context.Context, id uint64, r io.Reader, mimeType string) (Status, error) {
	if id == 0 {
		return s.SetPhoto(ctx, r, mimeType)
	}
	return s.loadPhoto(ctx, id, r, mimeType)
}

// loadPhoto takes a fresh request id after the MIME check when id is zero.
func (s *Session) loadPhoto(ctx context.Context, id uint64, r io.Reader, mimeType string) (Status, error) {
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	if !IsImageMIME(mimeType) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if id != 0 && id != s.seq {
			return s.current(), ErrSuperseded
		}
		s.status = failed(MsgNotImage)
		s.log.Warn("rejected upload", slog.String("mime", mimeType))
		return s.current(), fmt.Errorf("%w: %q", ErrNotImage, mimeType)
	}

	s.mu.Lock()
	if id == 0 {
		s.seq++
		id = s.seq
		s.status = info(MsgLoadingPhoto)
	}
	s.mu.Unlock()

	img, err := DecodeImage(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if id != s.seq {
		s.log.Debug("discarding stale photo", slog.Uint64("request", id), slog.Uint64("latest", s.seq))
		return s.current(), ErrSuperseded
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		s.status = progress(s.state)
		return s.current(), ctxErr
	}
	if err != nil {
		s.state.Photo = nil
		s.status = failed(MsgUnreadable)
		s.log.Warn("photo decode failed", slog.Any("error", err))
		return s.current(), err
	}

	s.state.Photo = img
	s.status = progress(s.state)
	s.log.Info("photo loaded", slog.Group("size", "x", img.Bounds().Dx(), "y", img.Bounds().Dy()))
	return s.current(), nil
}

// ClearPhoto drops the photo, as when the file picker is emptied.
func (s *Session) ClearPhoto() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.state.Photo = nil
	s.status = progress(s.state)
	return s.current()
}

// Reset clears name and photo. Photo loads still in flight are discarded.
func (s *Session) Reset() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.state.Name = ""
	s.state.Photo = nil
	s.status = info(MsgBegin)
	return s.current()
}

// Preview renders the poster at cssW×cssH logical pixels on a surface scaled by
// dpr. The returned status carries the export availability.
func (s *Session) Preview(cssW, cssH, dpr float64) (image.Image, Status, error) {
	if dpr <= 0 {
		dpr = 1
	}

	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	surface, err := s.newSurface(int(math.Round(cssW)), int(math.Round(cssH)), dpr)
	if err != nil {
		return nil, s.Status(), fmt.Errorf("preview surface: %w", err)
	}
	if err := Render(surface, state, s.layout, PreviewStyle); err != nil {
		return nil, s.Status(), fmt.Errorf("preview: %w", err)
	}
	return surface.Image(), s.Status(), nil
}

// Export is a finished download.
type Export struct {
	Filename   string
	Dimensions Dimensions
	PNG        []byte
}

// RequestExport renders the poster at the export resolution on a fresh
// surface and encodes it. On failure the state is left as it was.
func (s *Session) RequestExport(ctx context.Context) (*Export, Status, error) {
	s.mu.Lock()
	if !s.state.HasPhoto() {
		s.status = failed(MsgExportNoPhoto)
		st := s.current()
		s.mu.Unlock()
		return nil, st, ErrNoPhoto
	}
	state, dims := s.state, s.export
	s.status = info(MsgPreparing)
	s.mu.Unlock()

	out, err := s.renderExport(ctx, state, dims)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = failed(MsgExportFailed)
		s.log.Error("export failed", slog.Any("error", err))
		return nil, s.current(), err
	}
	s.status = info(MsgDownloaded)
	s.log.Info("exported", slog.String("size", dims.String()), slog.Int("bytes", len(out.PNG)))
	return out, s.current(), nil
}

func (s *Session) renderExport(ctx context.Context, state PosterState, dims Dimensions) (*Export, error) {
	if err := ctx.Err(); err != nil {
		return nil, errExport.With(err)
	}

	surface, err := s.newSurface(dims.Width, dims.Height, 1)
	if err != nil {
		return nil, errExport.With(err)
	}
	if err := Render(surface, state, s.layout, ExportStyle); err != nil {
		return nil, errExport.With(err)
	}

	var buf bytes.Buffer
	if err := generator.GenerateToWriter(&buf, surface.Image()); err != nil {
		return nil, errExport.With(err)
	}
	return &Export{Filename: generator.Filename, Dimensions: dims, PNG: buf.Bytes()}, nil
}

// current returns status with export availability filled in. Callers hold mu.
func (s *Session) current() Status {
	st := s.status
	st.ExportEnabled = s.state.HasPhoto()
	return st
}

// IsSuperseded reports whether err means a newer photo request won.
func IsSuperseded(err error) bool { return errors.Is(err, ErrSuperseded) }
