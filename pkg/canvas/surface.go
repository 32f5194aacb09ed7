// Package canvas implements poster.Surface on top of fogleman/gg.
//
// A Surface has a logical size and a scale; all drawing calls take logical
// units and are mapped to device pixels here, so a DPR-scaled preview and a
// scale-1 export run the same compositor code.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/xob0t/GoPoster/pkg/poster"
)

var errNoFont = errors.New("font size not set")

// Surface is a gg-backed poster.Surface.
type Surface struct {
	dc     *gg.Context
	w, h   float64 // logical size
	scale  float64
	fonts  *FontManager
	faces  map[float64]font.Face // per surface: faces are not goroutine-safe
	face   font.Face
	fontPx float64
}

var _ poster.Surface = (*Surface)(nil)

// New allocates a w×h logical surface backed by round(w·scale)×round(h·scale) pixels.
func New(w, h int, scale float64, fonts *FontManager) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", w, h)
	}
	if scale <= 0 {
		scale = 1
	}
	if fonts == nil {
		return nil, fmt.Errorf("font manager is required")
	}

	dw := int(math.Round(float64(w) * scale))
	dh := int(math.Round(float64(h) * scale))

	return &Surface{
		dc:    gg.NewContext(dw, dh),
		w:     float64(w),
		h:     float64(h),
		scale: scale,
		fonts: fonts,
		faces: make(map[float64]font.Face),
	}, nil
}

// Factory adapts New to poster.SurfaceFactory.
func Factory(fonts *FontManager) poster.SurfaceFactory {
	return func(w, h int, scale float64) (poster.Surface, error) {
		return New(w, h, scale, fonts)
	}
}

func (s *Surface) Size() (w, h float64) { return s.w, s.h }

// Scale returns the device pixels per logical unit.
func (s *Surface) Scale() float64 { return s.scale }

func (s *Surface) Image() image.Image { return s.dc.Image() }

func (s *Surface) Clear() {
	s.dc.SetColor(color.Transparent)
	s.dc.Clear()
}

func (s *Surface) Fill(c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawRectangle(0, 0, float64(s.dc.Width()), float64(s.dc.Height()))
	s.dc.Fill()
}

// DrawImageRegion resamples src of img straight to device resolution with
// Catmull-Rom, then composites it through the current clip.
func (s *Surface) DrawImageRegion(img image.Image, src image.Rectangle, dst poster.Rect) {
	src = src.Intersect(img.Bounds())
	if src.Empty() || dst.W <= 0 || dst.H <= 0 {
		return
	}

	x0 := int(math.Round(dst.X * s.scale))
	y0 := int(math.Round(dst.Y * s.scale))
	x1 := int(math.Round((dst.X + dst.W) * s.scale))
	y1 := int(math.Round((dst.Y + dst.H) * s.scale))
	if x1 <= x0 || y1 <= y0 {
		return
	}

	scaled := image.NewRGBA(image.Rect(0, 0, x1-x0, y1-y0))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, src, xdraw.Src, nil)
	s.dc.DrawImage(scaled, x0, y0)
}

func (s *Surface) ClipCircle(cx, cy, r float64) {
	s.dc.NewSubPath()
	s.dc.DrawCircle(cx*s.scale, cy*s.scale, r*s.scale)
	s.dc.Clip()
}

func (s *Surface) ResetClip() { s.dc.ResetClip() }

// SetFontSize selects a face of px logical pixels.
func (s *Surface) SetFontSize(px float64) error {
	size := px * s.scale
	face, ok := s.faces[size]
	if !ok {
		var err error
		if face, err = s.fonts.GetFace(size); err != nil {
			return err
		}
		s.faces[size] = face
	}
	s.face = face
	s.fontPx = px
	s.dc.SetFontFace(face)
	return nil
}

// FontSize returns the current size in logical pixels.
func (s *Surface) FontSize() float64 { return s.fontPx }

// MeasureText returns the advance width of str in logical pixels.
func (s *Surface) MeasureText(str string) float64 {
	if s.face == nil {
		return 0
	}
	return fixedToFloat(font.MeasureString(s.face, str)) / s.scale
}

// DrawText paints shadow, fill and outline, in that order, with the em box
// centred on (cx, cy).
func (s *Surface) DrawText(str string, cx, cy float64, st poster.TextStyle) error {
	if s.face == nil {
		return errNoFont
	}

	m := s.face.Metrics()
	g := glyphRun{
		text:    str,
		width:   fixedToFloat(font.MeasureString(s.face, str)),
		ascent:  fixedToFloat(m.Ascent),
		descent: fixedToFloat(m.Descent),
	}
	g.x = cx*s.scale - g.width/2
	g.y = cy*s.scale + (g.ascent-g.descent)/2

	if visible(st.Shadow) && st.ShadowBlur > 0 {
		s.drawShadow(g, st.Shadow, st.ShadowBlur*s.scale)
	}

	s.dc.SetColor(st.Fill)
	s.dc.DrawString(str, g.x, g.y)

	if visible(st.Stroke) && st.StrokeWidth > 0 {
		s.drawOutline(g, st.Stroke, st.StrokeWidth*s.scale)
	}
	return nil
}

func visible(c color.Color) bool {
	if c == nil {
		return false
	}
	_, _, _, a := c.RGBA()
	return a > 0
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
