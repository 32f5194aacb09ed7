package poster

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// fakeSurface records draw calls. Text measures 0.6 em per rune.
type fakeSurface struct {
	w, h     float64
	scale    float64
	fontPx   float64
	ops      []string
	sizes    []float64
	failFont float64 // SetFontSize fails at this size when non-zero
	texts    []drawnText
}

type drawnText struct {
	text   string
	cx, cy float64
	size   float64
	style  TextStyle
}

func newFake(w, h float64) *fakeSurface { return &fakeSurface{w: w, h: h} }

func fakeFactory(created *[]*fakeSurface) SurfaceFactory {
	return func(w, h int, scale float64) (Surface, error) {
		f := newFake(float64(w), float64(h))
		f.scale = scale
		if created != nil {
			*created = append(*created, f)
		}
		return f, nil
	}
}

func (f *fakeSurface) SetFontSize(px float64) error {
	if f.failFont != 0 && px == f.failFont {
		return fmt.Errorf("no face at %v", px)
	}
	f.fontPx = px
	f.sizes = append(f.sizes, px)
	return nil
}

func (f *fakeSurface) MeasureText(s string) float64 {
	return float64(len([]rune(s))) * f.fontPx * 0.6
}

func (f *fakeSurface) Size() (float64, float64) { return f.w, f.h }
func (f *fakeSurface) Clear()                   { f.ops = append(f.ops, "clear") }
func (f *fakeSurface) Fill(c color.Color)       { f.ops = append(f.ops, "fill") }

func (f *fakeSurface) DrawImageRegion(img image.Image, src image.Rectangle, dst Rect) {
	f.ops = append(f.ops, fmt.Sprintf("image %v -> %.0f,%.0f %.0fx%.0f", src, dst.X, dst.Y, dst.W, dst.H))
}

func (f *fakeSurface) ClipCircle(cx, cy, r float64) {
	f.ops = append(f.ops, fmt.Sprintf("clip %.0f,%.0f r%.1f", cx, cy, r))
}

func (f *fakeSurface) ResetClip() { f.ops = append(f.ops, "unclip") }

func (f *fakeSurface) DrawText(s string, cx, cy float64, st TextStyle) error {
	f.ops = append(f.ops, "text "+s)
	f.texts = append(f.texts, drawnText{text: s, cx: cx, cy: cy, size: f.fontPx, style: st})
	return nil
}

func (f *fakeSurface) Image() image.Image { return image.NewRGBA(image.Rect(0, 0, int(f.w), int(f.h))) }

// kinds returns the op names without arguments.
func (f *fakeSurface) kinds() []string {
	out := make([]string, len(f.ops))
	for i, op := range f.ops {
		out[i], _, _ = strings.Cut(op, " ")
	}
	return out
}
