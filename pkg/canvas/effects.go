// effects.go - Text shadow and outline, built from an offscreen glyph layer.
// gg has neither shadowBlur nor strokeText, so both are derived from a
// rasterized copy of the glyphs with bild: Gaussian blur for the shadow,
// dilate minus erode for the outline band.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// glyphRun is a string positioned in device pixels; (x, y) is the baseline start.
type glyphRun struct {
	text            string
	x, y            float64
	width           float64
	ascent, descent float64
}

// layer rasterizes g in src colour onto a transparent image padded by pad
// pixels on every side. It returns the image and its device-space origin.
func (s *Surface) layer(g glyphRun, src color.Color, pad int) (*image.RGBA, image.Point) {
	origin := image.Pt(
		int(math.Floor(g.x))-pad,
		int(math.Floor(g.y-g.ascent))-pad,
	)
	w := int(math.Ceil(g.width)) + 2*pad + 2
	h := int(math.Ceil(g.ascent+g.descent)) + 2*pad + 2

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(src),
		Face: s.face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(math.Round((g.x - float64(origin.X)) * 64)),
			Y: fixed.Int26_6(math.Round((g.y - float64(origin.Y)) * 64)),
		},
	}
	d.DrawString(g.text)
	return img, origin
}

func (s *Surface) target() *image.RGBA {
	return s.dc.Image().(*image.RGBA)
}

// gaussianRadius converts a canvas shadowBlur (sigma = blur/2) to the radius
// bild's Gaussian takes, whose kernel exp(-x²/4r) has sigma = sqrt(2r).
func gaussianRadius(blurPx float64) float64 {
	sigma := blurPx / 2
	return sigma * sigma / 2
}

// drawShadow composites a blurred copy of the glyphs beneath the fill.
func (s *Surface) drawShadow(g glyphRun, c color.Color, blurPx float64) {
	pad := int(math.Ceil(blurPx*1.5)) + 2
	img, origin := s.layer(g, c, pad)
	soft := blur.Gaussian(img, gaussianRadius(blurPx))

	r := soft.Bounds().Add(origin)
	draw.Draw(s.target(), r, soft, image.Point{}, draw.Over)
}

// drawOutline paints a band of widthPx centred on the glyph edges.
func (s *Surface) drawOutline(g glyphRun, c color.Color, widthPx float64) {
	radius := widthPx / 2
	if radius < 0.5 {
		return
	}
	pad := int(math.Ceil(radius)) + 2
	img, origin := s.layer(g, color.White, pad)

	grown := effect.Dilate(img, radius)
	shrunk := effect.Erode(img, radius)

	band := image.NewAlpha(img.Bounds())
	for i := range band.Pix {
		outer := grown.Pix[i*4+3]
		inner := shrunk.Pix[i*4+3]
		if outer > inner {
			band.Pix[i] = outer - inner
		}
	}

	r := band.Bounds().Add(origin)
	draw.DrawMask(s.target(), r, image.NewUniform(c), image.Point{}, band, image.Point{}, draw.Over)
}
