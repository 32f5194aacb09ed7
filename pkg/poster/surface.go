// surface.go - The drawing capabilities the compositor needs from a 2D backend.
package poster

import (
	"image"
	"image/color"
)

// Rect is a destination rectangle in surface units.
type Rect struct {
	X, Y, W, H float64
}

// TextStyle describes how DrawText paints a string.
type TextStyle struct {
	Fill        color.Color
	Shadow      color.Color // nil disables the shadow
	ShadowBlur  float64
	Stroke      color.Color // nil disables the outline
	StrokeWidth float64
}

// Surface is a 2D drawing target. Coordinates are logical units; a surface
// may map them onto more device pixels (preview DPR), never the other way.
type Surface interface {
	Measurer

	// Size returns the logical width and height.
	Size() (w, h float64)
	Clear()
	Fill(c color.Color)
	// DrawImageRegion scales the src part of img into dst.
	DrawImageRegion(img image.Image, src image.Rectangle, dst Rect)
	// ClipCircle restricts subsequent drawing to a circle until ResetClip.
	ClipCircle(cx, cy, r float64)
	ResetClip()
	// DrawText draws s centred horizontally and vertically on (cx, cy)
	// using the current font size.
	DrawText(s string, cx, cy float64, st TextStyle) error
	Image() image.Image
}

// SurfaceFactory allocates a surface of w×h logical units at the given scale.
type SurfaceFactory func(w, h int, scale float64) (Surface, error)
