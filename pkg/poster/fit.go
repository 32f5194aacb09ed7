// fit.go - Cover-fit source rectangle selection.
package poster

import (
	"image"
	"math"
)

// FitRect is the part of a source image selected for a destination region.
type FitRect struct {
	X, Y          int
	Width, Height int
}

// Rect returns the selection as an image.Rectangle relative to the source origin.
func (f FitRect) Rect() image.Rectangle {
	return image.Rect(f.X, f.Y, f.X+f.Width, f.Y+f.Height)
}

// CoverRect selects the largest centred rectangle of a srcW×srcH image that has
// the aspect ratio of dstW×dstH. It does not scale; drawing does that.
// Zero-sized inputs are not guarded.
func CoverRect(srcW, srcH int, dstW, dstH float64) FitRect {
	srcAR := float64(srcW) / float64(srcH)
	dstAR := dstW / dstH

	var sw, sh int
	if srcAR > dstAR {
		// Source is wider: keep full height, clip width.
		sh = srcH
		sw = int(math.Round(float64(srcH) * dstAR))
	} else {
		sw = srcW
		sh = int(math.Round(float64(srcW) / dstAR))
	}

	return FitRect{
		X:      int(math.Floor(float64(srcW-sw) / 2)),
		Y:      int(math.Floor(float64(srcH-sh) / 2)),
		Width:  sw,
		Height: sh,
	}
}
