// Package poster composites a user photo and name onto a fixed event poster template.
//
// Layout is expressed in fractions of the canvas so the same definition serves
// the small interactive preview and the full-size export.
package poster

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// ── State ──

// PosterState is everything a render depends on.
// Images are treated as immutable once stored.
type PosterState struct {
	Name       string
	Photo      image.Image // nil until a photo is uploaded
	Background image.Image // nil means plain fill
}

// HasPhoto reports whether a user photo is present.
func (s PosterState) HasPhoto() bool { return s.Photo != nil }

// ── Dimensions ──

// Dimensions is a pixel size, used for the export resolution.
type Dimensions struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// DefaultExport is the export resolution used until a real background is loaded.
var DefaultExport = Dimensions{Width: 1080, Height: 1350}

// Valid reports whether both sides are positive.
func (d Dimensions) Valid() bool { return d.Width > 0 && d.Height > 0 }

// Aspect returns height over width.
func (d Dimensions) Aspect() float64 {
	return float64(d.Height) / float64(d.Width)
}

func (d Dimensions) String() string { return fmt.Sprintf("%dx%d", d.Width, d.Height) }

// ── Layout ──

// Region places one element. CX/CY are fractions of canvas width/height,
// Size (circle diameter or text max-width) is a fraction of canvas width.
type Region struct {
	CX   float64 `json:"cx"`
	CY   float64 `json:"cy"`
	Size float64 `json:"size"`
}

// ResolvedRegion is a Region in pixels of a concrete canvas.
type ResolvedRegion struct {
	X, Y float64
	Size float64
}

// Resolve maps the region onto a w×h canvas, rounding to whole pixels.
func (r Region) Resolve(w, h float64) ResolvedRegion {
	return ResolvedRegion{
		X:    math.Round(w * r.CX),
		Y:    math.Round(h * r.CY),
		Size: math.Round(w * r.Size),
	}
}

// Logical element names.
const (
	ElementPhoto = "photo"
	ElementName  = "name"
)

// LayoutSpec is the fixed poster layout.
type LayoutSpec struct {
	Photo Region `json:"photo"` // circle: centre + diameter
	Name  Region `json:"name"`  // text block: centre + max width
}

// DefaultLayout is the poster layout.
var DefaultLayout = LayoutSpec{
	Photo: Region{CX: 0.79, CY: 0.65, Size: 0.35},
	Name:  Region{CX: 0.79, CY: 0.885, Size: 0.20},
}

// Region looks up an element by its logical name.
func (l LayoutSpec) Region(name string) (Region, bool) {
	switch name {
	case ElementPhoto:
		return l.Photo, true
	case ElementName:
		return l.Name, true
	}
	return Region{}, false
}

// Validate checks that every fraction lies in (0,1].
func (l LayoutSpec) Validate() error {
	for _, el := range []string{ElementPhoto, ElementName} {
		r, _ := l.Region(el)
		for field, v := range map[string]float64{"cx": r.CX, "cy": r.CY, "size": r.Size} {
			if !(v > 0 && v <= 1) {
				return fmt.Errorf("layout %s.%s = %v: must be in (0,1]", el, field, v)
			}
		}
	}
	return nil
}

// ── Style ──

// Style carries the per-mode drawing constants. Preview and export share the
// algorithm but not these values.
type Style struct {
	Font        FontScale
	Fill        color.Color // used when there is no background
	Text        color.Color
	Shadow      color.Color
	ShadowBlur  float64
	Stroke      color.Color
	StrokeRatio float64 // stroke width as a fraction of canvas width
	StrokeMin   float64
}

// StrokeWidth returns the outline width for a canvas of width w.
func (s Style) StrokeWidth(w float64) float64 {
	return math.Max(s.StrokeMin, math.Round(w*s.StrokeRatio))
}

// PlaceholderName is drawn when the name is blank.
const PlaceholderName = "your name"

var (
	fillColor   = color.RGBA{0x0b, 0x0f, 0x17, 0xff}
	textColor   = color.RGBA{0x1a, 0x1a, 0x1a, 0xff}
	shadowColor = color.NRGBA{255, 255, 255, 89} // rgba(255,255,255,0.35)
	strokeColor = color.NRGBA{0, 0, 0, 38}       // rgba(0,0,0,0.15)
)

// PreviewStyle is used for the interactive canvas.
var PreviewStyle = Style{
	Font:        FontScale{Base: 0.07, Min: 0.045},
	Fill:        fillColor,
	Text:        textColor,
	Shadow:      shadowColor,
	ShadowBlur:  10,
	Stroke:      strokeColor,
	StrokeRatio: 0.0035,
	StrokeMin:   2,
}

// ExportStyle is used for the downloadable image.
var ExportStyle = Style{
	Font:        FontScale{Base: 0.06, Min: 0.04},
	Fill:        fillColor,
	Text:        textColor,
	Shadow:      shadowColor,
	ShadowBlur:  12,
	Stroke:      strokeColor,
	StrokeRatio: 0.0035,
	StrokeMin:   4,
}
