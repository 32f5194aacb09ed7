// textfit.go - Largest font size that fits a width, stepping down from a base.
package poster

import (
	"fmt"
	"math"
	"strings"
)

// FontStep is the decrement between measured sizes, in pixels.
const FontStep = 2

// FontScale gives base and minimum font sizes as fractions of canvas width.
type FontScale struct {
	Base float64
	Min  float64
}

// FontBounds are concrete pixel sizes for one canvas.
type FontBounds struct {
	Base  float64
	Floor float64
}

// Bounds resolves the scale against a canvas width.
func (f FontScale) Bounds(canvasW float64) FontBounds {
	return FontBounds{
		Base:  math.Round(canvasW * f.Base),
		Floor: math.Round(canvasW * f.Min),
	}
}

// Measurer measures text with the target surface's font.
type Measurer interface {
	SetFontSize(px float64) error
	MeasureText(s string) float64
}

// DisplayName returns the text actually drawn for a name.
func DisplayName(name string) string {
	if s := strings.TrimSpace(name); s != "" {
		return s
	}
	return PlaceholderName
}

// FitFontSize returns the largest size, stepping down from b.Base by FontStep,
// at which text measures no wider than maxWidth. It never returns less than
// b.Floor; text that still overflows at the floor is drawn as is.
// The measurer is left set to the returned size.
func FitFontSize(m Measurer, text string, maxWidth float64, b FontBounds) (float64, error) {
	size := b.Base
	for size > b.Floor {
		if err := m.SetFontSize(size); err != nil {
			return 0, fmt.Errorf("font size %v: %w", size, err)
		}
		if m.MeasureText(text) <= maxWidth {
			return size, nil
		}
		size -= FontStep
	}

	size = math.Max(size, b.Floor)
	if err := m.SetFontSize(size); err != nil {
		return 0, fmt.Errorf("font size %v: %w", size, err)
	}
	return size, nil
}
