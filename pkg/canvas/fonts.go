// fonts.go - Font management with custom TTF support and embedded fallback font.
// Uses golang.org/x/image/font for OpenType rendering. Defaults to Go Bold
// when no custom font is specified or when custom font loading fails.
package canvas

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// FontManager handles font loading with fallback. It is safe for concurrent
// use; the faces it returns are not.
type FontManager struct {
	parsed *opentype.Font
}

// NewFontManager creates a font manager with the specified font.
// If customPath is empty or invalid, uses the embedded Go Bold font.
func NewFontManager(customPath string) (*FontManager, error) {
	var fontData []byte

	// Try custom font first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			slog.Warn("could not load custom font, using default", slog.String("path", customPath), slog.Any("error", err))
		} else {
			fontData = data
		}
	}

	return NewFontManagerFromBytes(fontData)
}

// NewFontManagerFromBytes parses TTF/OTF data; nil selects the embedded font.
func NewFontManagerFromBytes(fontData []byte) (*FontManager, error) {
	if fontData == nil {
		fontData = gobold.TTF
	}

	parsed, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	return &FontManager{parsed: parsed}, nil
}

// GetFace returns a new font.Face of size device pixels.
func (fm *FontManager) GetFace(size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %v", size)
	}

	face, err := opentype.NewFace(fm.parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}

	return face, nil
}
