// Package generator writes the finished poster artifact.
//
// Output is always PNG: lossless, and what the browser download expects.
package generator

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
)

// Filename is the fixed name offered for download.
const Filename = "event-poster.png"

// Generate writes img to output. Only ".png" is accepted.
func Generate(output string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("no image to write")
	}
	switch ext := strings.ToLower(filepath.Ext(output)); ext {
	case ".png":
		return writePNG(output, img)
	default:
		return fmt.Errorf("unsupported format %q: use .png", ext)
	}
}

// GenerateToWriter encodes img as PNG to w.
// This is useful for in-memory generation (e.g., WASM).
func GenerateToWriter(w io.Writer, img image.Image) error {
	if img == nil {
		return fmt.Errorf("no image to write")
	}
	return encodePNG(w, img)
}
