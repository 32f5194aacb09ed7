// png.go - PNG file writer.
package generator

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

var encoder = png.Encoder{CompressionLevel: png.BestCompression}

// writePNG encodes img to a PNG file at the given path.
func writePNG(output string, img image.Image) error {
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer f.Close()

	if err := encodePNG(f, img); err != nil {
		return err
	}
	return f.Close()
}

func encodePNG(w io.Writer, img image.Image) error {
	if err := encoder.Encode(w, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}
