package generator

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{200, 10, 10, 255})
	return img
}

func TestGenerateToWriterRoundTripsPixels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GenerateToWriter(&buf, sample()))

	got, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), got.Bounds())

	r, g, b, a := got.At(1, 1).RGBA()
	assert.Equal(t, []uint32{200, 10, 10, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}

func TestGenerateRejectsOtherFormats(t *testing.T) {
	dir := t.TempDir()

	err := Generate(filepath.Join(dir, "poster.jpg"), sample())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")

	require.NoError(t, Generate(filepath.Join(dir, Filename), sample()))
	_, err = os.Stat(filepath.Join(dir, Filename))
	assert.NoError(t, err)
}

func TestGenerateNilImage(t *testing.T) {
	assert.Error(t, GenerateToWriter(&bytes.Buffer{}, nil))
	assert.Error(t, Generate("x.png", nil))
}
