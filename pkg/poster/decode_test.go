package poster

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImageMIME(t *testing.T) {
	for _, m := range []string{"image/png", "image/jpeg", "IMAGE/WEBP", " image/gif"} {
		assert.True(t, IsImageMIME(m), m)
	}
	for _, m := range []string{"", "text/plain", "application/octet-stream", "video/mp4"} {
		assert.False(t, IsImageMIME(m), m)
	}
}

func TestMIMEFromPath(t *testing.T) {
	assert.Equal(t, "image/png", MIMEFromPath("me.PNG"))
	assert.Equal(t, "image/jpeg", MIMEFromPath("/tmp/me.jpg"))
	assert.Equal(t, "", MIMEFromPath("README"))
}

func TestDecodeImage(t *testing.T) {
	img, err := DecodeImage(bytes.NewReader(pngBytes(t, 12, 8)))
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())

	_, err = DecodeImage(bytes.NewReader([]byte("GIF89a nope")))
	assert.Error(t, err)
}
