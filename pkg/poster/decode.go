// decode.go - Decode uploaded photos and background assets.
package poster

import (
	"fmt"
	"image"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// IsImageMIME reports whether a MIME type names an image.
func IsImageMIME(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "image/")
}

// MIMEFromPath guesses a MIME type from a file extension. Unknown extensions
// yield "".
func MIMEFromPath(path string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return t
}

// DecodeImage decodes PNG, JPEG, GIF, WebP or BMP data, applying EXIF
// orientation so phone photos come out upright.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errDecode.With(err)
	}
	if img.Bounds().Empty() {
		return nil, errDecode.With(fmt.Errorf("empty image %v", img.Bounds()))
	}
	return img, nil
}
