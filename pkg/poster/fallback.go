// fallback.go - Procedural placeholder background.
// The artwork is built as SVG with svgo, rasterized with oksvg/rasterx, and the
// captions are drawn on top with the embedded bold font (oksvg has no text support).
package poster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"sync"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Artwork coordinates are authored on the default export canvas.
const artW, artH = 1080, 1350

type caption struct {
	text string
	x, y int
	size float64
	col  color.NRGBA
}

var captions = []caption{
	{"VIP NIGHT", 80, 150, 76, color.NRGBA{0xff, 0xff, 0xff, 0xf2}},
	{"LIVE MUSIC • DJ • FOOD", 80, 220, 30, color.NRGBA{0xc8, 0xd0, 0xe0, 0xf2}},
	{"FRI • 9:00 PM", 120, 1078, 26, color.NRGBA{0xff, 0xff, 0xff, 0xd9}},
	{"Downtown Arena", 120, 1124, 20, color.NRGBA{0xc8, 0xd0, 0xe0, 0xd9}},
	{"ENTRY PASS", 120, 1185, 18, color.NRGBA{0xc8, 0xd0, 0xe0, 0xd9}},
}

var (
	captionFontOnce sync.Once
	captionFont     *opentype.Font
	captionFontErr  error
)

// SyntheticBackground renders the placeholder poster at d.
func SyntheticBackground(d Dimensions) (image.Image, error) {
	if !d.Valid() {
		return nil, errSynthesize.With(fmt.Errorf("invalid dimensions %v", d))
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(SyntheticSVG()))
	if err != nil {
		return nil, errSynthesize.With(err)
	}
	icon.SetTarget(0, 0, float64(d.Width), float64(d.Height))

	img := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
	scanner := rasterx.NewScannerGV(d.Width, d.Height, img, img.Bounds())
	raster := rasterx.NewDasher(d.Width, d.Height, scanner)
	icon.Draw(raster, 1.0)

	if err := drawCaptions(img, d); err != nil {
		return nil, errSynthesize.With(err)
	}
	return img, nil
}

// SyntheticSVG returns the vector part of the placeholder.
func SyntheticSVG() []byte {
	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(artW, artH, fmt.Sprintf(`viewBox="0 0 %d %d"`, artW, artH))

	canvas.Def()
	canvas.LinearGradient("bg", 0, 0, 0, 100, []svg.Offcolor{
		{Offset: 0, Color: "#0B0F17", Opacity: 1},
		{Offset: 100, Color: "#090B12", Opacity: 1},
	})
	canvas.RadialGradient("glow1", 20, 18, 60, 20, 18, []svg.Offcolor{
		{Offset: 0, Color: "#FF3DA4", Opacity: 0.42},
		{Offset: 100, Color: "#FF3DA4", Opacity: 0},
	})
	canvas.RadialGradient("glow2", 85, 10, 55, 85, 10, []svg.Offcolor{
		{Offset: 0, Color: "#6AE4FF", Opacity: 0.35},
		{Offset: 100, Color: "#6AE4FF", Opacity: 0},
	})
	canvas.DefEnd()

	canvas.Rect(0, 0, artW, artH, "fill:url(#bg)")
	canvas.Rect(0, 0, artW, artH, "fill:url(#glow1)")
	canvas.Rect(0, 0, artW, artH, "fill:url(#glow2)")

	// Ticket card.
	canvas.Roundrect(80, 1010, 920, 220, 28, 28, "fill:#FFFFFF;fill-opacity:0.05;stroke:#FFFFFF;stroke-opacity:0.12")
	canvas.Roundrect(780, 1060, 180, 140, 16, 16, "fill:#000000;fill-opacity:0.19;stroke:#FFFFFF;stroke-opacity:0.14")
	canvas.Path("M805 1120 h130", "fill:none;stroke:#FFFFFF;stroke-opacity:0.3;stroke-width:6;stroke-linecap:round")
	canvas.Path("M805 1160 h100", "fill:none;stroke:#FFFFFF;stroke-opacity:0.19;stroke-width:6;stroke-linecap:round")

	// Glow behind the photo slot.
	canvas.Circle(880, 520, 140, "fill:#FF3DA4;fill-opacity:0.6")
	canvas.Circle(920, 520, 115, "fill:#6AE4FF;fill-opacity:0.33")

	canvas.Path("M0 910 C 240 820 420 980 620 920 C 780 875 880 760 1080 820 L1080 1350 L0 1350 Z",
		"fill:#FFFFFF;fill-opacity:0.25")

	canvas.End()
	return buf.Bytes()
}

func drawCaptions(img *image.RGBA, d Dimensions) error {
	captionFontOnce.Do(func() {
		captionFont, captionFontErr = opentype.Parse(gobold.TTF)
	})
	if captionFontErr != nil {
		return captionFontErr
	}

	sx := float64(d.Width) / artW
	sy := float64(d.Height) / artH

	for _, c := range captions {
		face, err := opentype.NewFace(captionFont, &opentype.FaceOptions{
			Size:    c.size * sx,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return err
		}
		drawer := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(c.col),
			Face: face,
			Dot:  fixed.P(int(float64(c.x)*sx), int(float64(c.y)*sy)),
		}
		drawer.DrawString(c.text)
		face.Close()
	}
	return nil
}
