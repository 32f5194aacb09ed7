// renderer.go - Poster compositing.
// Draws in a fixed order: background -> circular photo -> name text.
// The same code paints the preview and the export; only the surface size and
// the Style differ.
package poster

import (
	"fmt"
	"log/slog"
)

// Render composites state onto dst using layout and style.
func Render(dst Surface, state PosterState, layout LayoutSpec, style Style) error {
	w, h := dst.Size()

	dst.Clear()
	drawBackground(dst, state, style, w, h)

	if state.HasPhoto() {
		drawPhoto(dst, state, layout.Photo.Resolve(w, h))
	}

	if err := drawName(dst, state.Name, layout.Name.Resolve(w, h), style, w); err != nil {
		return fmt.Errorf("draw name: %w", err)
	}
	return nil
}

// drawBackground stretches the background over the whole surface, or fills.
func drawBackground(dst Surface, state PosterState, style Style, w, h float64) {
	if state.Background == nil {
		dst.Fill(style.Fill)
		return
	}
	dst.DrawImageRegion(state.Background, state.Background.Bounds(), Rect{W: w, H: h})
}

// drawPhoto fills a circle with the cover-fit part of the photo.
func drawPhoto(dst Surface, state PosterState, at ResolvedRegion) {
	b := state.Photo.Bounds()
	r := at.Size / 2
	fit := CoverRect(b.Dx(), b.Dy(), at.Size, at.Size)

	slog.Debug("drawing photo",
		slog.Group("source", "x", b.Dx(), "y", b.Dy()),
		slog.Group("crop", "x", fit.X, "y", fit.Y, "w", fit.Width, "h", fit.Height),
		slog.Float64("diameter", at.Size),
	)

	dst.ClipCircle(at.X, at.Y, r)
	dst.DrawImageRegion(state.Photo, fit.Rect().Add(b.Min), Rect{
		X: at.X - r,
		Y: at.Y - r,
		W: at.Size,
		H: at.Size,
	})
	dst.ResetClip()
}

// drawName draws the display name centred on its anchor, shrunk to fit.
func drawName(dst Surface, name string, at ResolvedRegion, style Style, canvasW float64) error {
	text := DisplayName(name)

	if _, err := FitFontSize(dst, text, at.Size, style.Font.Bounds(canvasW)); err != nil {
		return err
	}

	return dst.DrawText(text, at.X, at.Y, TextStyle{
		Fill:        style.Text,
		Shadow:      style.Shadow,
		ShadowBlur:  style.ShadowBlur,
		Stroke:      style.Stroke,
		StrokeWidth: style.StrokeWidth(canvasW),
	})
}
