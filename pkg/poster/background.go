// background.go - Resolve the template background: asset, synthetic, or nothing.
package poster

import (
	"context"
	"image"
	"io"
	"io/fs"
	"log/slog"
)

// BackgroundFile is the well-known asset path, relative to the app root.
const BackgroundFile = "bg.png"

// Tier says which step of the degrade chain produced the background.
type Tier int

const (
	TierAsset     Tier = iota // designer-supplied image
	TierSynthetic             // generated placeholder
	TierPlain                 // no image, solid fill
)

func (t Tier) String() string {
	switch t {
	case TierAsset:
		return "asset"
	case TierSynthetic:
		return "synthetic"
	default:
		return "plain"
	}
}

// Background is the outcome of resolution.
type Background struct {
	Image      image.Image // nil for TierPlain
	Dimensions Dimensions  // export resolution to adopt
	Tier       Tier
	Status     Status
}

// Loader opens the background asset.
type Loader func(ctx context.Context) (io.ReadCloser, error)

// FileLoader opens name from fsys.
func FileLoader(fsys fs.FS, name string) Loader {
	return func(context.Context) (io.ReadCloser, error) {
		return fsys.Open(name)
	}
}

// BackgroundResolver walks the degrade chain. Zero fields take defaults:
// Name = BackgroundFile, Default = DefaultExport, Synthesize = SyntheticBackground.
type BackgroundResolver struct {
	Name       string
	Load       Loader
	Default    Dimensions
	Synthesize func(Dimensions) (image.Image, error)
	Logger     *slog.Logger
}

// Resolve never fails: each tier is tried in turn and the result reports which
// one was used.
func (r BackgroundResolver) Resolve(ctx context.Context) Background {
	name := r.Name
	if name == "" {
		name = BackgroundFile
	}
	def := r.Default
	if !def.Valid() {
		def = DefaultExport
	}
	synth := r.Synthesize
	if synth == nil {
		synth = SyntheticBackground
	}
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}

	img, err := r.loadAsset(ctx, name)
	if err == nil {
		b := img.Bounds()
		dims := Dimensions{Width: b.Dx(), Height: b.Dy()}
		log.Info("background loaded", slog.String("file", name), slog.String("size", dims.String()))
		return Background{Image: img, Dimensions: dims, Tier: TierAsset, Status: info(MsgBegin)}
	}
	log.Warn("background asset unavailable, using synthetic fallback", slog.String("file", name), slog.Any("error", err))

	img, err = synth(def)
	if err == nil {
		return Background{Image: img, Dimensions: def, Tier: TierSynthetic, Status: failed(MsgFallbackBackground(name))}
	}
	log.Error("synthetic background failed", slog.Any("error", err))

	return Background{Dimensions: def, Tier: TierPlain, Status: failed(MsgBackgroundLost)}
}

func (r BackgroundResolver) loadAsset(ctx context.Context, name string) (image.Image, error) {
	if r.Load == nil {
		return nil, errAsset.With(nil, name)
	}
	rc, err := r.Load(ctx)
	if err != nil {
		return nil, errAsset.With(err, name)
	}
	defer rc.Close()

	img, err := DecodeImage(rc)
	if err != nil {
		return nil, errAsset.With(err, name)
	}
	return img, nil
}
