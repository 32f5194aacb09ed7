package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/xob0t/GoPoster/clients/server"
	"github.com/xob0t/GoPoster/internal/config"
	"github.com/xob0t/GoPoster/internal/logging"
	"github.com/xob0t/GoPoster/pkg/canvas"
	"github.com/xob0t/GoPoster/pkg/generator"
	"github.com/xob0t/GoPoster/pkg/poster"
)

// posterInput is shared by render and preview.
type posterInput struct {
	Output     string `short:"o" long:"output" description:"Output PNG path" required:"true"`
	Name       string `short:"n" long:"name" description:"Name to print (blank shows the placeholder)"`
	Photo      string `short:"p" long:"photo" description:"Photo file"`
	Background string `short:"b" long:"background" description:"Background image (default from config)"`
	Font       string `long:"font" description:"TTF/OTF font (default embedded)"`
}

// session resolves the background and loads name and photo into a new session.
func (in posterInput) session(ctx context.Context, cfg config.AppConfig, log *slog.Logger) (*poster.Session, error) {
	font := cfg.Poster.Font
	if in.Font != "" {
		font = in.Font
	}
	fonts, err := canvas.NewFontManager(font)
	if err != nil {
		return nil, err
	}

	bgPath := cfg.Poster.Background
	if in.Background != "" {
		bgPath = in.Background
	}
	bg := poster.BackgroundResolver{
		Name:    filepath.Base(bgPath),
		Load:    poster.FileLoader(os.DirFS(filepath.Dir(bgPath)), filepath.Base(bgPath)),
		Default: cfg.Poster.Export,
		Logger:  log,
	}.Resolve(ctx)
	if bg.Status.Error {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", bg.Status.Text)
	}

	sess, err := poster.NewSession(bg, canvas.Factory(fonts), poster.WithLogger(log))
	if err != nil {
		return nil, err
	}
	sess.SetName(in.Name)

	if in.Photo != "" {
		f, err := os.Open(in.Photo)
		if err != nil {
			return nil, fmt.Errorf("open photo: %w", err)
		}
		if st, err := sess.SetPhoto(ctx, f, poster.MIMEFromPath(in.Photo)); err != nil {
			return nil, fmt.Errorf("%s: %w", st.Text, err)
		}
	}
	return sess, nil
}

// ── render ──

type renderCommand struct {
	posterInput
}

func (c *renderCommand) Execute([]string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	if !strings.EqualFold(filepath.Ext(c.Output), ".png") {
		return fmt.Errorf("unsupported output format %q (use .png)", filepath.Ext(c.Output))
	}

	ctx := context.Background()
	sess, err := c.session(ctx, cfg, log)
	if err != nil {
		return err
	}

	out, st, err := sess.RequestExport(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", st.Text, err)
	}
	if err := os.WriteFile(c.Output, out.PNG, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Done: %s (%s)\n", c.Output, out.Dimensions)
	return nil
}

// ── preview ──

type previewCommand struct {
	posterInput
	Width float64 `long:"width" description:"Container width in CSS pixels" default:"900"`
	DPR   float64 `long:"dpr" description:"Device pixel ratio" default:"1"`
}

func (c *previewCommand) Execute([]string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	sess, err := c.session(context.Background(), cfg, log)
	if err != nil {
		return err
	}

	w, h := sess.PreviewSize(c.Width)
	img, st, err := sess.Preview(w, h, c.DPR)
	if err != nil {
		return err
	}
	if err := generator.Generate(c.Output, img); err != nil {
		return err
	}
	fmt.Printf("Done: %s (%vx%v @%vx): %s\n", c.Output, w, h, c.DPR, st.Text)
	return nil
}

// ── background ──

type backgroundCommand struct {
	Output string `short:"o" long:"output" description:"Output path (.png or .svg)" default:"bg.png"`
	Width  int    `long:"width" description:"Width in pixels (default from config)"`
	Height int    `long:"height" description:"Height in pixels (default from config)"`
}

func (c *backgroundCommand) Execute([]string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(c.Output), ".svg") {
		if err := os.WriteFile(c.Output, poster.SyntheticSVG(), 0644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		fmt.Printf("Done: %s\n", c.Output)
		return nil
	}

	dims := cfg.Poster.Export
	if c.Width > 0 {
		dims.Width = c.Width
	}
	if c.Height > 0 {
		dims.Height = c.Height
	}

	img, err := poster.SyntheticBackground(dims)
	if err != nil {
		return err
	}
	if err := generator.Generate(c.Output, img); err != nil {
		return err
	}
	fmt.Printf("Done: %s (%s)\n", c.Output, dims)
	return nil
}

// ── init ──

type initCommand struct {
	Output string `short:"o" long:"output" description:"Config path to write" default:"poster.yaml"`
	Force  bool   `short:"f" long:"force" description:"Overwrite an existing file"`
}

func (c *initCommand) Execute([]string) error {
	if _, err := os.Stat(c.Output); err == nil && !c.Force {
		return fmt.Errorf("%s exists (use --force to overwrite)", c.Output)
	}

	data, err := config.Defaults().Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.Output, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Created: %s\n", c.Output)
	fmt.Printf("Put your background at %s, then run: poster serve\n", poster.BackgroundFile)
	return nil
}

// ── serve ──

type serveCommand struct {
	Port      int    `short:"p" long:"port" description:"Listen port (default from config, PORT or 3000)"`
	Root      string `short:"r" long:"root" description:"Directory to serve before the embedded app"`
	NoMetrics bool   `long:"no-metrics" description:"Disable /metrics"`
}

func (c *serveCommand) Execute([]string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}
	if c.Port > 0 {
		cfg.Server.Port = c.Port
	}
	if c.Root != "" {
		cfg.Server.Root = c.Root
	}
	if c.NoMetrics {
		cfg.Server.Metrics = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.RunServe(ctx, cfg, logging.WithComponent("server"))
}
