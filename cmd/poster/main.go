// GoPoster - Personalized event poster generator.
//
// Usage:
//
//	poster render -o poster.png --name "Ada" --photo me.jpg
//	poster preview -o preview.png --width 600 --dpr 2 --name "Ada"
//	poster background -o bg.png
//	poster init
//	poster serve [--port 3000]
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/xob0t/GoPoster/internal/config"
	"github.com/xob0t/GoPoster/internal/logging"
)

// GlobalOptions apply to every command.
type GlobalOptions struct {
	Config    string `short:"c" long:"config" env:"POSTER_CONFIG" description:"YAML config file" default:"poster.yaml"`
	LogLevel  string `long:"log-level" description:"debug, info, warn or error"`
	LogFormat string `long:"log-format" description:"text or json"`
}

var global GlobalOptions

// setup loads configuration and installs the logger. Flags win over the file.
func setup() (config.AppConfig, *slog.Logger, error) {
	cfg, err := config.LoadOptional(global.Config)
	if err != nil {
		return cfg, nil, err
	}
	if global.LogLevel != "" {
		cfg.Logging.Level = global.LogLevel
	}
	if global.LogFormat != "" {
		cfg.Logging.Format = global.LogFormat
	}
	return cfg, logging.Init(cfg.Logging), nil
}

func main() {
	parser := flags.NewParser(&global, flags.Default)
	parser.ShortDescription = "Personalized event poster generator"

	commands := []struct {
		name, short, long string
		data              any
	}{
		{"render", "Render the export poster", "Composite a name and photo onto the background at export resolution.", &renderCommand{}},
		{"preview", "Render a preview", "Render the poster as the interactive preview would, at a container width and device pixel ratio.", &previewCommand{}},
		{"background", "Write the fallback background", "Rasterize the synthetic background, or write its SVG source.", &backgroundCommand{}},
		{"init", "Write a sample config", "Write poster.yaml with the default settings.", &initCommand{}},
		{"serve", "Serve the web app", "Serve the web app, the rendering API and metrics.", &serveCommand{}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			fatal(err)
		}
	}

	if _, err := parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		// flags.Default prints the error, command failures included.
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
