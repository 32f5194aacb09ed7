// Package server serves the poster web app. Posters are composed in the
// browser by the wasm client; the server only hands out files.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xob0t/GoPoster/internal/config"
	"github.com/xob0t/GoPoster/pkg/poster"
)

// The wasm client and its JS loader are built into web/ before the server.
//go:generate env GOOS=js GOARCH=wasm go build -o web/poster.wasm ../wasm
//go:generate sh -c "cp \"$(go env GOROOT)/lib/wasm/wasm_exec.js\" web/wasm_exec.js"

//go:embed web/*
var webContent embed.FS

// Files the page needs besides the embedded sources.
const (
	WasmFile     = "poster.wasm"
	WasmExecFile = "wasm_exec.js"
)

var contentTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
	".json": "application/json",
	".wasm": "application/wasm",
}

// ContentType maps a file name to the type it is served with.
func ContentType(name string) string {
	if t, ok := contentTypes[strings.ToLower(path.Ext(name))]; ok {
		return t
	}
	return "text/plain"
}

// Server holds the resolved background and the handlers.
type Server struct {
	files   []fs.FS // searched in order
	bg      poster.Background
	log     *slog.Logger
	metrics *metrics
	reg     *prometheus.Registry
}

// New builds a server. files are searched in order for static content;
// the embedded web app is always appended last.
func New(bg poster.Background, log *slog.Logger, files ...fs.FS) (*Server, error) {
	web, err := fs.Sub(webContent, "web")
	if err != nil {
		return nil, fmt.Errorf("embed web: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}

	reg := prometheus.NewRegistry()
	return &Server{
		files:   append(files, web),
		bg:      bg,
		log:     log,
		metrics: newMetrics(reg),
		reg:     reg,
	}, nil
}

// Handler returns the routed handler. withMetrics exposes /metrics.
func (s *Server) Handler(withMetrics bool) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/status", s.handleStatus)
	if withMetrics {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("GET /", s.handleStatic)

	return s.metrics.instrument(mux)
}

// Build resolves the background from the served root, so the page and the
// status endpoint see the same asset.
func Build(ctx context.Context, cfg config.AppConfig, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	root := cfg.Server.Root
	if root == "" {
		root = "."
	}
	dir := os.DirFS(root)

	bg := poster.BackgroundResolver{
		Name:    cfg.Poster.Background,
		Load:    poster.FileLoader(dir, cfg.Poster.Background),
		Default: cfg.Poster.Export,
		Logger:  log,
	}.Resolve(ctx)

	s, err := New(bg, log, dir)
	if err != nil {
		return nil, err
	}
	for _, name := range []string{WasmFile, WasmExecFile} {
		if _, err := s.readFile(name); err != nil {
			log.Warn("web client file missing, run: go generate ./clients/server",
				slog.String("file", name), slog.String("root", root))
		}
	}
	return s, nil
}

// RunServe serves until ctx is done.
func RunServe(ctx context.Context, cfg config.AppConfig, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	s, err := Build(ctx, cfg, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           s.Handler(cfg.Server.Metrics),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("server running", slog.Int("port", cfg.Server.Port), slog.String("background", s.bg.Tier.String()))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdown)
	}
}

// ── Static files ──

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}

	data, err := s.readFile(name)
	if err != nil {
		s.log.Debug("static miss", slog.String("path", r.URL.Path), slog.Any("error", err))
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, "404 Not Found")
		return
	}

	w.Header().Set("Content-Type", ContentType(name))
	w.Write(data)
}

func (s *Server) readFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, fs.ErrInvalid
	}
	for _, fsys := range s.files {
		data, err := fs.ReadFile(fsys, name)
		if err == nil {
			return data, nil
		}
	}
	return nil, fs.ErrNotExist
}

// ── API ──

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"background": s.bg.Tier.String(),
		"export":     s.bg.Dimensions,
		"status":     s.bg.Status,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
