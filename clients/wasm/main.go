//go:build js && wasm

// GoPoster WASM - client-side poster compositor.
// Compiled with: GOOS=js GOARCH=wasm go build -o poster.wasm ./clients/wasm/
package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/draw"
	"io"
	"log/slog"
	"os"
	"sync"
	"syscall/js"

	"github.com/xob0t/GoPoster/internal/logging"
	"github.com/xob0t/GoPoster/pkg/canvas"
	"github.com/xob0t/GoPoster/pkg/poster"
)

var (
	mu      sync.RWMutex
	session *poster.Session
	log     *slog.Logger
)

func main() {
	log = logging.New(logging.Options{Level: "info"}, os.Stdout).With(slog.String("component", "wasm"))
	slog.SetDefault(log)

	// Register JS-callable functions.
	js.Global().Set("goPosterInit", js.FuncOf(initSession))
	js.Global().Set("goPosterSetName", js.FuncOf(setName))
	js.Global().Set("goPosterBeginPhoto", js.FuncOf(beginPhoto))
	js.Global().Set("goPosterSetPhoto", js.FuncOf(setPhoto))
	js.Global().Set("goPosterClearPhoto", js.FuncOf(clearPhoto))
	js.Global().Set("goPosterReset", js.FuncOf(reset))
	js.Global().Set("goPosterPreview", js.FuncOf(preview))
	js.Global().Set("goPosterExport", js.FuncOf(export))
	js.Global().Set("goPosterReady", js.ValueOf(true))

	// Block forever (WASM must not exit).
	select {}
}

func current() *poster.Session {
	mu.RLock()
	defer mu.RUnlock()
	return session
}

// goPosterInit(bgBytes|null, fontBytes|null) - resolve the background and
// start a fresh session. Returns the initial status.
func initSession(this js.Value, args []js.Value) any {
	bg := bytesArg(args, 0)
	fontData := bytesArg(args, 1)

	fonts, err := canvas.NewFontManagerFromBytes(fontData)
	if err != nil {
		return errorValue(err)
	}

	resolver := poster.BackgroundResolver{Logger: log}
	if bg != nil {
		resolver.Load = func(context.Context) (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(bg)), nil
		}
	}
	background := resolver.Resolve(context.Background())

	s, err := poster.NewSession(background, canvas.Factory(fonts), poster.WithLogger(log))
	if err != nil {
		return errorValue(err)
	}

	mu.Lock()
	session = s
	mu.Unlock()

	v := statusValue(s.Status())
	dims := s.ExportDimensions()
	v.Set("exportWidth", dims.Width)
	v.Set("exportHeight", dims.Height)
	v.Set("background", background.Tier.String())
	return v
}

// goPosterSetName(name) - returns status.
func setName(this js.Value, args []js.Value) any {
	s := current()
	if s == nil || len(args) < 1 {
		return errorValue(errNotReady)
	}
	return statusValue(s.SetName(args[0].String()))
}

// goPosterBeginPhoto() - reserves a request id when a file is picked.
func beginPhoto(this js.Value, args []js.Value) any {
	s := current()
	if s == nil {
		return 0
	}
	return float64(s.BeginPhoto())
}

// goPosterSetPhoto(bytes, mime, id?) - returns a Promise of status. id comes
// from goPosterBeginPhoto. A result replaced by a newer selection resolves
// with superseded: true.
func setPhoto(this js.Value, args []js.Value) any {
	s := current()
	if s == nil || len(args) < 2 {
		return errorValue(errNotReady)
	}
	data := bytesArg(args, 0)
	mimeType := args[1].String()
	var id uint64
	if len(args) > 2 && args[2].Type() == js.TypeNumber {
		id = uint64(args[2].Int())
	}

	return promise(func() js.Value {
		st, err := s.LoadPhoto(context.Background(), id, bytes.NewReader(data), mimeType)
		v := statusValue(st)
		if poster.IsSuperseded(err) {
			v.Set("superseded", true)
		}
		return v
	})
}

func clearPhoto(this js.Value, args []js.Value) any {
	s := current()
	if s == nil {
		return errorValue(errNotReady)
	}
	return statusValue(s.ClearPhoto())
}

func reset(this js.Value, args []js.Value) any {
	s := current()
	if s == nil {
		return errorValue(errNotReady)
	}
	return statusValue(s.Reset())
}

// goPosterPreview(parentWidth, dpr) - returns {cssWidth, cssHeight, width,
// height, pixels} with straight-alpha RGBA pixels for an ImageData.
func preview(this js.Value, args []js.Value) any {
	s := current()
	if s == nil || len(args) < 2 {
		return errorValue(errNotReady)
	}
	cssW, cssH := s.PreviewSize(args[0].Float())

	img, st, err := s.Preview(cssW, cssH, args[1].Float())
	if err != nil {
		return errorValue(err)
	}

	b := img.Bounds()
	px := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(px, px.Bounds(), img, b.Min, draw.Src)

	arr := js.Global().Get("Uint8ClampedArray").New(len(px.Pix))
	js.CopyBytesToJS(arr, px.Pix)

	v := statusValue(st)
	v.Set("cssWidth", cssW)
	v.Set("cssHeight", cssH)
	v.Set("width", b.Dx())
	v.Set("height", b.Dy())
	v.Set("pixels", arr)
	return v
}

// goPosterExport() - returns a Promise of {status, filename, png}.
func export(this js.Value, args []js.Value) any {
	s := current()
	if s == nil {
		return errorValue(errNotReady)
	}

	return promise(func() js.Value {
		out, st, err := s.RequestExport(context.Background())
		v := statusValue(st)
		if err != nil {
			return v
		}
		arr := js.Global().Get("Uint8Array").New(len(out.PNG))
		js.CopyBytesToJS(arr, out.PNG)
		v.Set("filename", out.Filename)
		v.Set("png", arr)
		return v
	})
}

// ── Helpers ──

var errNotReady = errors.New("poster session not initialised")

func statusValue(st poster.Status) js.Value {
	return js.ValueOf(map[string]any{
		"text":          st.Text,
		"error":         st.Error,
		"exportEnabled": st.ExportEnabled,
	})
}

func errorValue(err error) js.Value {
	return js.ValueOf(map[string]any{"text": err.Error(), "error": true, "fatal": true})
}

// bytesArg copies a Uint8Array argument; null, undefined or empty yields nil.
func bytesArg(args []js.Value, i int) []byte {
	if i >= len(args) || args[i].IsNull() || args[i].IsUndefined() {
		return nil
	}
	n := args[i].Get("length").Int()
	if n == 0 {
		return nil
	}
	buf := make([]byte, n)
	js.CopyBytesToGo(buf, args[i])
	return buf
}

// promise runs fn off the event loop and resolves with its result.
func promise(fn func() js.Value) js.Value {
	var handler js.Func
	handler = js.FuncOf(func(this js.Value, args []js.Value) any {
		resolve := args[0]
		go func() {
			defer handler.Release()
			resolve.Invoke(fn())
		}()
		return nil
	})
	return js.Global().Get("Promise").New(handler)
}
