// status.go - User-facing status line.
package poster

import (
	"fmt"
	"strings"
)

// Status is the message shown to the user plus whether export is available.
type Status struct {
	Text          string `json:"text"`
	Error         bool   `json:"error"`
	ExportEnabled bool   `json:"exportEnabled"`
}

// Status texts.
const (
	MsgBegin          = "Add a name and photo to begin"
	MsgUploadPhoto    = "Now upload a photo"
	MsgTypeName       = "Now type your name"
	MsgReady          = "Ready to download"
	MsgLoadingPhoto   = "Loading photo…"
	MsgNotImage       = "Please upload an image file."
	MsgUnreadable     = "Could not read that image. Try another."
	MsgExportNoPhoto  = "Upload a photo before downloading."
	MsgPreparing      = "Preparing download…"
	MsgDownloaded     = "Downloaded. You can edit and download again."
	MsgExportFailed   = "Download failed. Please try again."
	MsgBackgroundLost = "Background failed to load."
)

// MsgFallbackBackground is shown when the synthetic background is in use.
func MsgFallbackBackground(file string) string {
	return fmt.Sprintf("Place your background image as '%s' in this folder (using fallback now).", file)
}

func info(text string) Status { return Status{Text: text} }
func failed(text string) Status { return Status{Text: text, Error: true} }

// progress derives the guidance message from what the user has provided so far.
func progress(s PosterState) Status {
	named := strings.TrimSpace(s.Name) != ""
	switch {
	case !s.HasPhoto() && !named:
		return info(MsgBegin)
	case !s.HasPhoto():
		return info(MsgUploadPhoto)
	case !named:
		return info(MsgTypeName)
	default:
		return info(MsgReady)
	}
}
