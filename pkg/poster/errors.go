// errors.go - Error kinds surfaced by the poster core.
package poster

import (
	"errors"

	"github.com/fogfish/faults"
)

// Sentinels callers branch on.
var (
	ErrNotImage   = errors.New("not an image file")
	ErrNoPhoto    = errors.New("no photo to export")
	ErrSuperseded = errors.New("photo load superseded by a newer selection")
)

const (
	errDecode     = faults.Type("image decode failed")
	errAsset      = faults.Safe1[string]("background asset %s unavailable")
	errSynthesize = faults.Type("synthetic background failed")
	errExport     = faults.Type("export failed")
)
