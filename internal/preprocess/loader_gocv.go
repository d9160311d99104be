//go:build gofeature_gocv

package preprocess

import "github.com/gofeature/gofeature/internal/telemetry"

// NewLoader builds the Loader this build is configured with. Callers
// that don't care which decoder backend is active use this instead of
// naming NewDefaultLoader/NewGocvLoader directly.
func NewLoader(log telemetry.Logger) Loader {
	return NewGocvLoader(log)
}
