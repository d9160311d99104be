//go:build !gofeature_gocv

package preprocess

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/telemetry"
	"github.com/gofeature/gofeature/internal/workpool"
)

// DefaultLoader decodes images with the standard library's image
// package (jpeg, png) and resizes with golang.org/x/image/draw. It has
// no system dependencies, unlike the gocv-backed loader.
type DefaultLoader struct {
	Log telemetry.Logger
}

// NewDefaultLoader builds a DefaultLoader.
func NewDefaultLoader(log telemetry.Logger) *DefaultLoader {
	return &DefaultLoader{Log: log}
}

// Load decodes, resizes, center-crops and normalizes every path into a
// row of the returned (len(paths), 3, 224, 224) tensor, spreading the
// per-image work across pool.
func (d *DefaultLoader) Load(paths []string, pool *workpool.Pool) (*tensor.Tensor[float32], error) {
	out := tensor.New[float32](len(paths), 3, cropSize, cropSize)

	err := workpool.SubmitAll(pool, len(paths), func(begin, end int) {
		for i := begin; i < end; i++ {
			if err := d.loadOne(paths[i], out, i); err != nil {
				d.Log.Errorf("preprocess: %s: %v", paths[i], err)
				// leave this sample zero-valued and continue, matching
				// the reference engine's behavior on a failed decode.
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *DefaultLoader) loadOne(path string, out *tensor.Tensor[float32], row int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	w, h := resizeDims(src.Bounds().Dx(), src.Bounds().Dy())
	resized := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(resized, resized.Bounds(), src, src.Bounds(), draw.Over, nil)

	offsetX := int(float64(w-cropSize)/2.0 + 0.5)
	offsetY := int(float64(h-cropSize)/2.0 + 0.5)

	for i := 0; i < cropSize; i++ {
		for j := 0; j < cropSize; j++ {
			r, g, b, _ := resized.At(offsetX+j, offsetY+i).RGBA()
			out.Set(normalize(float32(r)/65535, 0), row, 0, i, j)
			out.Set(normalize(float32(g)/65535, 1), row, 1, i, j)
			out.Set(normalize(float32(b)/65535, 2), row, 2, i, j)
		}
	}
	return nil
}

// resizeDims mirrors the reference engine's shorter-side-to-256 resize:
// integer division happens before the multiply, so the longer side is
// not a clean 256-based scale of the original aspect ratio.
func resizeDims(width, height int) (w, h int) {
	w, h = resizeShortSide, resizeShortSide
	if height > width {
		h = height / width * resizeShortSide
	} else {
		w = width / height * resizeShortSide
	}
	return w, h
}
