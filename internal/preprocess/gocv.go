//go:build gofeature_gocv

package preprocess

import (
	"fmt"
	"image"

	cv "gocv.io/x/gocv"

	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/telemetry"
	"github.com/gofeature/gofeature/internal/workpool"
)

// GocvLoader decodes and resizes images with OpenCV bindings, built
// only when the gofeature_gocv tag enables the cgo dependency.
type GocvLoader struct {
	Log telemetry.Logger
}

// NewGocvLoader builds a GocvLoader.
func NewGocvLoader(log telemetry.Logger) *GocvLoader {
	return &GocvLoader{Log: log}
}

// Load decodes, resizes, center-crops and normalizes every path into a
// row of the returned (len(paths), 3, 224, 224) tensor.
func (g *GocvLoader) Load(paths []string, pool *workpool.Pool) (*tensor.Tensor[float32], error) {
	out := tensor.New[float32](len(paths), 3, cropSize, cropSize)

	err := workpool.SubmitAll(pool, len(paths), func(begin, end int) {
		for i := begin; i < end; i++ {
			if err := g.loadOne(paths[i], out, i); err != nil {
				g.Log.Errorf("preprocess: %s: %v", paths[i], err)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GocvLoader) loadOne(path string, out *tensor.Tensor[float32], row int) error {
	mat := cv.IMRead(path, cv.IMReadColor)
	if mat.Empty() {
		return fmt.Errorf("failed to load image %s", path)
	}
	defer mat.Close()

	w, h := resizeDims(mat.Cols(), mat.Rows())
	resized := cv.NewMat()
	defer resized.Close()
	cv.Resize(mat, &resized, image.Point{X: w, Y: h}, 0, 0, cv.InterpolationCubic)

	offsetX := int(float64(w-cropSize)/2.0 + 0.5)
	offsetY := int(float64(h-cropSize)/2.0 + 0.5)

	for i := 0; i < cropSize; i++ {
		for j := 0; j < cropSize; j++ {
			// gocv reports BGR channel order.
			b := float32(resized.GetUCharAt3(offsetY+i, offsetX+j, 0)) / 255
			gr := float32(resized.GetUCharAt3(offsetY+i, offsetX+j, 1)) / 255
			r := float32(resized.GetUCharAt3(offsetY+i, offsetX+j, 2)) / 255
			out.Set(normalize(r, 0), row, 0, i, j)
			out.Set(normalize(gr, 1), row, 1, i, j)
			out.Set(normalize(b, 2), row, 2, i, j)
		}
	}
	return nil
}
