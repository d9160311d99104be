package layer

import (
	"io"

	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/workpool"
)

// Bias adds a per-feature learned offset to a 2-D (batch, features)
// input, in place.
type Bias struct {
	Features int
	bias     *tensor.Tensor[T]
}

// NewBias builds a Bias layer.
func NewBias(features int) *Bias {
	return &Bias{Features: features, bias: tensor.New[T](features)}
}

// Load reads the bias vector.
func (b *Bias) Load(r io.Reader) error {
	return b.bias.Load(r)
}

// Forward adds the bias vector to every row of x and returns x.
func (b *Bias) Forward(x *tensor.Tensor[T], pool *workpool.Pool) (*tensor.Tensor[T], error) {
	shape := x.Shape()
	if len(shape) != 2 || shape[1] != b.Features {
		return nil, &ShapeError{Layer: "Bias", Want: "(B, features)", Got: shape}
	}

	data := x.Data()
	err := workpool.SubmitAll(pool, x.Size(), func(begin, end int) {
		for s := begin; s < end; s++ {
			data[s] += b.bias.At(s % b.Features)
		}
	})
	if err != nil {
		return nil, err
	}
	return x, nil
}
