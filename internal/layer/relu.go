package layer

import (
	"io"

	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/workpool"
)

// ReLU clamps every element to the non-negative range, in place.
type ReLU struct{}

// NewReLU builds a ReLU layer.
func NewReLU() *ReLU { return &ReLU{} }

// Load is a no-op: ReLU has no learned parameters.
func (r *ReLU) Load(io.Reader) error { return nil }

// Forward zeroes every negative element of x and returns x.
func (r *ReLU) Forward(x *tensor.Tensor[T], pool *workpool.Pool) (*tensor.Tensor[T], error) {
	err := workpool.SubmitAll(pool, x.Size(), func(begin, end int) {
		singleReLU(x, begin, end)
	})
	if err != nil {
		return nil, err
	}
	return x, nil
}
