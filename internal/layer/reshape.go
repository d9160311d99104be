package layer

import (
	"fmt"
	"io"

	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/workpool"
)

// Reshape rewrites x's trailing shape to the configured dimensions,
// inferring the leading batch dimension from x's total size.
type Reshape struct {
	shape []int
	size  int
}

// NewReshape builds a Reshape layer for the given trailing dimensions.
func NewReshape(shape ...int) *Reshape {
	size := 1
	for _, d := range shape {
		size *= d
	}
	return &Reshape{shape: append([]int(nil), shape...), size: size}
}

// Load is a no-op: Reshape has no learned parameters.
func (r *Reshape) Load(io.Reader) error { return nil }

// Forward reshapes x to (x.Size()/size, shape...) in place.
func (r *Reshape) Forward(x *tensor.Tensor[T], pool *workpool.Pool) (*tensor.Tensor[T], error) {
	if r.size == 0 || x.Size()%r.size != 0 {
		return nil, &ShapeError{Layer: "Reshape", Want: fmt.Sprintf("(B, %v)", r.shape), Got: x.Shape()}
	}
	batch := x.Size() / r.size
	full := append([]int{batch}, r.shape...)
	if err := x.Reshape(full...); err != nil {
		return nil, err
	}
	return x, nil
}
