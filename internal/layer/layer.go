// Package layer implements the closed set of forward-only network
// layers: convolution, max pooling, linear, ReLU, bias and reshape,
// plus the Sequence composite that chains them. Every layer forwards a
// tensor through the shared worker pool; none retains state needed for
// backpropagation.
package layer

import (
	"fmt"
	"io"

	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/workpool"
)

// T is the element type every layer in this engine operates on.
type T = float32

// Layer is the closed sum of forward-only network layers. Forward
// consumes x (ownership transfers to the callee, mirroring the
// original move-in/move-out convention) and returns the result tensor.
// Load reads this layer's learned parameters, in the order the weight
// file lays them out, advancing r past exactly what it consumes.
type Layer interface {
	Forward(x *tensor.Tensor[T], pool *workpool.Pool) (*tensor.Tensor[T], error)
	Load(r io.Reader) error
}

// ShapeError reports a tensor shape that a layer cannot consume.
type ShapeError struct {
	Layer string
	Want  string
	Got   []int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("layer: %s: expected shape %s, got %v", e.Layer, e.Want, e.Got)
}
