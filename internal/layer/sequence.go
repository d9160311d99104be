package layer

import (
	"io"

	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/workpool"
)

// Sequence chains layers, feeding each one's output to the next. A
// Sequence is itself a Layer, so sequences nest.
type Sequence []Layer

// Forward runs x through every layer in order.
func (s Sequence) Forward(x *tensor.Tensor[T], pool *workpool.Pool) (*tensor.Tensor[T], error) {
	var err error
	for _, l := range s {
		x, err = l.Forward(x, pool)
		if err != nil {
			return nil, err
		}
	}
	return x, nil
}

// Load loads every layer's parameters in sequence order, matching the
// concatenated weight file layout.
func (s Sequence) Load(r io.Reader) error {
	for _, l := range s {
		if err := l.Load(r); err != nil {
			return err
		}
	}
	return nil
}
