package layer

import (
	"io"

	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/workpool"
)

// Linear is a fully-connected affine layer over a 2-D (batch, features)
// input.
type Linear struct {
	InFeatures, OutFeatures int
	HasBias                 bool

	weight *tensor.Tensor[T]
	bias   *tensor.Tensor[T]
}

// NewLinear builds a Linear layer.
func NewLinear(inFeatures, outFeatures int, hasBias bool) *Linear {
	l := &Linear{
		InFeatures:  inFeatures,
		OutFeatures: outFeatures,
		HasBias:     hasBias,
		weight:      tensor.New[T](outFeatures, inFeatures),
	}
	if hasBias {
		l.bias = tensor.New[T](outFeatures)
	}
	return l
}

// Load reads the weight matrix followed by the bias vector, if present.
func (l *Linear) Load(r io.Reader) error {
	if err := l.weight.Load(r); err != nil {
		return err
	}
	if l.HasBias {
		return l.bias.Load(r)
	}
	return nil
}

// Forward computes y = x * Wᵀ (+ bias).
func (l *Linear) Forward(x *tensor.Tensor[T], pool *workpool.Pool) (*tensor.Tensor[T], error) {
	shape := x.Shape()
	if len(shape) != 2 || shape[1] != l.InFeatures {
		return nil, &ShapeError{Layer: "Linear", Want: "(B, in_features)", Got: shape}
	}

	y := tensor.New[T](shape[0], l.OutFeatures)
	err := workpool.SubmitAll(pool, y.Size(), func(begin, end int) {
		for s := begin; s < end; s++ {
			i, j := s/l.OutFeatures, s%l.OutFeatures
			l.singleLinear(x, y, i, j)
		}
	})
	if err != nil {
		return nil, err
	}
	return y, nil
}
