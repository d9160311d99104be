//go:build !gofeature_simd

package layer

import "github.com/gofeature/gofeature/internal/tensor"

func (l *Linear) singleLinear(x, y *tensor.Tensor[T], i, j int) {
	var sum T
	for k := 0; k < l.InFeatures; k++ {
		sum += x.At(i, k) * l.weight.At(j, k)
	}
	if l.HasBias {
		sum += l.bias.At(j)
	}
	y.Set(sum, i, j)
}
