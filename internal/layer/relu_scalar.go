//go:build !gofeature_simd

package layer

import "github.com/gofeature/gofeature/internal/tensor"

func singleReLU(x *tensor.Tensor[T], begin, end int) {
	data := x.Data()
	for i := begin; i < end; i++ {
		if data[i] < 0 {
			data[i] = 0
		}
	}
}
