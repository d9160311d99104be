//go:build gofeature_simd

package layer

import "github.com/gofeature/gofeature/internal/tensor"

// singleReLU clamps eight elements at a time, the pure-Go stand-in for
// the reference engine's AVX2 max-against-zero.
func singleReLU(x *tensor.Tensor[T], begin, end int) {
	data := x.Data()
	i := begin
	for ; i+7 < end; i += 8 {
		if data[i+0] < 0 {
			data[i+0] = 0
		}
		if data[i+1] < 0 {
			data[i+1] = 0
		}
		if data[i+2] < 0 {
			data[i+2] = 0
		}
		if data[i+3] < 0 {
			data[i+3] = 0
		}
		if data[i+4] < 0 {
			data[i+4] = 0
		}
		if data[i+5] < 0 {
			data[i+5] = 0
		}
		if data[i+6] < 0 {
			data[i+6] = 0
		}
		if data[i+7] < 0 {
			data[i+7] = 0
		}
	}
	for ; i < end; i++ {
		if data[i] < 0 {
			data[i] = 0
		}
	}
}
