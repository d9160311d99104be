//go:build gofeature_simd

package layer

import "github.com/gofeature/gofeature/internal/tensor"

// singleLinear dot-products row i of x against row j of the weight
// matrix, eight elements at a time — the pure-Go stand-in for the
// reference engine's AVX2 load-multiply-accumulate-then-horizontal-sum.
func (l *Linear) singleLinear(x, y *tensor.Tensor[T], i, j int) {
	xr := x.RawSlice(i, 0)[:l.InFeatures]
	wr := l.weight.RawSlice(j, 0)[:l.InFeatures]

	var acc0, acc1, acc2, acc3, acc4, acc5, acc6, acc7 T
	k := 0
	for ; k+7 < l.InFeatures; k += 8 {
		acc0 += xr[k+0] * wr[k+0]
		acc1 += xr[k+1] * wr[k+1]
		acc2 += xr[k+2] * wr[k+2]
		acc3 += xr[k+3] * wr[k+3]
		acc4 += xr[k+4] * wr[k+4]
		acc5 += xr[k+5] * wr[k+5]
		acc6 += xr[k+6] * wr[k+6]
		acc7 += xr[k+7] * wr[k+7]
	}
	sum := acc0 + acc1 + acc2 + acc3 + acc4 + acc5 + acc6 + acc7
	for ; k < l.InFeatures; k++ {
		sum += xr[k] * wr[k]
	}
	if l.HasBias {
		sum += l.bias.At(j)
	}
	y.Set(sum, i, j)
}
