//go:build gofeature_simd

package layer

import "github.com/gofeature/gofeature/internal/tensor"

// singleConv computes one (batch, output filter) slice of the
// convolution. The inner loop over output width is manually unrolled
// eight-wide, the pure-Go stand-in for the reference engine's AVX2
// gather-and-FMA: Go has no portable intrinsics, so this is plain
// scalar arithmetic on eight accumulators instead of one, which still
// lets the compiler pack the loads and keeps the dependency chain the
// vectorized code relied on.
func (c *Conv2D) singleConv(x, y *tensor.Tensor[T], i, out int) {
	height, width := y.Shape()[2], y.Shape()[3]
	var bias T
	if c.HasBias {
		bias = c.bias.At(out)
	}
	for h := 0; h < height; h++ {
		hs := c.Stride * h
		w := 0
		for ; w+7 < width; w += 8 {
			var sum0, sum1, sum2, sum3, sum4, sum5, sum6, sum7 T
			ws := c.Stride * w
			for in := 0; in < c.InChannels; in++ {
				for kh := 0; kh < c.KernelSize; kh++ {
					for kw := 0; kw < c.KernelSize; kw++ {
						wt := c.weight.At(out, in, kh, kw)
						sum0 += wt * x.At(i, in, hs+kh, ws+kw+c.Stride*0)
						sum1 += wt * x.At(i, in, hs+kh, ws+kw+c.Stride*1)
						sum2 += wt * x.At(i, in, hs+kh, ws+kw+c.Stride*2)
						sum3 += wt * x.At(i, in, hs+kh, ws+kw+c.Stride*3)
						sum4 += wt * x.At(i, in, hs+kh, ws+kw+c.Stride*4)
						sum5 += wt * x.At(i, in, hs+kh, ws+kw+c.Stride*5)
						sum6 += wt * x.At(i, in, hs+kh, ws+kw+c.Stride*6)
						sum7 += wt * x.At(i, in, hs+kh, ws+kw+c.Stride*7)
					}
				}
			}
			y.Set(sum0+bias, i, out, h, w+0)
			y.Set(sum1+bias, i, out, h, w+1)
			y.Set(sum2+bias, i, out, h, w+2)
			y.Set(sum3+bias, i, out, h, w+3)
			y.Set(sum4+bias, i, out, h, w+4)
			y.Set(sum5+bias, i, out, h, w+5)
			y.Set(sum6+bias, i, out, h, w+6)
			y.Set(sum7+bias, i, out, h, w+7)
		}
		for ; w < width; w++ {
			ws := c.Stride * w
			var sum T
			for in := 0; in < c.InChannels; in++ {
				for kh := 0; kh < c.KernelSize; kh++ {
					for kw := 0; kw < c.KernelSize; kw++ {
						sum += x.At(i, in, hs+kh, ws+kw) * c.weight.At(out, in, kh, kw)
					}
				}
			}
			y.Set(sum+bias, i, out, h, w)
		}
	}
}
