//go:build !gofeature_simd

package layer

import "github.com/gofeature/gofeature/internal/tensor"

// singleConv computes one (batch, output filter) slice of the
// convolution, scalar accumulation only.
func (c *Conv2D) singleConv(x, y *tensor.Tensor[T], i, out int) {
	height, width := y.Shape()[2], y.Shape()[3]
	for h := 0; h < height; h++ {
		hs := c.Stride * h
		for w := 0; w < width; w++ {
			ws := c.Stride * w
			var sum T
			for in := 0; in < c.InChannels; in++ {
				for kh := 0; kh < c.KernelSize; kh++ {
					for kw := 0; kw < c.KernelSize; kw++ {
						sum += x.At(i, in, hs+kh, ws+kw) * c.weight.At(out, in, kh, kw)
					}
				}
			}
			if c.HasBias {
				sum += c.bias.At(out)
			}
			y.Set(sum, i, out, h, w)
		}
	}
}
