package layer

import (
	"io"
	"math"

	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/workpool"
)

// MaxPool2D takes the max over each kernel_size x kernel_size window,
// sliding by Stride, over a 4-D (batch, channel, height, width) input.
type MaxPool2D struct {
	KernelSize, Stride, Padding int
}

// NewMaxPool2D builds a MaxPool2D layer. stride of 0 resolves to
// kernelSize before it is stored — the reference engine's constructor
// assigned the resolved value to a parameter that shadowed the member
// field, so the member kept the caller's literal 0 and every pool with
// an unspecified stride silently pooled with stride 0. Resolving before
// assignment here is the fix.
func NewMaxPool2D(kernelSize, stride, padding int) *MaxPool2D {
	if stride == 0 {
		stride = kernelSize
	}
	return &MaxPool2D{KernelSize: kernelSize, Stride: stride, Padding: padding}
}

// Load is a no-op: MaxPool2D has no learned parameters.
func (p *MaxPool2D) Load(r io.Reader) error { return nil }

// Forward pads (if configured) and pools x, returning a new tensor.
func (p *MaxPool2D) Forward(x *tensor.Tensor[T], pool *workpool.Pool) (*tensor.Tensor[T], error) {
	shape := x.Shape()
	if len(shape) != 4 {
		return nil, &ShapeError{Layer: "MaxPool2D", Want: "(B, C, H, W)", Got: shape}
	}

	if p.Padding > 0 {
		padded, err := padFullMax(x, p.Padding, pool)
		if err != nil {
			return nil, err
		}
		x = padded
		shape = x.Shape()
	}

	n, ch, h, w := shape[0], shape[1], shape[2], shape[3]
	outH := (h-p.KernelSize)/p.Stride + 1
	outW := (w-p.KernelSize)/p.Stride + 1
	y := tensor.New[T](n, ch, outH, outW)

	err := workpool.SubmitAll(pool, n*ch, func(begin, end int) {
		for j := begin; j < end; j++ {
			i, c := j/ch, j%ch
			p.singlePool(x, y, i, c)
		}
	})
	if err != nil {
		return nil, err
	}
	return y, nil
}

func (p *MaxPool2D) singlePool(x, y *tensor.Tensor[T], i, c int) {
	height, width := y.Shape()[2], y.Shape()[3]
	for h := 0; h < height; h++ {
		hs := p.Stride * h
		for w := 0; w < width; w++ {
			ws := p.Stride * w
			max := T(-math.MaxFloat32)
			for kh := 0; kh < p.KernelSize; kh++ {
				for kw := 0; kw < p.KernelSize; kw++ {
					if v := x.At(i, c, hs+kh, ws+kw); v > max {
						max = v
					}
				}
			}
			y.Set(max, i, c, h, w)
		}
	}
}

// padFullMax pads x the same way padFull does for Conv2D, addressing
// the full batch*channel*row space, but fills the border with the
// element-type minimum rather than zero: the reference engine
// value-initialized its padded buffer to zero, which is wrong for max
// pooling over negative-valued inputs — a zero border can beat every
// real value in the window and corrupt the result.
func padFullMax(x *tensor.Tensor[T], padding int, pool *workpool.Pool) (*tensor.Tensor[T], error) {
	shape := x.Shape()
	n, ch, h, w := shape[0], shape[1], shape[2], shape[3]
	temp := tensor.New[T](n, ch, h+2*padding, w+2*padding)
	temp.Fill(T(-math.MaxFloat32))

	err := workpool.SubmitAll(pool, n*ch*h, func(begin, end int) {
		for j := begin; j < end; j++ {
			b := j / (ch * h)
			rem := j % (ch * h)
			c := rem / h
			row := rem % h
			src := x.RawSlice(b, c, row, 0)[:w]
			dst := temp.RawSlice(b, c, row+padding, padding)[:w]
			copy(dst, src)
		}
	})
	if err != nil {
		return nil, err
	}
	return temp, nil
}
