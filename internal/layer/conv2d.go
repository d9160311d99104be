package layer

import (
	"io"

	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/workpool"
)

// Conv2D is a 2D convolution over a 4-D (batch, channel, height, width)
// input, producing a 4-D output with OutChannels filters.
type Conv2D struct {
	InChannels, OutChannels, KernelSize, Stride, Padding int
	HasBias                                              bool

	weight *tensor.Tensor[T]
	bias   *tensor.Tensor[T]
}

// NewConv2D builds a Conv2D layer; stride defaults to 1 if zero.
func NewConv2D(inChannels, outChannels, kernelSize, stride, padding int, hasBias bool) *Conv2D {
	if stride == 0 {
		stride = 1
	}
	c := &Conv2D{
		InChannels:  inChannels,
		OutChannels: outChannels,
		KernelSize:  kernelSize,
		Stride:      stride,
		Padding:     padding,
		HasBias:     hasBias,
		weight:      tensor.New[T](outChannels, inChannels, kernelSize, kernelSize),
	}
	if hasBias {
		c.bias = tensor.New[T](outChannels)
	}
	return c
}

// Load reads the weight tensor followed by the bias tensor, if present.
func (c *Conv2D) Load(r io.Reader) error {
	if err := c.weight.Load(r); err != nil {
		return err
	}
	if c.HasBias {
		return c.bias.Load(r)
	}
	return nil
}

// Forward pads (if configured) and convolves x, returning a new
// tensor. The batch dimension is addressed explicitly throughout so the
// full (batch, channel, row) space is padded, not just one batch's
// worth — see padFull for why this matters.
func (c *Conv2D) Forward(x *tensor.Tensor[T], pool *workpool.Pool) (*tensor.Tensor[T], error) {
	shape := x.Shape()
	if len(shape) != 4 || shape[1] != c.InChannels {
		return nil, &ShapeError{Layer: "Conv2D", Want: "(B, in_channels, H, W)", Got: shape}
	}

	if c.Padding > 0 {
		padded, err := padFull(x, c.Padding, pool)
		if err != nil {
			return nil, err
		}
		x = padded
		shape = x.Shape()
	}

	n, h, w := shape[0], shape[2], shape[3]
	outH := (h-c.KernelSize)/c.Stride + 1
	outW := (w-c.KernelSize)/c.Stride + 1
	y := tensor.New[T](n, c.OutChannels, outH, outW)

	err := workpool.SubmitAll(pool, n*c.OutChannels, func(begin, end int) {
		for j := begin; j < end; j++ {
			i, out := j/c.OutChannels, j%c.OutChannels
			c.singleConv(x, y, i, out)
		}
	})
	if err != nil {
		return nil, err
	}
	return y, nil
}

// padFull zero-pads the height and width of every (batch, channel) row
// of x. The original engine computed chunk bounds from a stride product
// that omitted the batch dimension, so the row index derived from the
// flat chunk index wrapped within a single batch once B > 1, leaving
// later batches unpadded. This version derives batch, channel and row
// from the full B*C*H space so every row is copied.
func padFull(x *tensor.Tensor[T], padding int, pool *workpool.Pool) (*tensor.Tensor[T], error) {
	shape := x.Shape()
	n, ch, h, w := shape[0], shape[1], shape[2], shape[3]
	temp := tensor.New[T](n, ch, h+2*padding, w+2*padding)

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
