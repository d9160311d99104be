package layer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/workpool"
)

func withPool(t *testing.T, n int, fn func(pool *workpool.Pool)) {
	t.Helper()
	pool := workpool.New(n)
	defer pool.Close()
	fn(pool)
}

func loadLE(t *testing.T, l Layer, values ...float32) {
	t.Helper()
	var buf bytes.Buffer
	for _, v := range values {
		x, err := tensor.NewFromData([]float32{v}, 1)
		require.NoError(t, err)
		require.NoError(t, x.Save(&buf))
	}
	require.NoError(t, l.Load(&buf))
}

// S1: Conv2D(1,1,3,s=1,p=0), identity kernel, bias=0.
func TestConv2DIdentityKernel(t *testing.T) {
	c := NewConv2D(1, 1, 3, 1, 0, true)
	weight := make([]float32, 9)
	weight[4] = 1 // center tap
	loadLE(t, c, append(weight, 0)...)

	x, err := tensor.NewFromData([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, 1, 1, 3, 3)
	require.NoError(t, err)

	withPool(t, 4, func(pool *workpool.Pool) {
		y, err := c.Forward(x, pool)
		require.NoError(t, err)
		require.Equal(t, []int{1, 1, 1, 1}, y.Shape())
		require.Equal(t, float32(5), y.At(0, 0, 0, 0))
	})
}

// S2: MaxPool2D(k=2,s=2) over a 2x2 input.
func TestMaxPool2DBasic(t *testing.T) {
	p := NewMaxPool2D(2, 2, 0)
	x, err := tensor.NewFromData([]float32{1, 3, 2, 4}, 1, 1, 2, 2)
	require.NoError(t, err)

	withPool(t, 2, func(pool *workpool.Pool) {
		y, err := p.Forward(x, pool)
		require.NoError(t, err)
		require.Equal(t, float32(4), y.At(0, 0, 0, 0))
	})
}

// REDESIGN FLAG (b): stride=0 must resolve to kernelSize before use.
func TestMaxPool2DZeroStrideResolvesToKernelSize(t *testing.T) {
	p := NewMaxPool2D(2, 0, 0)
	require.Equal(t, 2, p.Stride)
}

// REDESIGN FLAG (c): padding fill must be the type minimum, not zero,
// so a negative-valued window isn't beaten by a zero border.
func TestMaxPool2DPaddingUsesTypeMinimum(t *testing.T) {
	p := NewMaxPool2D(3, 1, 1)
	x, err := tensor.NewFromData([]float32{-5, -5, -5, -5}, 1, 1, 2, 2)
	require.NoError(t, err)

	withPool(t, 2, func(pool *workpool.Pool) {
		y, err := p.Forward(x, pool)
		require.NoError(t, err)
		require.Equal(t, float32(-5), y.At(0, 0, 0, 0))
	})
}

// REDESIGN FLAG (a): padding must cover every batch, not just the first.
func TestConv2DPaddingCoversFullBatch(t *testing.T) {
	c := NewConv2D(1, 1, 3, 1, 1, false)
	weight := make([]float32, 9)
	weight[4] = 1
	loadLE(t, c, weight...)

	x, err := tensor.NewFromData([]float32{
		1, 2, 1, 2,
		3, 4, 3, 4,
	}, 2, 1, 2, 2)
	require.NoError(t, err)

	withPool(t, 4, func(pool *workpool.Pool) {
		y, err := c.Forward(x, pool)
		require.NoError(t, err)
		require.Equal(t, []int{2, 1, 2, 2}, y.Shape())
		require.Equal(t, float32(1), y.At(0, 0, 0, 0))
		require.Equal(t, float32(3), y.At(1, 0, 0, 0))
		require.Equal(t, float32(4), y.At(1, 0, 1, 1))
	})
}

// S3: Linear(in=2,out=1,has_bias=true).
func TestLinearBasic(t *testing.T) {
	l := NewLinear(2, 1, true)
	loadLE(t, l, 1, -1, 0.5)

	x, err := tensor.NewFromData([]float32{3, 1}, 1, 2)
	require.NoError(t, err)

	withPool(t, 2, func(pool *workpool.Pool) {
		y, err := l.Forward(x, pool)
		require.NoError(t, err)
		require.Equal(t, float32(2.5), y.At(0, 0))
	})
}

// S4: ReLU.
func TestReLUBasic(t *testing.T) {
	r := NewReLU()
	x, err := tensor.NewFromData([]float32{-1, 0, 2, -3, 4}, 5)
	require.NoError(t, err)

	withPool(t, 3, func(pool *workpool.Pool) {
		y, err := r.Forward(x, pool)
		require.NoError(t, err)
		require.Equal(t, []float32{0, 0, 2, 0, 4}, y.Data())
	})
}

// S5: Bias(features=3) over a 2x3 input.
func TestBiasBasic(t *testing.T) {
	b := NewBias(3)
	loadLE(t, b, 10, 20, 30)

	x, err := tensor.NewFromData([]float32{0, 0, 0, 1, 1, 1}, 2, 3)
	require.NoError(t, err)

	withPool(t, 2, func(pool *workpool.Pool) {
		y, err := b.Forward(x, pool)
		require.NoError(t, err)
		require.Equal(t, []float32{10, 20, 30, 11, 21, 31}, y.Data())
	})
}

// S6: Reshape(target=(4,)) on shape (2,2,2).
func TestReshapeBasic(t *testing.T) {
	r := NewReshape(4)
	x := tensor.New[float32](2, 2, 2)
	for i := range x.Data() {
		x.Data()[i] = float32(i)
	}

	withPool(t, 1, func(pool *workpool.Pool) {
		y, err := r.Forward(x, pool)
		require.NoError(t, err)
		require.Equal(t, []int{2, 4}, y.Shape())
		for i, v := range y.Data() {
			require.Equal(t, float32(i), v)
		}
	})
}

func TestSequenceChainsLayers(t *testing.T) {
	seq := Sequence{NewReLU(), NewReshape(4)}
	x := tensor.New[float32](2, 2, 2)
	for i := range x.Data() {
		x.Data()[i] = float32(i) - 4
	}

	withPool(t, 2, func(pool *workpool.Pool) {
		y, err := seq.Forward(x, pool)
		require.NoError(t, err)
		require.Equal(t, []int{2, 4}, y.Shape())
		for _, v := range y.Data() {
			require.GreaterOrEqual(t, v, float32(0))
		}
	})
}

// Results must not depend on how many workers drive the computation.
func TestConvResultIndependentOfThreadCount(t *testing.T) {
	c := NewConv2D(1, 2, 3, 1, 1, true)
	weight := make([]float32, 2*1*3*3)
	for i := range weight {
		weight[i] = float32(i%5) - 2
	}
	loadLE(t, c, append(weight, 0.1, -0.2)...)

	var results [][]float32
	for _, n := range []int{1, 2, 5, 16} {
		x, err := tensor.NewFromData(mkRamp(3*1*8*8), 3, 1, 8, 8)
		require.NoError(t, err)
		withPool(t, n, func(pool *workpool.Pool) {
			y, err := c.Forward(x, pool)
			require.NoError(t, err)
			results = append(results, append([]float32(nil), y.Data()...))
		})
	}
	for i := 1; i < len(results); i++ {
		require.Equal(t, results[0], results[i])
	}
}

func mkRamp(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i%13) * 0.37
	}
	return out
}

func TestMaxPool2DRejectsWrongRank(t *testing.T) {
	p := NewMaxPool2D(2, 2, 0)
	x := tensor.New[float32](2, 2)
	withPool(t, 1, func(pool *workpool.Pool) {
		_, err := p.Forward(x, pool)
		require.Error(t, err)
	})
}
