// Package tensor implements the n-dimensional dense array used to move
// data between layers: row-major storage, shape-derived strides, and a
// fixed little-endian binary layout matching the upstream weight files.
package tensor

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Elem is the scalar element type a Tensor is built over. Only float32
// is exercised by the inference engine; the type parameter exists so the
// storage, shape and serialization logic aren't duplicated per concrete
// type the way the teacher duplicated FeatureMap and Kernel.
type Elem interface {
	~float32
}

// Tensor is a dense, row-major, n-dimensional array. The zero value is
// the empty, unallocated tensor that Empty returns; construct a sized
// tensor with New or NewFromData.
type Tensor[T Elem] struct {
	shape   []int
	strides []int
	data    []T
}

// New allocates a zero-filled tensor of the given shape.
func New[T Elem](shape ...int) *Tensor[T] {
	s := append([]int(nil), shape...)
	return &Tensor[T]{
		shape:   s,
		strides: computeStrides(s),
		data:    make([]T, productOf(s)),
	}
}

// Empty returns an unallocated tensor with an empty shape, as permitted
// by the data model: a legal, zero-size tensor.
func Empty[T Elem]() *Tensor[T] {
	return &Tensor[T]{}
}

// NewFromData wraps existing data as a tensor of the given shape. The
// data slice is copied so the tensor owns its storage exclusively.
func NewFromData[T Elem](data []T, shape ...int) (*Tensor[T], error) {
	s := append([]int(nil), shape...)
	want := productOf(s)
	if len(data) != want {
		return nil, fmt.Errorf("tensor: data size mismatch: shape %v wants %d elements, got %d", s, want, len(data))
	}
	t := &Tensor[T]{
		shape:   s,
		strides: computeStrides(s),
		data:    make([]T, want),
	}
	copy(t.data, data)
	return t, nil
}

func computeStrides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}

func productOf(shape []int) int {
	p := 1
	for _, d := range shape {
		p *= d
	}
	return p
}

// Clone deep-copies the storage; the result shares nothing with t.
func (t *Tensor[T]) Clone() *Tensor[T] {
	c := &Tensor[T]{
		shape:   append([]int(nil), t.shape...),
		strides: append([]int(nil), t.strides...),
		data:    make([]T, len(t.data)),
	}
	copy(c.data, t.data)
	return c
}

// Reshape rewrites the shape and stride table in place without moving
// data. It fails if the element count would change.
func (t *Tensor[T]) Reshape(shape ...int) error {
	s := append([]int(nil), shape...)
	if productOf(s) != len(t.data) {
		return fmt.Errorf("tensor: reshape size mismatch: have %d elements, new shape %v wants %d", len(t.data), s, productOf(s))
	}
	t.shape = s
	t.strides = computeStrides(s)
	return nil
}

// Resize sets the new shape and, when the element count changes,
// replaces the storage with a fresh zero-filled buffer, discarding all
// existing contents; this is not a view operation. When the element
// count is unchanged the storage is kept as is.
func (t *Tensor[T]) Resize(shape ...int) {
	s := append([]int(nil), shape...)
	n := productOf(s)
	t.shape = s
	t.strides = computeStrides(s)
	if n != len(t.data) {
		t.data = make([]T, n)
	}
}

// Shape returns a defensive copy of the tensor's extents.
func (t *Tensor[T]) Shape() []int {
	return append([]int(nil), t.shape...)
}

// Ndim returns the tensor's rank.
func (t *Tensor[T]) Ndim() int {
	return len(t.shape)
}

// Size returns the total element count.
func (t *Tensor[T]) Size() int {
	return len(t.data)
}

// Data exposes the flat backing storage. Kernels use this for
// partition-local slicing; callers must respect the partition
// boundaries documented by each layer's forward pass.
func (t *Tensor[T]) Data() []T {
	return t.data
}

func (t *Tensor[T]) offset(idx []int) int {
	off := 0
	for i, v := range idx {
		off += v * t.strides[i]
	}
	return off
}

// At returns the element at the given index prefix. A prefix shorter
// than Ndim addresses the first element of the corresponding
// sub-tensor.
func (t *Tensor[T]) At(idx ...int) T {
	checkIndex(t, idx)
	return t.data[t.offset(idx)]
}

// Set writes the element at the given index prefix.
func (t *Tensor[T]) Set(v T, idx ...int) {
	checkIndex(t, idx)
	t.data[t.offset(idx)] = v
}

// RawPtr returns a pointer to the element at the index prefix, for
// kernels that want direct pointer arithmetic.
func (t *Tensor[T]) RawPtr(idx ...int) *T {
	checkIndex(t, idx)
	return &t.data[t.offset(idx)]
}

// RawSlice returns the backing storage starting at the index prefix,
// through the end of the tensor's storage. Used by SIMD-style kernels
// to take contiguous 8-wide loads/stores without repeated offset math.
func (t *Tensor[T]) RawSlice(idx ...int) []T {
	checkIndex(t, idx)
	return t.data[t.offset(idx):]
}

// Fill sets every element to v.
func (t *Tensor[T]) Fill(v T) {
	for i := range t.data {
		t.data[i] = v
	}
}

// Save writes the tensor's storage as contiguous little-endian float32
// values in row-major order. No header, no shape, no separators.
func (t *Tensor[T]) Save(w io.Writer) error {
	buf := make([]byte, 4*len(t.data))
	for i, v := range t.data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(v)))
	}
	_, err := w.Write(buf)
	return err
}

// Load reads exactly Size() little-endian float32 values into the
// tensor's existing storage, in row-major order.
func (t *Tensor[T]) Load(r io.Reader) error {
	buf := make([]byte, 4*len(t.data))
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("tensor: load: %w", err)
	}
	for i := range t.data {
		t.data[i] = T(math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])))
	}
	return nil
}

func (t *Tensor[T]) String() string {
	return fmt.Sprintf("Tensor%v{size=%d}", t.shape, len(t.data))
}
