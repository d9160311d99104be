//go:build gofeature_debug

package tensor

import "fmt"

// checkIndex validates an index prefix against the tensor's shape. Only
// compiled in under gofeature_debug; release builds skip this entirely
// so the hot kernels never pay for the check.
func checkIndex[T Elem](t *Tensor[T], idx []int) {
	if len(idx) > len(t.shape) {
		panic(fmt.Sprintf("tensor: index %v has more dimensions than shape %v", idx, t.shape))
	}
	for i, v := range idx {
		if v < 0 || v >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %v out of bounds for shape %v at dim %d", idx, t.shape, i))
		}
	}
}
