// Package iohelp implements the file-format collaborators around the
// pipeline: reading a raw feature file back in, and writing results out
// in either binary or text form.
package iohelp

import (
	"fmt"
	"io"

	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/weights"
)

// ReadRawFeatures loads a raw feature file: n rows of
// weights.FeatureWidth float32 values, with n derived from size and no
// remainder permitted. This is the entry point used when the pipeline
// is run in reducer-only mode ("Y -> Z"), reading features that were
// already extracted in an earlier run.
func ReadRawFeatures(r io.Reader, size int64) (*tensor.Tensor[float32], error) {
	const bytesPerFloat = 4
	n := size / bytesPerFloat / weights.FeatureWidth
	if n <= 0 || size != bytesPerFloat*weights.FeatureWidth*n {
		return nil, fmt.Errorf("iohelp: invalid raw feature data size %d", size)
	}
	t := tensor.New[float32](int(n), weights.FeatureWidth)
	if err := t.Load(r); err != nil {
		return nil, fmt.Errorf("iohelp: reading raw features: %w", err)
	}
	return t, nil
}
