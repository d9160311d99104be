package iohelp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofeature/gofeature/internal/tensor"
)

// Sink writes one batch's worth of 2-D (batch, features) results to an
// output stream.
type Sink interface {
	Write(w io.Writer, result *tensor.Tensor[float32]) error
}

// NewSink returns the binary sink when binary is true, the text sink
// otherwise.
func NewSink(binary bool) Sink {
	if binary {
		return BinarySink{}
	}
	return TextSink{}
}

// BinarySink writes results as contiguous little-endian float32 values,
// the same layout Tensor.Save produces — no row/column separators.
type BinarySink struct{}

// Write saves result's raw storage to w.
func (BinarySink) Write(w io.Writer, result *tensor.Tensor[float32]) error {
	return result.Save(w)
}

// TextSink writes one row per line, values space-separated.
type TextSink struct{}

// Write renders result, which must be 2-D, as one space-separated,
// newline-terminated line per row.
func (TextSink) Write(w io.Writer, result *tensor.Tensor[float32]) error {
	shape := result.Shape()
	if len(shape) != 2 {
		return fmt.Errorf("iohelp: text sink requires a 2-D tensor, got shape %v", shape)
	}
	rows, cols := shape[0], shape[1]

	bw := bufio.NewWriter(w)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if j > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(formatValue(result.At(i, j))); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// formatValue renders v with at least one fractional digit, so a
// whole-number result like 1.0 prints as "1.0" rather than the bare
// "1" strconv/fmt's shortest-form formatters would otherwise produce.
func formatValue(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
