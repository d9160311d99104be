// Package weights assembles the two fixed network architectures this
// engine supports — the AlexNet-shaped feature extractor and the PCA
// reducer — and loads their learned parameters from binary weight
// files in one pass.
package weights

import (
	"fmt"
	"io"

	"github.com/gofeature/gofeature/internal/layer"
)

// featureFileSize is the exact byte size the AlexNet weight file must
// have: the sum of every conv/linear weight and bias tensor in the
// sequence below, stored as contiguous little-endian float32.
const featureFileSize = 228015360

// FeatureWidth is the width of a raw feature vector (and the PCA
// reducer's input width): 4096 is the final fully-connected layer's
// output size in the AlexNet-shaped network.
const FeatureWidth = 4096

const featuresPerFile = FeatureWidth

// NewAlexNet builds the AlexNet-shaped feature extractor: five
// convolutional stages (three followed by max pooling) feeding two
// fully-connected stages, each activated by ReLU. The returned sequence
// has no learned parameters until Load is called.
func NewAlexNet() layer.Sequence {
	return layer.Sequence{
		layer.NewConv2D(3, 64, 11, 4, 2, true),
		layer.NewReLU(),
		layer.NewMaxPool2D(3, 2, 0),
		layer.NewConv2D(64, 192, 5, 1, 2, true),
		layer.NewReLU(),
		layer.NewMaxPool2D(3, 2, 0),
		layer.NewConv2D(192, 384, 3, 1, 1, true),
		layer.NewReLU(),
		layer.NewConv2D(384, 256, 3, 1, 1, true),
		layer.NewReLU(),
		layer.NewConv2D(256, 256, 3, 1, 1, true),
		layer.NewReLU(),
		layer.NewMaxPool2D(3, 2, 0),
		layer.NewReshape(256 * 6 * 6),
		layer.NewLinear(256*6*6, featuresPerFile, true),
		layer.NewReLU(),
		layer.NewLinear(featuresPerFile, featuresPerFile, true),
		layer.NewReLU(),
	}
}

// LoadAlexNet loads an AlexNet-shaped sequence from r, a reader
// positioned at the start of the weight data; the caller supplies the
// data's total byte size separately as size. size must
// equal featureFileSize exactly — the file has no header to validate
// against, so the size check is the only integrity check available.
func LoadAlexNet(r io.Reader, size int64) (layer.Sequence, error) {
	if size != featureFileSize {
		return nil, fmt.Errorf("weights: alexnet data must be %d bytes, got %d", featureFileSize, size)
	}
	net := NewAlexNet()
	if err := net.Load(r); err != nil {
		return nil, fmt.Errorf("weights: loading alexnet: %w", err)
	}
	return net, nil
}

// NewReducer builds the bias-then-affine sequence that projects a
// featuresPerFile-wide feature vector down to the given output width.
func NewReducer(features int) layer.Sequence {
	return layer.Sequence{
		layer.NewBias(featuresPerFile),
		layer.NewLinear(featuresPerFile, features, false),
	}
}

// LoadReducer derives the output feature count from the file size —
// the file holds one bias vector of width featuresPerFile plus one
// weight matrix of shape (features, featuresPerFile), so
// features = size/4/featuresPerFile - 1 — and loads the reducer from r.
func LoadReducer(r io.Reader, size int64) (layer.Sequence, int, error) {
	const bytesPerFloat = 4
	units := size / bytesPerFloat / featuresPerFile
	features := int(units) - 1
	if features <= 0 || size != bytesPerFloat*featuresPerFile*int64(features+1) {
		return nil, 0, fmt.Errorf("weights: invalid reducer data size %d", size)
	}
	reducer := NewReducer(features)
	if err := reducer.Load(r); err != nil {
		return nil, 0, fmt.Errorf("weights: loading reducer: %w", err)
	}
	return reducer, features, nil
}

