// Package preprocess turns image files into the normalized 4-D tensor
// the AlexNet-shaped network expects: decode, resize the shorter side
// to 256, center-crop to 224x224, then per-channel normalize.
package preprocess

import (
	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/workpool"
)

const (
	resizeShortSide = 256
	cropSize        = 224
)

// channelMean and channelStd are the per-channel (R, G, B) normalization
// constants the reference engine applies after cropping.
var (
	channelMean = [3]float32{0.485, 0.456, 0.406}
	channelStd  = [3]float32{0.229, 0.224, 0.225}
)

// Loader decodes image files at the given paths into a single 4-D
// (batch, 3, 224, 224) tensor, normalized and ready for Conv2D. A file
// that fails to decode contributes an all-zero sample rather than
// aborting the whole batch — the reference engine logged the decode
// error and continued with whatever data CImg left in the buffer,
// which for a failed load is effectively untouched (here: zeroed).
type Loader interface {
	Load(paths []string, pool *workpool.Pool) (*tensor.Tensor[float32], error)
}

func normalize(v float32, channel int) float32 {
	return (v - channelMean[channel]) / channelStd[channel]
}
