package weights

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAlexNetRejectsWrongSize(t *testing.T) {
	_, err := LoadAlexNet(bytes.NewReader(nil), 123)
	require.Error(t, err)
}

func TestLoadAlexNetAcceptsExactSize(t *testing.T) {
	data := make([]byte, featureFileSize)
	net, err := LoadAlexNet(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, net, 18)
}

func TestLoadReducerDerivesFeatureCount(t *testing.T) {
	const features = 128
	size := int64(4 * FeatureWidth * (features + 1))
	data := make([]byte, size)
	reducer, got, err := LoadReducer(bytes.NewReader(data), size)
	require.NoError(t, err)
	require.Equal(t, features, got)
	require.Len(t, reducer, 2)
}

func TestLoadReducerRejectsBadSize(t *testing.T) {
	_, _, err := LoadReducer(bytes.NewReader(nil), 4*FeatureWidth)
	require.Error(t, err)
}

func TestNewAlexNetLayerCount(t *testing.T) {
	require.Len(t, NewAlexNet(), 18)
}

func TestNewReducerLayerCount(t *testing.T) {
	require.Len(t, NewReducer(64), 2)
}
