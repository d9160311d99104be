//go:build !gofeature_gocv

package preprocess

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gofeature/gofeature/internal/telemetry"
	"github.com/gofeature/gofeature/internal/workpool"
)

func TestResizeDimsShorterSideIs256(t *testing.T) {
	w, h := resizeDims(400, 300)
	require.Equal(t, resizeShortSide, h)
	require.Equal(t, (400/300)*resizeShortSide, w)

	w, h = resizeDims(300, 400)
	require.Equal(t, resizeShortSide, w)
	require.Equal(t, (400/300)*resizeShortSide, h)
}

func TestNormalizeAppliesMeanStd(t *testing.T) {
	got := normalize(0.485, 0)
	require.InDelta(t, 0, got, 1e-6)
}

func TestDefaultLoaderZeroesFailedDecode(t *testing.T) {
	log := telemetry.New(io.Discard, false)
	loader := NewDefaultLoader(log)

	pool := workpool.New(2)
	defer pool.Close()

	out, err := loader.Load([]string{"/nonexistent/path/does-not-exist.jpg"}, pool)
	require.NoError(t, err)
	require.Equal(t, []int{1, 3, cropSize, cropSize}, out.Shape())
	for _, v := range out.Data() {
		require.Equal(t, float32(0), v)
	}
}
