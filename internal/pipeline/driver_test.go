package pipeline

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/telemetry"
	"github.com/gofeature/gofeature/internal/workpool"
)

type fakeLoader struct {
	width int
}

func (f fakeLoader) Load(paths []string, pool *workpool.Pool) (*tensor.Tensor[float32], error) {
	return tensor.New[float32](len(paths), f.width), nil
}

type addOneLayer struct{}

func (addOneLayer) Load(io.Reader) error { return nil }

func (addOneLayer) Forward(x *tensor.Tensor[float32], pool *workpool.Pool) (*tensor.Tensor[float32], error) {
	for i := range x.Data() {
		x.Data()[i]++
	}
	return x, nil
}

func TestDriverRunBatchesAndForwards(t *testing.T) {
	pool := workpool.New(2)
	defer pool.Close()

	d := &Driver{
		Loader:    fakeLoader{width: 3},
		Feature:   addOneLayer{},
		Pool:      pool,
		BatchSize: 2,
		Log:       telemetry.New(io.Discard, false),
	}

	var results []*tensor.Tensor[float32]
	err := d.Run([]string{"a", "b", "c", "d", "e"}, func(result *tensor.Tensor[float32]) error {
		results = append(results, result)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, results, 3) // batches of 2, 2, 1
	require.Equal(t, []int{2, 3}, results[0].Shape())
	require.Equal(t, []int{1, 3}, results[2].Shape())
	for _, v := range results[0].Data() {
		require.Equal(t, float32(1), v)
	}
}

func TestDriverAppliesReducerWhenConfigured(t *testing.T) {
	pool := workpool.New(1)
	defer pool.Close()

	d := &Driver{
		Loader:    fakeLoader{width: 2},
		Feature:   addOneLayer{},
		Reducer:   addOneLayer{},
		Pool:      pool,
		BatchSize: 4,
		Log:       telemetry.New(io.Discard, false),
	}

	var got *tensor.Tensor[float32]
	err := d.Run([]string{"a"}, func(result *tensor.Tensor[float32]) error {
		got = result
		return nil
	})
	require.NoError(t, err)
	for _, v := range got.Data() {
		require.Equal(t, float32(2), v)
	}
}

func TestDriverRejectsNonPositiveBatchSize(t *testing.T) {
	d := &Driver{BatchSize: 0, Log: telemetry.New(io.Discard, false)}
	err := d.Run([]string{"a"}, func(*tensor.Tensor[float32]) error { return nil })
	require.Error(t, err)
}

func TestRunRawFeatures(t *testing.T) {
	pool := workpool.New(1)
	defer pool.Close()

	x := tensor.New[float32](2, 2)
	got, err := RunRawFeatures(addOneLayer{}, x, pool)
	require.NoError(t, err)
	for _, v := range got.Data() {
		require.Equal(t, float32(1), v)
	}
}
