package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSummarizeEmptyRecorder(t *testing.T) {
	r := NewRecorder()
	res := r.Summarize()
	require.Equal(t, 0, res.TotalSamples)
	require.Equal(t, 0, res.TotalBatches)
}

func TestSummarizeComputesAggregates(t *testing.T) {
	r := NewRecorder()
	r.Record(4, 100*time.Millisecond)
	r.Record(4, 300*time.Millisecond)

	res := r.Summarize()
	require.Equal(t, 8, res.TotalSamples)
	require.Equal(t, 2, res.TotalBatches)
	require.Equal(t, 400*time.Millisecond, res.TotalTime)
	require.Equal(t, 200*time.Millisecond, res.AverageTime)
	require.Equal(t, 100*time.Millisecond, res.MinTime)
	require.Equal(t, 300*time.Millisecond, res.MaxTime)
	require.InDelta(t, 20.0, res.ThroughputHz, 0.001)
}

func TestWriteReportIncludesThroughput(t *testing.T) {
	r := NewRecorder()
	r.Record(10, time.Second)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, r.Summarize()))
	require.Contains(t, buf.String(), "Throughput")
	require.Contains(t, buf.String(), "10.00")
}
