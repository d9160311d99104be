// Package metrics collects per-batch timing and renders a throughput
// report once a run completes — the inference-time counterpart of the
// gocnn-benchmark command's evaluation report, adapted from
// classification accuracy to forward-pass throughput since this engine
// has no classification head.
package metrics

import (
	"fmt"
	"io"
	"time"
)

// BatchStat records one batch's processed sample count and elapsed
// time.
type BatchStat struct {
	Samples int
	Elapsed time.Duration
}

// Recorder accumulates BatchStat entries across a run.
type Recorder struct {
	stats []BatchStat
}

// NewRecorder builds an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one batch's statistics.
func (r *Recorder) Record(samples int, elapsed time.Duration) {
	r.stats = append(r.stats, BatchStat{Samples: samples, Elapsed: elapsed})
}

// Result summarizes every recorded batch.
type Result struct {
	TotalSamples    int
	TotalBatches    int
	TotalTime       time.Duration
	AverageTime     time.Duration
	MinTime         time.Duration
	MaxTime         time.Duration
	ThroughputHz    float64 // samples per second
}

// Summarize computes Result from every batch recorded so far. An empty
// Recorder summarizes to the zero Result.
func (r *Recorder) Summarize() Result {
	var res Result
	if len(r.stats) == 0 {
		return res
	}
	res.TotalBatches = len(r.stats)
	res.MinTime = r.stats[0].Elapsed
	for _, s := range r.stats {
		res.TotalSamples += s.Samples
		res.TotalTime += s.Elapsed
		if s.Elapsed < res.MinTime {
			res.MinTime = s.Elapsed
		}
		if s.Elapsed > res.MaxTime {
			res.MaxTime = s.Elapsed
		}
	}
	res.AverageTime = res.TotalTime / time.Duration(res.TotalBatches)
	if res.TotalTime > 0 {
		res.ThroughputHz = float64(res.TotalSamples) / res.TotalTime.Seconds()
	}
	return res
}

// WriteReport renders a human-readable throughput report to w.
func WriteReport(w io.Writer, res Result) error {
	if _, err := fmt.Fprintf(w, "Forward pass throughput report\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "===============================\n\n"); err != nil {
		return err
	}
	rows := []struct {
		label string
		value any
	}{
		{"Total samples", res.TotalSamples},
		{"Total batches", res.TotalBatches},
		{"Total time", res.TotalTime},
		{"Average batch time", res.AverageTime},
		{"Min batch time", res.MinTime},
		{"Max batch time", res.MaxTime},
		{"Throughput (samples/s)", fmt.Sprintf("%.2f", res.ThroughputHz)},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "  %-24s %v\n", row.label, row.value); err != nil {
			return err
		}
	}
	return nil
}
