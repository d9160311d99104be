// Package pipeline implements the top-level loop that batches inputs,
// runs them through the composed network, and hands each batch's
// result to a sink.
package pipeline

import (
	"fmt"
	"time"

	"github.com/gofeature/gofeature/internal/layer"
	"github.com/gofeature/gofeature/internal/preprocess"
	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/telemetry"
	"github.com/gofeature/gofeature/internal/workpool"
)

// BatchResultFunc receives one batch's output tensor, in the order
// batches were submitted.
type BatchResultFunc func(result *tensor.Tensor[float32]) error

// Driver batches image paths, runs them through the feature network
// and optional reducer, and delivers each batch's result.
type Driver struct {
	Loader    preprocess.Loader
	Feature   layer.Layer
	Reducer   layer.Layer // nil when no reducer is configured
	Pool      *workpool.Pool
	BatchSize int
	Log       telemetry.Logger

	// OnBatch, when set, is called after each batch completes with the
	// sample count and wall time spent in runBatch. Used to feed
	// internal/metrics without coupling Driver to it.
	OnBatch func(samples int, elapsed time.Duration)
}

// Run splits paths into Driver.BatchSize chunks, loads and forwards
// each one, and calls onResult with every batch's output in order.
func (d *Driver) Run(paths []string, onResult BatchResultFunc) error {
	if d.BatchSize <= 0 {
		return fmt.Errorf("pipeline: batch size must be positive, got %d", d.BatchSize)
	}
	total := len(paths)
	for i := 0; i < total; i += d.BatchSize {
		end := i + d.BatchSize
		if end > total {
			end = total
		}
		batch := paths[i:end]

		stage := telemetry.StartStage(d.Log, fmt.Sprintf("batch %d-%d", i, end))
		result, err := d.runBatch(batch)
		elapsed := stage.Done()
		if err != nil {
			return fmt.Errorf("pipeline: batch %d-%d: %w", i, end, err)
		}
		if d.OnBatch != nil {
			d.OnBatch(len(batch), elapsed)
		}
		if err := onResult(result); err != nil {
			return fmt.Errorf("pipeline: batch %d-%d: writing result: %w", i, end, err)
		}
	}
	return nil
}

func (d *Driver) runBatch(paths []string) (*tensor.Tensor[float32], error) {
	sample, err := d.Loader.Load(paths, d.Pool)
	if err != nil {
		return nil, fmt.Errorf("loading samples: %w", err)
	}
	sample, err = d.Feature.Forward(sample, d.Pool)
	if err != nil {
		return nil, fmt.Errorf("feature forward: %w", err)
	}
	if d.Reducer != nil {
		sample, err = d.Reducer.Forward(sample, d.Pool)
		if err != nil {
			return nil, fmt.Errorf("reducer forward: %w", err)
		}
	}
	return sample, nil
}

// RunRawFeatures forwards a single pre-extracted feature tensor through
// the reducer only — the "Y -> Z" flow used when no feature network is
// configured.
func RunRawFeatures(reducer layer.Layer, sample *tensor.Tensor[float32], pool *workpool.Pool) (*tensor.Tensor[float32], error) {
	result, err := reducer.Forward(sample, pool)
	if err != nil {
		return nil, fmt.Errorf("pipeline: reducer forward: %w", err)
	}
	return result, nil
}
