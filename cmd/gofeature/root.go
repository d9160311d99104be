package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gofeature/gofeature/internal/config"
	"github.com/gofeature/gofeature/internal/iohelp"
	"github.com/gofeature/gofeature/internal/layer"
	"github.com/gofeature/gofeature/internal/metrics"
	"github.com/gofeature/gofeature/internal/pipeline"
	"github.com/gofeature/gofeature/internal/preprocess"
	"github.com/gofeature/gofeature/internal/tensor"
	"github.com/gofeature/gofeature/internal/telemetry"
	"github.com/gofeature/gofeature/internal/weights"
	"github.com/gofeature/gofeature/internal/workpool"
)

var cfgFile string

// NewRootCmd builds the single gofeature command: unlike go-pocket-tts
// this engine has no subcommands, mirroring the reference tool's flat
// getopt-style CLI.
func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "gofeature [flags] FILE...",
		Short: "Extract and optionally reduce AlexNet-shaped features",
		Long: "gofeature forwards a batch of images through an AlexNet-shaped\n" +
			"feature extractor and an optional PCA reducer, or reduces an\n" +
			"already-extracted raw feature file when run with --pca alone.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log := telemetry.NewStderr(cfg.Verbose)
			return run(cfg, args, log)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.Flags(), defaults)
	return cmd
}

// run dispatches to one of the two mutually exclusive flows the
// reference engine supports: extracting features from images (with an
// optional reducer), or reducing a pre-extracted raw feature file.
func run(cfg config.Config, args []string, log telemetry.Logger) error {
	pool := workpool.New(cfg.Threads)
	defer pool.Close()

	recorder := metrics.NewRecorder()
	out, closeOut, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}
	defer closeOut()
	sink := iohelp.NewSink(cfg.Binary)

	if cfg.AlexNet != "" {
		err = runExtract(cfg, args, pool, log, recorder, sink, out)
	} else {
		err = runReduceOnly(cfg, args, pool, log, recorder, sink, out)
	}
	if err != nil {
		return err
	}

	if cfg.Verbose {
		if err := metrics.WriteReport(os.Stderr, recorder.Summarize()); err != nil {
			return fmt.Errorf("gofeature: writing report: %w", err)
		}
	}
	return nil
}

// runExtract loads the AlexNet-shaped network (and reducer, when
// configured), then batches args as image paths through the pipeline.
func runExtract(cfg config.Config, args []string, pool *workpool.Pool, log telemetry.Logger, recorder *metrics.Recorder, sink iohelp.Sink, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("gofeature: no input images given")
	}

	stage := telemetry.StartStage(log, "load alexnet weights")
	feature, err := loadAlexNet(cfg.AlexNet, cfg.Arch)
	stage.Done()
	if err != nil {
		return err
	}

	var reducer layer.Layer
	if cfg.PCA != "" {
		stage := telemetry.StartStage(log, "load pca weights")
		reducer, _, err = loadReducer(cfg.PCA)
		stage.Done()
		if err != nil {
			return err
		}
	}

	driver := &pipeline.Driver{
		Loader:    preprocess.NewLoader(log),
		Feature:   feature,
		Reducer:   reducer,
		Pool:      pool,
		BatchSize: cfg.BatchSize,
		Log:       log,
		OnBatch:   recorder.Record,
	}
	return driver.Run(args, func(result *tensor.Tensor[float32]) error {
		return sink.Write(out, result)
	})
}

// runReduceOnly implements the "Y -> Z" flow: args[0] names a raw
// feature file, and cfg.PCA names the reducer's weight file.
func runReduceOnly(cfg config.Config, args []string, pool *workpool.Pool, log telemetry.Logger, recorder *metrics.Recorder, sink iohelp.Sink, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("gofeature: reducer-only mode requires exactly one raw feature file, got %d", len(args))
	}

	stage := telemetry.StartStage(log, "load pca weights")
	reducer, _, err := loadReducer(cfg.PCA)
	stage.Done()
	if err != nil {
		return err
	}

	dataFile, dataSize, err := openSized(args[0])
	if err != nil {
		return err
	}
	defer dataFile.Close()

	sample, err := iohelp.ReadRawFeatures(dataFile, dataSize)
	if err != nil {
		return err
	}

	batchStage := telemetry.StartStage(log, "reduce raw features")
	result, err := pipeline.RunRawFeatures(reducer, sample, pool)
	elapsed := batchStage.Done()
	if err != nil {
		return fmt.Errorf("gofeature: %w", err)
	}
	recorder.Record(result.Shape()[0], elapsed)
	return sink.Write(out, result)
}

// loadAlexNet loads the feature extractor's weights from path. When
// archPath is set, the network shape is built from that YAML
// description instead of the built-in AlexNet shape, and the weight
// file's size is not checked against the fixed AlexNet byte count.
func loadAlexNet(path, archPath string) (layer.Sequence, error) {
	f, size, err := openSized(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if archPath == "" {
		return weights.LoadAlexNet(f, size)
	}

	archFile, err := os.Open(archPath)
	if err != nil {
		return nil, fmt.Errorf("gofeature: %w", err)
	}
	defer archFile.Close()

	spec, err := weights.ParseArch(archFile)
	if err != nil {
		return nil, err
	}
	net, err := spec.Build()
	if err != nil {
		return nil, err
	}
	if err := net.Load(f); err != nil {
		return nil, fmt.Errorf("weights: loading %s: %w", spec.Name, err)
	}
	return net, nil
}

func loadReducer(path string) (layer.Sequence, int, error) {
	f, size, err := openSized(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return weights.LoadReducer(f, size)
}

func openSized(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("gofeature: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("gofeature: %w", err)
	}
	return f, info.Size(), nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("gofeature: %w", err)
	}
	return f, func() { f.Close() }, nil
}
