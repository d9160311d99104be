package weights

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gofeature/gofeature/internal/layer"
)

// LayerSpec describes one layer in a YAML architecture file: enough
// fields to construct any of the engine's layer types, with the
// irrelevant ones left at their zero value.
type LayerSpec struct {
	Type        string `yaml:"type"`
	InChannels  int    `yaml:"in_channels,omitempty"`
	OutChannels int    `yaml:"out_channels,omitempty"`
	Kernel      int    `yaml:"kernel,omitempty"`
	Stride      int    `yaml:"stride,omitempty"`
	Padding     int    `yaml:"padding,omitempty"`
	Bias        bool   `yaml:"bias,omitempty"`
	InFeatures  int    `yaml:"in_features,omitempty"`
	OutFeatures int    `yaml:"out_features,omitempty"`
	Size        int    `yaml:"size,omitempty"`
}

// ArchSpec is a named sequence of LayerSpec entries — a human-editable
// description of a feature-extractor architecture, independent of the
// binary weight file it's later loaded from. This lets the CLI's
// --arch flag point at a network shape other than the built-in
// AlexNet-shaped one without a code change.
type ArchSpec struct {
	Name   string      `yaml:"name"`
	Layers []LayerSpec `yaml:"layers"`
}

// ParseArch decodes an ArchSpec from YAML.
func ParseArch(r io.Reader) (ArchSpec, error) {
	var spec ArchSpec
	if err := yaml.NewDecoder(r).Decode(&spec); err != nil {
		return ArchSpec{}, fmt.Errorf("weights: parsing architecture: %w", err)
	}
	return spec, nil
}

// Build constructs the unloaded layer.Sequence spec describes, in
// order. Layer parameters are taken verbatim from each LayerSpec; no
// attempt is made to infer one layer's input size from the previous
// layer's output.
func (spec ArchSpec) Build() (layer.Sequence, error) {
	seq := make(layer.Sequence, 0, len(spec.Layers))
	for i, l := range spec.Layers {
		built, err := l.build()
		if err != nil {
			return nil, fmt.Errorf("weights: architecture %q, layer %d: %w", spec.Name, i, err)
		}
		seq = append(seq, built)
	}
	return seq, nil
}

func (l LayerSpec) build() (layer.Layer, error) {
	switch l.Type {
	case "conv2d":
		return layer.NewConv2D(l.InChannels, l.OutChannels, l.Kernel, l.Stride, l.Padding, l.Bias), nil
	case "maxpool2d":
		return layer.NewMaxPool2D(l.Kernel, l.Stride, l.Padding), nil
	case "linear":
		return layer.NewLinear(l.InFeatures, l.OutFeatures, l.Bias), nil
	case "relu":
		return layer.NewReLU(), nil
	case "bias":
		return layer.NewBias(l.Size), nil
	case "reshape":
		return layer.NewReshape(l.Size), nil
	default:
		return nil, fmt.Errorf("unknown layer type %q", l.Type)
	}
}

// DescribeAlexNet returns the ArchSpec equivalent to NewAlexNet, so the
// built-in architecture can be dumped to YAML as a starting point for a
// custom one.
func DescribeAlexNet() ArchSpec {
	return ArchSpec{
		Name: "alexnet",
		Layers: []LayerSpec{
			{Type: "conv2d", InChannels: 3, OutChannels: 64, Kernel: 11, Stride: 4, Padding: 2, Bias: true},
			{Type: "relu"},
			{Type: "maxpool2d", Kernel: 3, Stride: 2},
			{Type: "conv2d", InChannels: 64, OutChannels: 192, Kernel: 5, Stride: 1, Padding: 2, Bias: true},
			{Type: "relu"},
			{Type: "maxpool2d", Kernel: 3, Stride: 2},
			{Type: "conv2d", InChannels: 192, OutChannels: 384, Kernel: 3, Stride: 1, Padding: 1, Bias: true},
			{Type: "relu"},
			{Type: "conv2d", InChannels: 384, OutChannels: 256, Kernel: 3, Stride: 1, Padding: 1, Bias: true},
			{Type: "relu"},
			{Type: "conv2d", InChannels: 256, OutChannels: 256, Kernel: 3, Stride: 1, Padding: 1, Bias: true},
			{Type: "relu"},
			{Type: "maxpool2d", Kernel: 3, Stride: 2},
			{Type: "reshape", Size: 256 * 6 * 6},
			{Type: "linear", InFeatures: 256 * 6 * 6, OutFeatures: featuresPerFile, Bias: true},
			{Type: "relu"},
			{Type: "linear", InFeatures: featuresPerFile, OutFeatures: featuresPerFile, Bias: true},
			{Type: "relu"},
		},
	}
}
