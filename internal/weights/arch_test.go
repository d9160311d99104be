package weights

import (
	"bytes"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/stretchr/testify/require"
)

func TestDescribeAlexNetBuildsEighteenLayers(t *testing.T) {
	seq, err := DescribeAlexNet().Build()
	require.NoError(t, err)
	require.Len(t, seq, 18)
}

func TestParseArchRoundTripsThroughYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, yaml.NewEncoder(&buf).Encode(DescribeAlexNet()))

	spec, err := ParseArch(&buf)
	require.NoError(t, err)
	require.Equal(t, "alexnet", spec.Name)
	require.Len(t, spec.Layers, 18)

	seq, err := spec.Build()
	require.NoError(t, err)
	require.Len(t, seq, 18)
}

func TestBuildRejectsUnknownLayerType(t *testing.T) {
	spec := ArchSpec{Layers: []LayerSpec{{Type: "not-a-layer"}}}
	_, err := spec.Build()
	require.Error(t, err)
}

func TestParseArchRejectsMalformedYAML(t *testing.T) {
	_, err := ParseArch(bytes.NewReader([]byte("not: [valid yaml")))
	require.Error(t, err)
}
