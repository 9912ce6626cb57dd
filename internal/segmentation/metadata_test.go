package segmentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataStrategy(t *testing.T) {
	m, err := ParseMetadata([]byte(testMetadata))
	require.NoError(t, err)

	s, err := m.Strategy("image", Size{Width: 16, Height: 16})
	require.NoError(t, err)
	assert.Equal(t, &ResizeStrategy{
		AddressMode:    AddressClampToZero,
		Padding:        PaddingZero,
		Interpolation:  InterpolationNearest,
		Scaling:        ScalingAspectFit,
		SupportedSizes: []Size{{Width: 8, Height: 8}},
	}, s)
}

func TestMetadataDefaultSize(t *testing.T) {
	doc := `{"inputs_metadata": {"in": {"resize_strategy": {"addressMode": "ClampToEdge",
  "padding": "FromSource", "interpolation": "Bilinear", "mode": "AspectFill"}, "input_sizes": []}}}`

	m, err := ParseMetadata([]byte(doc))
	require.NoError(t, err)

	s, err := m.Strategy("in", Size{Width: 320, Height: 240})
	require.NoError(t, err)
	assert.Equal(t, []Size{{Width: 320, Height: 240}}, s.SupportedSizes)
	assert.Equal(t, AddressClampToEdge, s.AddressMode)
	assert.Equal(t, PaddingFromSource, s.Padding)
	assert.Equal(t, InterpolationBilinear, s.Interpolation)
	assert.Equal(t, ScalingAspectFill, s.Scaling)
}

func TestMetadataErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		message string
	}{
		{
			name:    "unknown address mode",
			doc:     `{"inputs_metadata": {"in": {"resize_strategy": {"addressMode": "Mirror", "padding": "Zero", "interpolation": "Bilinear", "mode": "AspectFit"}}}}`,
			message: "address mode 'Mirror' is not supported",
		},
		{
			name:    "unknown padding",
			doc:     `{"inputs_metadata": {"in": {"resize_strategy": {"addressMode": "ClampToEdge", "padding": "Reflect", "interpolation": "Bilinear", "mode": "AspectFit"}}}}`,
			message: "padding mode 'Reflect' is not supported",
		},
		{
			name:    "unknown interpolation",
			doc:     `{"inputs_metadata": {"in": {"resize_strategy": {"addressMode": "ClampToEdge", "padding": "Zero", "interpolation": "Cubic", "mode": "AspectFit"}}}}`,
			message: "interpolation 'Cubic' is not supported",
		},
		{
			name:    "unknown mode",
			doc:     `{"inputs_metadata": {"in": {"resize_strategy": {"addressMode": "ClampToEdge", "padding": "Zero", "interpolation": "Bilinear", "mode": "Stretch"}}}}`,
			message: "scaling mode 'Stretch' is not supported",
		},
		{
			name:    "malformed size",
			doc:     `{"inputs_metadata": {"in": {"resize_strategy": {"addressMode": "ClampToEdge", "padding": "Zero", "interpolation": "Bilinear", "mode": "AspectFit"}, "input_sizes": [[8]]}}}`,
			message: "positive [width, height] pair",
		},
		{
			name:    "missing input",
			doc:     `{"inputs_metadata": {"other": {}}}`,
			message: "no entry for input 'in'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMetadata([]byte(tt.doc))
			require.NoError(t, err)
			_, err = m.Strategy("in", Size{Width: 8, Height: 8})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseMetadataInvalid(t *testing.T) {
	_, err := ParseMetadata([]byte(`{"inputs_metadata": [`))
	assert.Error(t, err)
}

func TestSelectComputeUnit(t *testing.T) {
	gpuHost := StaticCapabilities{ComputeUnitGPU, ComputeUnitCPU}

	tests := []struct {
		name      string
		requested ComputeUnit
		caps      CapabilityProvider
		want      ComputeUnit
	}{
		{"cpu requested", ComputeUnitCPU, gpuHost, ComputeUnitCPU},
		{"gpu available", ComputeUnitGPU, gpuHost, ComputeUnitGPU},
		{"gpu unavailable", ComputeUnitGPU, CPUOnly, ComputeUnitCPU},
		{"any on gpu host", ComputeUnitDoNotCare, gpuHost, ComputeUnitGPU},
		{"any on cpu host", ComputeUnitDoNotCare, CPUOnly, ComputeUnitCPU},
		{"cpu ranked first", ComputeUnitDoNotCare, StaticCapabilities{ComputeUnitCPU, ComputeUnitGPU}, ComputeUnitCPU},
		{"no capabilities", ComputeUnitGPU, nil, ComputeUnitCPU},
		{"empty capabilities", ComputeUnitDoNotCare, StaticCapabilities{}, ComputeUnitCPU},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectComputeUnit(tt.requested, tt.caps))
		})
	}
}

func TestParseComputeUnit(t *testing.T) {
	u, err := ParseComputeUnit("GPU")
	require.NoError(t, err)
	assert.Equal(t, ComputeUnitGPU, u)

	u, err = ParseComputeUnit("")
	require.NoError(t, err)
	assert.Equal(t, ComputeUnitDoNotCare, u)

	_, err = ParseComputeUnit("tpu")
	assert.Error(t, err)
}
