package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"color-transfer/internal/algorithms/colortransfer"
	"color-transfer/internal/algorithms/histmatch"
	"color-transfer/internal/models"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, colortransfer.DefaultParameters(), cfg.Parameters())
	assert.Equal(t, 512*512, cfg.Transfer.MaxPixels)
	assert.Equal(t, 128, cfg.Mask.Threshold)
}

func TestDecodeOverlaysDefaults(t *testing.T) {
	doc := `
[transfer]
iterations = 25
damping_factor = 0.8

[log]
level = "debug"
json = true
`
	cfg, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Transfer.Iterations)
	assert.Equal(t, 0.8, cfg.Transfer.DampingFactor)
	assert.Equal(t, colortransfer.DefaultHistogramBins, cfg.Transfer.HistogramBins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "[transfer]\nspeed = 3\n"},
		{"iterations out of range", "[transfer]\niterations = 51\n"},
		{"damping zero", "[transfer]\ndamping_factor = 0.0\n"},
		{"bins", "[transfer]\nhistogram_bins = 3\n"},
		{"threshold", "[mask]\nthreshold = 300\n"},
		{"workers", "[service]\nworkers = -1\n"},
		{"erode", "[mask.cleanup]\nerode = 100\n"},
		{"feather", "[mask.cleanup]\nfeather = -1.0\n"},
		{"algorithm", "[transfer]\nalgorithm = \"random\"\n"},
		{"log level", "[log]\nlevel = \"loud\"\n"},
		{"syntax", "[transfer\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}

	_, err := Decode(strings.NewReader("[transfer]\niterations = 0\n"))
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "color-transfer.toml")
	require.NoError(t, os.WriteFile(path, []byte("[mask]\nthreshold = 10\n"), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Mask.Threshold)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Transfer.Algorithm = AlgorithmPerChannel
	cfg.Service.Workers = 3

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, decoded)
}

func TestAlgorithmSelection(t *testing.T) {
	cfg := Default()
	name, err := cfg.AlgorithmName()
	require.NoError(t, err)
	assert.Equal(t, colortransfer.AlgorithmName, name)
	assert.Contains(t, cfg.AlgorithmParameters(), "iterations")

	cfg.Transfer.Algorithm = "Per-Channel"
	name, err = cfg.AlgorithmName()
	require.NoError(t, err)
	assert.Equal(t, histmatch.AlgorithmName, name)
	assert.NotContains(t, cfg.AlgorithmParameters(), "iterations")
}

func TestDecodeMaskCleanup(t *testing.T) {
	cfg, err := Decode(strings.NewReader("[mask]\nauto = true\n[mask.cleanup]\ncleanup = true\nerode = 2\nfeather = 1.5\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Mask.Auto)
	assert.True(t, cfg.Mask.Cleanup.Enabled())
	assert.Equal(t, 2, cfg.Mask.Cleanup.Erode)
	assert.Equal(t, 1.5, cfg.Mask.Cleanup.Feather)
	assert.Equal(t, 128, cfg.Mask.Threshold)
}
