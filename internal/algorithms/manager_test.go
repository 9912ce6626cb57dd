package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"color-transfer/internal/algorithms/colortransfer"
	"color-transfer/internal/algorithms/histmatch"
	"color-transfer/internal/models"
)

func TestManagerRegistersAlgorithms(t *testing.T) {
	m := NewManager()

	assert.Equal(t, []string{colortransfer.AlgorithmName, histmatch.AlgorithmName}, m.GetAvailableAlgorithms())
	assert.Equal(t, colortransfer.AlgorithmName, m.GetCurrentAlgorithm())

	alg, err := m.GetAlgorithm(histmatch.AlgorithmName)
	require.NoError(t, err)
	assert.Equal(t, histmatch.AlgorithmName, alg.GetName())

	_, err = m.GetAlgorithm("2D Otsu")
	assert.Error(t, err)
}

func TestManagerParameters(t *testing.T) {
	m := NewManager()

	params := m.GetParameters(colortransfer.AlgorithmName)
	assert.Equal(t, 10, params["iterations"])

	// The returned map is a copy.
	params["iterations"] = 1
	assert.Equal(t, 10, m.GetParameters(colortransfer.AlgorithmName)["iterations"])

	require.NoError(t, m.SetParameter(colortransfer.AlgorithmName, "iterations", 20))
	assert.Equal(t, 20, m.GetParameters(colortransfer.AlgorithmName)["iterations"])

	err := m.SetParameter(colortransfer.AlgorithmName, "iterations", 0)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	assert.Equal(t, 20, m.GetParameters(colortransfer.AlgorithmName)["iterations"])

	assert.Error(t, m.SetParameter("unknown", "iterations", 1))
	assert.Empty(t, m.GetParameters("unknown"))
}

func TestManagerSetCurrentAlgorithm(t *testing.T) {
	m := NewManager()

	require.NoError(t, m.SetCurrentAlgorithm(histmatch.AlgorithmName))
	assert.Equal(t, histmatch.AlgorithmName, m.GetCurrentAlgorithm())
	assert.Error(t, m.SetCurrentAlgorithm("missing"))
	assert.Equal(t, histmatch.AlgorithmName, m.GetCurrentAlgorithm())
}
