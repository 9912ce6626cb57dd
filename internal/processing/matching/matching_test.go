package matching

import (
	"testing"

	"color-transfer/internal/models"
	"color-transfer/internal/processing/histogram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cdfOf(t *testing.T, samples []uint8, bins int) histogram.CDF {
	t.Helper()
	h, err := histogram.Build(samples, bins)
	require.NoError(t, err)
	return h.CDF()
}

func solid(level uint8, n int) []uint8 {
	out := make([]uint8, n)
	for i := range out {
		out[i] = level
	}
	return out
}

func ramp() []uint8 {
	out := make([]uint8, 256)
	for i := range out {
		out[i] = uint8(i)
	}
	return out
}

func TestValidateDamping(t *testing.T) {
	assert.NoError(t, ValidateDamping(1))
	assert.NoError(t, ValidateDamping(0.01))
	for _, d := range []float64{0, -0.5, 1.2, 1.0000001} {
		assert.ErrorIs(t, ValidateDamping(d), models.ErrInvalidArgument, "d=%v", d)
	}
}

func TestMatchDistributionRejectsBadInput(t *testing.T) {
	cdf := cdfOf(t, ramp(), 32)

	_, err := MatchDistribution(cdf, cdf, 0)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = MatchDistribution(cdf, cdf[:16], 0.5)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = MatchDistribution(nil, nil, 0.5)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestMatchDistributionFullShift(t *testing.T) {
	source := cdfOf(t, solid(50, 10), 256)
	target := cdfOf(t, solid(200, 10), 256)

	table, err := MatchDistribution(source, target, 1)
	require.NoError(t, err)
	assert.Equal(t, uint8(200), table[50])

	table, err = MatchDistribution(source, target, 0.5)
	require.NoError(t, err)
	assert.Equal(t, uint8(125), table[50])
}

func TestMatchDistributionTiesTowardLowerBin(t *testing.T) {
	source := histogram.CDF{0.5, 0.5, 0.5, 1}
	target := histogram.CDF{0, 0.5, 0.5, 1}

	table, err := MatchDistribution(source, target, 1)
	require.NoError(t, err)
	// Level 0 has p = 0.5; the first target bin reaching 0.5 is bin 1,
	// whose centre is 95.5.
	assert.Equal(t, uint8(96), table[0])
}

func TestMatchDistributionIdentityForEqualDistributions(t *testing.T) {
	cdf := cdfOf(t, ramp(), 256)
	table, err := MatchDistribution(cdf, cdf, 1)
	require.NoError(t, err)
	for level := range table {
		assert.Equal(t, uint8(level), table[level])
	}
}

func TestMatchDistributionOutputIsMonotone(t *testing.T) {
	src := make([]uint8, 0, 500)
	dst := make([]uint8, 0, 500)
	for i := 0; i < 500; i++ {
		src = append(src, uint8((i*i)%97))
		dst = append(dst, uint8(128+(i*7)%120))
	}

	for _, bins := range []int{4, 16, 32, 256} {
		table, err := MatchDistribution(cdfOf(t, src, bins), cdfOf(t, dst, bins), 0.7)
		require.NoError(t, err)
		for level := 1; level < len(table); level++ {
			assert.GreaterOrEqual(t, table[level], table[level-1], "bins=%d level=%d", bins, level)
		}
	}
}

func TestApply(t *testing.T) {
	var table [histogram.Levels]uint8
	for i := range table {
		table[i] = uint8(255 - i)
	}
	samples := []uint8{0, 10, 255}
	Apply(&table, samples)
	assert.Equal(t, []uint8{255, 245, 0}, samples)
}

func TestMatchDistributionBelowSourceSupport(t *testing.T) {
	var src, dst []uint8
	for v := 100; v <= 115; v++ {
		src = append(src, uint8(v))
		dst = append(dst, uint8(v+50))
	}
	source := cdfOf(t, src, 256)
	target := cdfOf(t, dst, 256)

	table, err := MatchDistribution(source, target, 1)
	require.NoError(t, err)

	// Levels with no source mass below them land on the darkest reference
	// level, not on black.
	assert.Equal(t, uint8(150), table[0])
	assert.Equal(t, uint8(150), table[85])
	assert.Equal(t, uint8(152), table[102])

	curve, err := NewCurve(source, target, 1)
	require.NoError(t, err)
	assert.InDelta(t, float64(table[85]), curve.Map(85), 1)
}
