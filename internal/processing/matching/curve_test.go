package matching

import (
	"testing"

	"color-transfer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurveValidates(t *testing.T) {
	cdf := cdfOf(t, ramp(), 32)

	_, err := NewCurve(cdf, cdf, 0)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = NewCurve(cdf, cdf[:8], 0.5)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	c, err := NewCurve(cdf, cdf, 1)
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestCurveIdentityOnUniform(t *testing.T) {
	cdf := cdfOf(t, ramp(), 256)
	c, err := NewCurve(cdf, cdf, 1)
	require.NoError(t, err)

	for _, level := range []float64{0, 1, 17.25, 128, 200.5, 255} {
		assert.InDelta(t, level, c.Map(level), 1e-9, "level=%v", level)
	}
}

func TestCurveShiftsSolidDistribution(t *testing.T) {
	c, err := NewCurve(cdfOf(t, solid(50, 20), 256), cdfOf(t, solid(200, 20), 256), 1)
	require.NoError(t, err)
	assert.InDelta(t, 200, c.Matched(50), 1e-9)

	damped, err := NewCurve(cdfOf(t, solid(50, 20), 256), cdfOf(t, solid(200, 20), 256), 0.25)
	require.NoError(t, err)
	assert.InDelta(t, 0.75*50+0.25*200, damped.Map(50), 1e-9)
}

func TestCurveSaturatesOutsideRange(t *testing.T) {
	c, err := NewCurve(cdfOf(t, ramp(), 32), cdfOf(t, solid(100, 5), 32), 1)
	require.NoError(t, err)

	low := c.Matched(-40)
	high := c.Matched(400)
	assert.GreaterOrEqual(t, low, 0.0)
	assert.LessOrEqual(t, high, 255.0)
	assert.LessOrEqual(t, low, high)
}

func TestCurveIsMonotone(t *testing.T) {
	src := make([]uint8, 0, 400)
	dst := make([]uint8, 0, 400)
	for i := 0; i < 400; i++ {
		src = append(src, uint8(i%64))
		dst = append(dst, uint8(255-(i*3)%90))
	}

	for _, bins := range []int{4, 32, 256} {
		c, err := NewCurve(cdfOf(t, src, bins), cdfOf(t, dst, bins), 0.6)
		require.NoError(t, err)

		prev := c.Map(-10)
		for level := -9.5; level <= 265; level += 0.5 {
			cur := c.Map(level)
			assert.GreaterOrEqual(t, cur+1e-9, prev, "bins=%d level=%v", bins, level)
			prev = cur
		}
	}
}

func TestCurveTableAgreesWithMap(t *testing.T) {
	c, err := NewCurve(cdfOf(t, ramp()[:128], 32), cdfOf(t, ramp()[128:], 32), 1)
	require.NoError(t, err)

	table := c.Table()
	for level := 0; level < 256; level += 15 {
		assert.InDelta(t, c.Map(float64(level)), float64(table[level]), 0.5+1e-9)
	}
}
