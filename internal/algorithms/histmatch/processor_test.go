package histmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"color-transfer/internal/algorithms/colortransfer"
	"color-transfer/internal/models"
)

func gradient(offset int) *models.Image {
	img := models.NewImage(64, 4, models.PixelTypeRGBA8)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			v := uint8(min(x*2+offset, 255))
			copy(img.At(x, y), []uint8{v, v, v, 255})
		}
	}
	return img
}

func TestGenerateLUTShiftsTowardReference(t *testing.T) {
	p := NewProcessor()

	result, err := p.GenerateLUT(gradient(0), gradient(100), nil)
	require.NoError(t, err)
	assert.Equal(t, AlgorithmName, result.Algorithm)
	assert.False(t, result.Degenerate)
	require.Equal(t, colortransfer.LUTWidth, result.LUT.Width)
	require.Equal(t, colortransfer.LUTHeight, result.LUT.Height)

	// Darkest input maps near the darkest reference value.
	black := result.LUT.Pix[colortransfer.LUTOffset(0, 0, 0):]
	assert.InDelta(t, 100, float64(black[0]), 2)
	assert.Equal(t, black[0], black[1])
	assert.Equal(t, black[0], black[2])
	assert.Equal(t, uint8(255), black[3])
}

func TestGenerateLUTChannelsAreIndependent(t *testing.T) {
	p := NewProcessor()
	result, err := p.GenerateLUT(gradient(0), gradient(50), nil)
	require.NoError(t, err)

	// Changing g and b must not affect the red output.
	for g := 0; g < colortransfer.GridSize; g++ {
		for b := 0; b < colortransfer.GridSize; b++ {
			assert.Equal(t,
				result.LUT.Pix[colortransfer.LUTOffset(5, 0, 0)],
				result.LUT.Pix[colortransfer.LUTOffset(5, g, b)])
		}
	}
}

func TestGenerateLUTEmptyIsIdentity(t *testing.T) {
	p := NewProcessor()
	empty := models.NewImage(0, 0, models.PixelTypeRGBA8)

	result, err := p.GenerateLUT(empty, gradient(0), nil)
	require.NoError(t, err)
	assert.True(t, result.Degenerate)
	assert.Equal(t, colortransfer.SampleLUT(colortransfer.Identity()).Pix, result.LUT.Pix)
}

func TestParameterValidation(t *testing.T) {
	p := NewProcessor()

	assert.Equal(t, map[string]interface{}{"damping_factor": 1.0, "histogram_bins": 256}, p.GetDefaultParameters())
	assert.NoError(t, p.ValidateParameters(map[string]interface{}{"histogram_bins": 4}))
	assert.ErrorIs(t, p.ValidateParameters(map[string]interface{}{"histogram_bins": 3}), models.ErrInvalidArgument)
	assert.ErrorIs(t, p.ValidateParameters(map[string]interface{}{"damping_factor": 1.5}), models.ErrInvalidArgument)

	_, err := p.GenerateLUT(gradient(0), gradient(0), map[string]interface{}{"damping_factor": 0})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = p.GenerateLUT(models.NewImage(2, 2, models.PixelTypeGray8), gradient(0), nil)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func narrowBand(lo uint8) *models.Image {
	img := models.NewImage(16, 1, models.PixelTypeRGBA8)
	for x := 0; x < 16; x++ {
		v := lo + uint8(x)
		copy(img.At(x, 0), []uint8{v, v, v, 255})
	}
	return img
}

func TestGenerateLUTDarkNodesFollowReference(t *testing.T) {
	p := NewProcessor()

	result, err := p.GenerateLUT(narrowBand(100), narrowBand(150), nil)
	require.NoError(t, err)

	// Node 5 (level 85) sits below every input sample.
	dark := result.LUT.Pix[colortransfer.LUTOffset(5, 5, 5):]
	assert.Equal(t, []uint8{150, 150, 150}, dark[:3])

	// Node 6 (level 102) is inside the input band.
	mid := result.LUT.Pix[colortransfer.LUTOffset(6, 6, 6):]
	assert.Equal(t, []uint8{152, 152, 152}, mid[:3])
}
