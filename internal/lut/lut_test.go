package lut

import (
	"bytes"
	"strings"
	"testing"

	"color-transfer/internal/algorithms/colortransfer"
	"color-transfer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invertingLUT() *LUT {
	l := newLUT()
	for r := 0; r < Size; r++ {
		for g := 0; g < Size; g++ {
			for b := 0; b < Size; b++ {
				l.SetNode(r, g, b, [3]float64{
					1 - float64(r)/(Size-1),
					1 - float64(g)/(Size-1),
					1 - float64(b)/(Size-1),
				})
			}
		}
	}
	return l
}

func TestIdentityImageMatchesSampler(t *testing.T) {
	assert.Equal(t, colortransfer.SampleLUT(colortransfer.Identity()).Pix, Identity().Image().Pix)
}

func TestFromImageRoundTrip(t *testing.T) {
	img := colortransfer.SampleLUT(colortransfer.Identity())
	img.Pix[colortransfer.LUTOffset(2, 5, 9)] = 200

	l, err := FromImage(img)
	require.NoError(t, err)
	assert.InDelta(t, 200.0/255, l.Node(2, 5, 9)[0], 1e-12)
	assert.InDelta(t, 85.0/255, l.Node(2, 5, 9)[1], 1e-12)
	assert.Equal(t, img.Pix, l.Image().Pix)
}

func TestFromImageRejectsWrongShape(t *testing.T) {
	_, err := FromImage(models.NewImage(16, 16, models.PixelTypeRGBA8))
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = FromImage(models.NewImage(16, 256, models.PixelTypeRGB8))
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestLookupIsExactOnLinearLUTs(t *testing.T) {
	id := Identity()
	inv := invertingLUT()

	for _, c := range [][3]float64{{0, 0, 0}, {1, 1, 1}, {0.3, 0.7, 0.1}, {0.9, 0.2, 0.55}, {0.5, 0.5, 0.5}, {0.12, 0.12, 0.8}} {
		got := id.Lookup(c[0], c[1], c[2])
		inverted := inv.Lookup(c[0], c[1], c[2])
		for i := 0; i < 3; i++ {
			assert.InDelta(t, c[i], got[i], 1e-12)
			assert.InDelta(t, 1-c[i], inverted[i], 1e-12)
		}
	}
}

func TestLookupClampsOutOfRange(t *testing.T) {
	got := Identity().Lookup(-0.5, 1.5, 0.5)
	assert.InDelta(t, 0, got[0], 1e-12)
	assert.InDelta(t, 1, got[1], 1e-12)
	assert.InDelta(t, 0.5, got[2], 1e-12)
}

func TestLookupHitsNodesExactly(t *testing.T) {
	l := invertingLUT()
	l.SetNode(4, 8, 12, [3]float64{0.25, 0.5, 0.75})
	got := l.Lookup(4.0/15, 8.0/15, 12.0/15)
	assert.InDelta(t, 0.25, got[0], 1e-9)
	assert.InDelta(t, 0.5, got[1], 1e-9)
	assert.InDelta(t, 0.75, got[2], 1e-9)
}

func TestApply(t *testing.T) {
	img := &models.Image{Width: 2, Height: 1, Type: models.PixelTypeRGBA8, Pix: []uint8{0, 128, 255, 7, 10, 20, 30, 200}}

	same, err := Identity().Apply(img)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, same.Pix)

	inverted, err := invertingLUT().Apply(img)
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 127, 0, 7, 245, 235, 225, 200}, inverted.Pix)

	rgb := &models.Image{Width: 1, Height: 1, Type: models.PixelTypeRGB8, Pix: []uint8{1, 2, 3}}
	out, err := invertingLUT().Apply(rgb)
	require.NoError(t, err)
	assert.Equal(t, []uint8{254, 253, 252}, out.Pix)

	_, err = Identity().Apply(models.NewImage(2, 2, models.PixelTypeGray8))
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestCubeRoundTrip(t *testing.T) {
	src := invertingLUT()
	src.SetNode(1, 2, 3, [3]float64{0.123456, 0.5, 0.999999})

	var buf bytes.Buffer
	require.NoError(t, src.WriteCube(&buf, "graded"))

	text := buf.String()
	assert.True(t, strings.HasPrefix(text, "TITLE \"graded\"\nLUT_3D_SIZE 16\n"))
	assert.Equal(t, 4+Size*Size*Size, strings.Count(text, "\n"))

	// Red varies fastest: the second data line is node (1, 0, 0).
	lines := strings.Split(text, "\n")
	assert.Equal(t, "0.933333 1.000000 1.000000", lines[5])

	parsed, err := ReadCube(&buf)
	require.NoError(t, err)
	for r := 0; r < Size; r++ {
		for g := 0; g < Size; g++ {
			for b := 0; b < Size; b++ {
				want, got := src.Node(r, g, b), parsed.Node(r, g, b)
				for i := 0; i < 3; i++ {
					require.InDelta(t, want[i], got[i], 1e-6)
				}
			}
		}
	}
}

func TestReadCubeErrors(t *testing.T) {
	tests := map[string]string{
		"wrong size":      "LUT_3D_SIZE 33\n",
		"1d":              "LUT_1D_SIZE 16\n",
		"no header":       "0 0 0\n",
		"short":           "LUT_3D_SIZE 16\n0 0 0\n",
		"bad value":       "LUT_3D_SIZE 16\n0 x 0\n",
		"bad domain":      "LUT_3D_SIZE 16\nDOMAIN_MAX 2.0 2.0 2.0\n",
		"too many fields": "LUT_3D_SIZE 16\n0 0 0 0\n",
	}

	for name, input := range tests {
		_, err := ReadCube(strings.NewReader(input))
		assert.Error(t, err, name)
	}
}
