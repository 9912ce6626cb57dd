package mask

import (
	"testing"

	"color-transfer/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadrants() *models.Image {
	return &models.Image{
		Width:  2,
		Height: 2,
		Type:   models.PixelTypeRGBA8,
		Pix: []uint8{
			255, 0, 0, 255, 0, 255, 0, 255,
			0, 0, 255, 255, 255, 255, 0, 255,
		},
	}
}

func grayMask(width, height int, values ...uint8) *models.Image {
	return &models.Image{Width: width, Height: height, Type: models.PixelTypeGray8, Pix: values}
}

func TestExtractMaskedDiagonalQuadrants(t *testing.T) {
	got, err := ExtractMasked(quadrants(), grayMask(2, 2, 200, 0, 0, 200), 128)
	require.NoError(t, err)

	want := &models.Image{
		Width:  1,
		Height: 2,
		Type:   models.PixelTypeRGBA8,
		Pix:    []uint8{255, 0, 0, 255, 255, 255, 0, 255},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractMasked mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractMaskedThresholdIsInclusive(t *testing.T) {
	got, err := ExtractMasked(quadrants(), grayMask(2, 2, 127, 128, 129, 0), 128)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, []uint8{0, 255, 0, 255, 0, 0, 255, 255}, got.Pix)

	all, err := ExtractMasked(quadrants(), grayMask(2, 2, 0, 0, 0, 0), 0)
	require.NoError(t, err)
	assert.Equal(t, 4, all.Len())
	assert.Equal(t, quadrants().Pix, all.Pix)

	top, err := ExtractMasked(quadrants(), grayMask(2, 2, 255, 254, 255, 0), 255)
	require.NoError(t, err)
	assert.Equal(t, 2, top.Len())
}

func TestExtractMaskedEmptyKeepsType(t *testing.T) {
	for _, pixelType := range []models.PixelType{models.PixelTypeRGBA8, models.PixelTypeRGB8, models.PixelTypeGray8} {
		input := models.NewImage(3, 2, pixelType)
		got, err := ExtractMasked(input, models.NewImage(3, 2, models.PixelTypeGray8), 1)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Len())
		assert.Empty(t, got.Pix)
		assert.True(t, got.Empty())
		assert.Equal(t, pixelType, got.Type)
		assert.Equal(t, pixelType.Channels(), got.Channels())
	}
}

func TestExtractMaskedPreservesRowMajorOrder(t *testing.T) {
	input := models.NewImage(3, 3, models.PixelTypeGray8)
	for i := range input.Pix {
		input.Pix[i] = uint8(10 * i)
	}
	got, err := ExtractMasked(input, grayMask(3, 3, 9, 0, 9, 0, 9, 0, 9, 0, 9), 9)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 20, 40, 60, 80}, got.Pix)
	assert.Equal(t, models.PixelTypeGray8, got.Type)
}

func TestExtractMaskedRejectsBadArguments(t *testing.T) {
	tests := []struct {
		name      string
		mask      *models.Image
		threshold int
	}{
		{"size mismatch", grayMask(1, 2, 0, 0), 10},
		{"colour mask", &models.Image{Width: 2, Height: 2, Type: models.PixelTypeRGB8, Pix: make([]uint8, 12)}, 10},
		{"threshold below range", grayMask(2, 2, 0, 0, 0, 0), -1},
		{"threshold above range", grayMask(2, 2, 0, 0, 0, 0), 256},
		{"short buffer", grayMask(2, 2, 0, 0), 10},
		{"nil mask", nil, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractMasked(quadrants(), tt.mask, tt.threshold)
			assert.ErrorIs(t, err, models.ErrInvalidArgument)
		})
	}
}

func TestInputIsNotModified(t *testing.T) {
	input := quadrants()
	got, err := ExtractMasked(input, grayMask(2, 2, 255, 255, 255, 255), 0)
	require.NoError(t, err)

	got.Pix[0] = 1
	assert.Equal(t, uint8(255), input.Pix[0])
}

func TestCleanupOptions(t *testing.T) {
	assert.False(t, CleanupOptions{}.Enabled())
	assert.True(t, CleanupOptions{Erode: 1}.Enabled())
	assert.True(t, CleanupOptions{Feather: 0.5}.Enabled())
	assert.NoError(t, CleanupOptions{Cleanup: true, Erode: 64, Feather: 32}.Validate())

	for _, opts := range []CleanupOptions{{Erode: -1}, {Erode: 65}, {Feather: -0.1}, {Feather: 33}} {
		assert.ErrorIs(t, opts.Validate(), models.ErrInvalidArgument, "%+v", opts)
	}
}
