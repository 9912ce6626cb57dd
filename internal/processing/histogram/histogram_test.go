package histogram

import (
	"testing"

	"color-transfer/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRejectsBinsOutOfRange(t *testing.T) {
	for _, bins := range []int{0, 3, 257, 1024} {
		_, err := Build([]uint8{1, 2, 3}, bins)
		assert.ErrorIs(t, err, models.ErrInvalidArgument, "bins=%d", bins)
	}
	for _, bins := range []int{4, 32, 256} {
		_, err := Build([]uint8{1, 2, 3}, bins)
		assert.NoError(t, err, "bins=%d", bins)
	}
}

func TestBuildCountsSumToSamples(t *testing.T) {
	samples := make([]uint8, 0, 1000)
	for i := 0; i < 1000; i++ {
		samples = append(samples, uint8(i*37%256))
	}

	for _, bins := range []int{4, 7, 32, 100, 256} {
		h, err := Build(samples, bins)
		require.NoError(t, err)
		require.Len(t, h.Counts, bins)

		sum := 0.0
		for _, c := range h.Counts {
			assert.GreaterOrEqual(t, c, 0.0)
			sum += c
		}
		assert.Equal(t, float64(len(samples)), sum, "bins=%d", bins)
		assert.Equal(t, float64(len(samples)), h.Total)
	}
}

func TestBinOfProportionalEdges(t *testing.T) {
	// 256 / 3 is not integral: edges fall at 85.33 and 170.67.
	assert.Equal(t, 0, BinOf(85, 3))
	assert.Equal(t, 1, BinOf(86, 3))
	assert.Equal(t, 1, BinOf(170, 3))
	assert.Equal(t, 2, BinOf(171, 3))
	assert.Equal(t, 2, BinOf(255, 3))

	assert.Equal(t, 0, BinOf(7, 32))
	assert.Equal(t, 1, BinOf(8, 32))
	assert.Equal(t, 31, BinOf(255, 32))
	assert.Equal(t, 200, BinOf(200, 256))
}

func TestProportionalBinningIsUnbiased(t *testing.T) {
	// Every level once: with 100 bins each bin must receive 2 or 3 samples,
	// never an oversized last bin.
	samples := make([]uint8, 256)
	for i := range samples {
		samples[i] = uint8(i)
	}
	h, err := Build(samples, 100)
	require.NoError(t, err)
	for i, c := range h.Counts {
		assert.True(t, c == 2 || c == 3, "bin %d has %v", i, c)
	}
}

func TestCDFMonotoneAndNormalised(t *testing.T) {
	h, err := Build([]uint8{0, 0, 64, 128, 255}, 4)
	require.NoError(t, err)

	cdf := h.CDF()
	want := CDF{0.4, 0.6, 0.8, 1.0}
	assert.True(t, cmp.Equal(want, cdf, cmpopts.EquateApprox(0, 1e-12)), cmp.Diff(want, cdf))

	for i := 1; i < len(cdf); i++ {
		assert.GreaterOrEqual(t, cdf[i], cdf[i-1])
	}
}

func TestCDFOfEmptyHistogramIsZero(t *testing.T) {
	h, err := Build(nil, 8)
	require.NoError(t, err)
	assert.True(t, h.Empty())
	assert.Equal(t, CDF(make([]float64, 8)), h.CDF())
}

func TestCDFAtInterpolatesWithinBins(t *testing.T) {
	cdf := CDF{0.25, 0.5, 0.75, 1.0}
	assert.Equal(t, 0.0, cdf.At(-1))
	assert.Equal(t, 0.0, cdf.At(0))
	assert.InDelta(t, 0.125, cdf.At(0.5), 1e-12)
	assert.InDelta(t, 0.25, cdf.At(1), 1e-12)
	assert.InDelta(t, 0.625, cdf.At(2.5), 1e-12)
	assert.Equal(t, 1.0, cdf.At(4))
	assert.Equal(t, 1.0, cdf.At(10))
}

func TestCDFSearchTiesTowardLowerIndex(t *testing.T) {
	cdf := CDF{0.0, 0.5, 0.5, 0.5, 1.0}
	assert.Equal(t, 0, cdf.Search(0))
	assert.Equal(t, 1, cdf.Search(0.3))
	assert.Equal(t, 1, cdf.Search(0.5))
	assert.Equal(t, 4, cdf.Search(0.51))
	assert.Equal(t, 4, cdf.Search(2))
	assert.Equal(t, 1, cdf.FirstNonZero())
}

func TestSmoothPreservesInteriorMass(t *testing.T) {
	h := &Histogram{Counts: make([]float64, 32), Total: 10}
	h.Counts[16] = 10

	smoothed := h.Smooth(1)
	assert.InDelta(t, 10, smoothed.Total, 1e-9)
	assert.Less(t, smoothed.Counts[16], 10.0)
	assert.InDelta(t, smoothed.Counts[15], smoothed.Counts[17], 1e-12)
	assert.Zero(t, smoothed.Counts[12])

	// Original untouched.
	assert.Equal(t, 10.0, h.Counts[16])
}

func TestSmoothLosesMassAtBorder(t *testing.T) {
	h := &Histogram{Counts: make([]float64, 8), Total: 4}
	h.Counts[0] = 4

	smoothed := h.Smooth(1)
	assert.Less(t, smoothed.Total, 4.0)
	assert.InDelta(t, 1.0, smoothed.CDF()[7], 1e-12)
}

func TestSmoothWithoutSigmaCopies(t *testing.T) {
	h := &Histogram{Counts: []float64{1, 2, 3, 4}, Total: 10}
	out := h.Smooth(0)
	assert.Equal(t, h.Counts, out.Counts)
	out.Counts[0] = 100
	assert.Equal(t, 1.0, h.Counts[0])
}
