// Package histogram builds fixed-bin intensity histograms over the 8-bit
// range and derives their cumulative distributions.
package histogram

import (
	"color-transfer/internal/models"
)

const (
	MinBins = 4
	MaxBins = 256

	// Levels is the size of the 8-bit intensity domain.
	Levels = 256
)

// Histogram holds per-bin counts over [0, 256). Counts are float64 so a
// smoothed histogram keeps the same type.
type Histogram struct {
	Counts []float64
	Total  float64
}

// ValidateBins reports whether bins is a supported bin count.
func ValidateBins(bins int) error {
	if bins < MinBins || bins > MaxBins {
		return models.NewValidationError("histogram_bins", bins, "must be in range [4, 256]")
	}
	return nil
}

// BinOf maps a sample to its bin. Bin edges sit at k*256/bins, so widths
// that do not divide 256 are spread proportionally rather than truncated.
func BinOf(sample uint8, bins int) int {
	return int(sample) * bins / Levels
}

// Build counts samples into bins equal-width bins.
func Build(samples []uint8, bins int) (*Histogram, error) {
	if err := ValidateBins(bins); err != nil {
		return nil, err
	}

	counts := make([]float64, bins)
	for _, s := range samples {
		counts[BinOf(s, bins)]++
	}

	return &Histogram{Counts: counts, Total: float64(len(samples))}, nil
}

// Bins returns the number of bins.
func (h *Histogram) Bins() int {
	return len(h.Counts)
}

// Empty reports whether no mass was accumulated.
func (h *Histogram) Empty() bool {
	return h.Total <= 0
}

// CDF returns the running sum of counts normalised by the total. An empty
// histogram yields an all-zero CDF.
func (h *Histogram) CDF() CDF {
	cdf := make(CDF, len(h.Counts))
	if h.Total <= 0 {
		return cdf
	}

	inv := 1.0 / h.Total
	running := 0.0
	for i, c := range h.Counts {
		running += c
		cdf[i] = running * inv
	}
	// Guard against summation drift.
	if cdf[len(cdf)-1] > 1 {
		cdf[len(cdf)-1] = 1
	}
	return cdf
}
