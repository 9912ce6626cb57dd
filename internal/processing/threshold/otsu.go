// Package threshold picks a binarisation level for soft masks.
package threshold

import (
	"fmt"

	"color-transfer/internal/models"
	"color-transfer/internal/processing/histogram"
)

// Otsu returns the level t maximising the between-class variance of the
// split {v < t} / {v >= t}, so it can be used directly as an inclusive mask
// threshold. The first maximum wins. Samples that are all equal admit no
// split and yield ErrDegenerateInput.
func Otsu(samples []uint8) (int, error) {
	hist, err := histogram.Build(samples, histogram.Levels)
	if err != nil {
		return 0, err
	}
	return OtsuHistogram(hist)
}

// OtsuHistogram is Otsu over a 256-bin histogram.
func OtsuHistogram(hist *histogram.Histogram) (int, error) {
	if hist.Bins() != histogram.Levels {
		return 0, models.NewValidationError("histogram_bins", hist.Bins(), fmt.Sprintf("must be %d", histogram.Levels))
	}
	if hist.Empty() {
		return 0, fmt.Errorf("%w: empty mask", models.ErrDegenerateInput)
	}

	totalSum := 0.0
	for i, c := range hist.Counts {
		totalSum += float64(i) * c
	}

	best, bestVariance := 0, 0.0
	w0, sum0 := 0.0, 0.0
	for t := 1; t < histogram.Levels; t++ {
		w0 += hist.Counts[t-1]
		sum0 += float64(t-1) * hist.Counts[t-1]

		w1 := hist.Total - w0
		if w0 <= 0 || w1 <= 0 {
			continue
		}

		mean0 := sum0 / w0
		mean1 := (totalSum - sum0) / w1
		variance := w0 * w1 * (mean0 - mean1) * (mean0 - mean1)
		if variance > bestVariance {
			best, bestVariance = t, variance
		}
	}

	if best == 0 {
		return 0, fmt.Errorf("%w: mask has a single level", models.ErrDegenerateInput)
	}
	return best, nil
}
