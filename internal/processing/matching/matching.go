// Package matching derives 1-D remapping functions that move a source
// intensity distribution onto a target distribution.
package matching

import (
	"math"

	"color-transfer/internal/models"
	"color-transfer/internal/processing/histogram"
)

// ValidateDamping reports whether d lies in (0, 1].
func ValidateDamping(d float64) error {
	if !(d > 0 && d <= 1) {
		return models.NewValidationError("damping_factor", d, "must be in range (0, 1]")
	}
	return nil
}

func validateCDFs(source, target histogram.CDF) error {
	if len(source) == 0 || len(target) == 0 {
		return models.NewValidationError("cdf", nil, "must not be empty")
	}
	if len(source) != len(target) {
		return models.NewValidationError("cdf", len(target), "lengths must agree")
	}
	return nil
}

// MatchDistribution builds a 256-entry table. Each level takes the
// cumulative probability of its source bin, finds the smallest target bin
// whose cumulative probability is at least that value, and blends that
// bin's centre with the level itself by dampingFactor. Levels below the
// source's support (p = 0) take the first populated target bin, as Curve does.
func MatchDistribution(source, target histogram.CDF, dampingFactor float64) ([histogram.Levels]uint8, error) {
	var table [histogram.Levels]uint8
	if err := validateCDFs(source, target); err != nil {
		return table, err
	}
	if err := ValidateDamping(dampingFactor); err != nil {
		return table, err
	}

	bins := len(source)
	for level := 0; level < histogram.Levels; level++ {
		p := source[histogram.BinOf(uint8(level), bins)]
		j := target.FirstNonZero()
		if p > 0 {
			j = target.Search(p)
		}
		matched := binCentre(j, bins)
		out := (1-dampingFactor)*float64(level) + dampingFactor*matched
		table[level] = roundLevel(out)
	}
	return table, nil
}

// Apply remaps samples in place through a table.
func Apply(table *[histogram.Levels]uint8, samples []uint8) {
	for i, s := range samples {
		samples[i] = table[s]
	}
}

// binCentre returns the intensity at the middle of bin j.
func binCentre(j, bins int) float64 {
	return (float64(j)+0.5)*histogram.Levels/float64(bins) - 0.5
}

func roundLevel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
