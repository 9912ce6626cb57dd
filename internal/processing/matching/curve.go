package matching

import (
	"color-transfer/internal/processing/histogram"
)

// Curve is the continuous form of the matching function. Within a bin the
// mass is treated as uniform, so levels map to fractional target levels
// instead of bin centres.
type Curve struct {
	source  histogram.CDF
	target  histogram.CDF
	damping float64
	scale   float64
}

// NewCurve validates its arguments and returns a ready curve. The CDFs are
// referenced, not copied.
func NewCurve(source, target histogram.CDF, dampingFactor float64) (*Curve, error) {
	if err := validateCDFs(source, target); err != nil {
		return nil, err
	}
	if err := ValidateDamping(dampingFactor); err != nil {
		return nil, err
	}
	return &Curve{
		source:  source,
		target:  target,
		damping: dampingFactor,
		scale:   float64(len(source)) / histogram.Levels,
	}, nil
}

// Matched returns the undamped target level for a source level. Levels
// outside [0, 255] saturate to the ends of the target distribution.
func (c *Curve) Matched(level float64) float64 {
	p := c.source.At((level + 0.5) * c.scale)

	var pos float64
	if p <= 0 {
		pos = float64(c.target.FirstNonZero())
	} else {
		j := c.target.Search(p)
		prev := 0.0
		if j > 0 {
			prev = c.target[j-1]
		}
		frac := 1.0
		if span := c.target[j] - prev; span > 0 {
			frac = (p - prev) / span
			if frac > 1 {
				frac = 1
			}
		}
		pos = float64(j) + frac
	}

	matched := pos/c.scale - 0.5
	if matched < 0 {
		return 0
	}
	if matched > histogram.Levels-1 {
		return histogram.Levels - 1
	}
	return matched
}

// Map blends the matched level with the input level by the damping factor.
// The input itself is not clamped.
func (c *Curve) Map(level float64) float64 {
	return (1-c.damping)*level + c.damping*c.Matched(level)
}

// Table samples the curve at the 256 integer levels.
func (c *Curve) Table() [histogram.Levels]uint8 {
	var table [histogram.Levels]uint8
	for level := range table {
		table[level] = roundLevel(c.Map(float64(level)))
	}
	return table
}
