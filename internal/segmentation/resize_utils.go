package segmentation

import (
	"math"

	"github.com/chewxy/math32"
)

// Size arithmetic is carried out in float32 so that rounding at the .5
// boundaries agrees with the models' reference tooling.

// AspectFit scales size uniformly to the largest size that fits inside
// sizeToFit.
func AspectFit(size, sizeToFit Size) (width, height float32) {
	widthRatio := float32(sizeToFit.Width) / float32(size.Width)
	heightRatio := float32(sizeToFit.Height) / float32(size.Height)
	scale := math32.Min(widthRatio, heightRatio)
	return float32(size.Width) * scale, float32(size.Height) * scale
}

func AspectFitAndRound(size, sizeToFit Size) Size {
	w, h := AspectFit(size, sizeToFit)
	return Size{Width: roundHalfAway(float64(w)), Height: roundHalfAway(float64(h))}
}

// OptimalTargetSizeAspectFit picks the supported size that keeps the most
// source pixels when the source is fitted into it without upscaling. Among
// equal candidates the smaller supported size wins. When every supported
// size would upscale, the smallest supported size is returned.
func OptimalTargetSizeAspectFit(source Size, supported []Size) Size {
	if len(supported) == 0 {
		return Size{}
	}

	var valid []Size
	for _, s := range supported {
		if AspectFitAndRound(source, s).Area() < source.Area() {
			valid = append(valid, s)
		}
	}

	if len(valid) == 0 {
		best := supported[0]
		for _, s := range supported[1:] {
			if s.Area() < best.Area() {
				best = s
			}
		}
		return best
	}

	better := func(a, b Size) bool {
		fa := AspectFitAndRound(source, a).Area()
		fb := AspectFitAndRound(source, b).Area()
		if fa != fb {
			return fa > fb
		}
		return a.Area() < b.Area()
	}

	best := valid[0]
	for _, s := range valid[1:] {
		if better(s, best) {
			best = s
		}
	}
	return best
}

// aspectCorrelation is min(ar1, ar2) / max(ar1, ar2); 1 means equal shape.
func aspectCorrelation(a, b Size) float32 {
	ar1 := float32(a.Width) / float32(a.Height)
	ar2 := float32(b.Width) / float32(b.Height)
	return math32.Min(ar1, ar2) / math32.Max(ar1, ar2)
}

// OptimalTargetSizeAspectFill keeps the supported sizes whose aspect ratio
// is within 95% of the best match and returns the one closest in area to
// the source.
func OptimalTargetSizeAspectFill(source Size, supported []Size) Size {
	if len(supported) == 0 {
		return Size{}
	}

	maxCorrelation := aspectCorrelation(supported[0], source)
	for _, s := range supported[1:] {
		if c := aspectCorrelation(s, source); c > maxCorrelation {
			maxCorrelation = c
		}
	}

	var best Size
	bestDiff := -1
	for _, s := range supported {
		if float64(aspectCorrelation(s, source)) < 0.95*float64(maxCorrelation) {
			continue
		}
		diff := s.Area() - source.Area()
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = s, diff
		}
	}
	return best
}

func roundHalfAway(v float64) int {
	return int(math.Round(v))
}

func roundEven(v float64) int {
	return int(math.RoundToEven(v))
}
