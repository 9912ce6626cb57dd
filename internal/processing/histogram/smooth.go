package histogram

import "math"

// Smooth convolves the counts with a normalised gaussian of the given sigma
// (in bins). Samples past either end count as zero. The input is left
// untouched; sigma <= 0 returns a copy.
func (h *Histogram) Smooth(sigma float64) *Histogram {
	bins := len(h.Counts)
	out := &Histogram{Counts: make([]float64, bins)}

	if sigma <= 0.0 {
		copy(out.Counts, h.Counts)
		out.Total = h.Total
		return out
	}

	kernel := gaussianKernel(sigma)
	kernelRadius := len(kernel) / 2

	for j := 0; j < bins; j++ {
		value := 0.0
		for k := 0; k < len(kernel); k++ {
			col := j + k - kernelRadius
			if col >= 0 && col < bins {
				value += h.Counts[col] * kernel[k]
			}
		}
		out.Counts[j] = value
		out.Total += value
	}

	return out
}

func gaussianKernel(sigma float64) []float64 {
	kernelRadius := int(sigma * 3)
	if kernelRadius < 1 {
		kernelRadius = 1
	}

	kernel := make([]float64, 2*kernelRadius+1)
	sum := 0.0
	invSigmaSq := 1.0 / (2.0 * sigma * sigma)

	for i := 0; i < len(kernel); i++ {
		x := float64(i - kernelRadius)
		value := math.Exp(-x * x * invSigmaSq)
		kernel[i] = value
		sum += value
	}

	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}
