package histogram

import "sort"

// CDF is a non-decreasing sequence in [0, 1]; entry i is the cumulative
// probability at the upper edge of bin i.
type CDF []float64

// At interpolates the CDF at a continuous bin coordinate x, where x = 0 is
// the lower edge of bin 0 and x = len(c) the upper edge of the last bin.
// Mass is assumed uniform within a bin.
func (c CDF) At(x float64) float64 {
	n := len(c)
	if n == 0 || x <= 0 {
		return 0
	}
	if x >= float64(n) {
		return c[n-1]
	}

	i := int(x)
	prev := 0.0
	if i > 0 {
		prev = c[i-1]
	}
	return prev + (x-float64(i))*(c[i]-prev)
}

// Search returns the smallest bin index whose cumulative probability is
// >= p. It returns len(c)-1 when p exceeds every entry.
func (c CDF) Search(p float64) int {
	j := sort.Search(len(c), func(i int) bool { return c[i] >= p })
	if j == len(c) {
		j = len(c) - 1
	}
	return j
}

// FirstNonZero returns the first bin carrying mass, or 0.
func (c CDF) FirstNonZero() int {
	for i, v := range c {
		if v > 0 {
			return i
		}
	}
	return 0
}
