// Package stats measures how far apart the colour distributions of two
// images are.
package stats

import (
	"math"

	"color-transfer/internal/models"

	"github.com/lucasb-eyer/go-colorful"
)

// ChannelHistograms counts R, G and B levels of a colour image. Alpha is
// ignored.
func ChannelHistograms(img *models.Image) [3][256]float64 {
	var hist [3][256]float64
	channels := img.Channels()
	if channels < 3 {
		return hist
	}
	for i := 0; i+2 < len(img.Pix); i += channels {
		hist[0][img.Pix[i]]++
		hist[1][img.Pix[i+1]]++
		hist[2][img.Pix[i+2]]++
	}
	return hist
}

// ChannelDistance sums, over R, G and B, the 1-D earth mover's distance
// between the two images' level distributions, in 8-bit level units. It is
// zero when either image is empty.
func ChannelDistance(a, b *models.Image) float64 {
	if a.Empty() || b.Empty() {
		return 0
	}

	ha := ChannelHistograms(a)
	hb := ChannelHistograms(b)
	na := float64(a.Len())
	nb := float64(b.Len())

	total := 0.0
	for c := 0; c < 3; c++ {
		ca, cb := 0.0, 0.0
		for level := 0; level < 256; level++ {
			ca += ha[c][level] / na
			cb += hb[c][level] / nb
			total += math.Abs(ca - cb)
		}
	}
	return total
}

// MeanLab returns the average CIE L*a*b* colour of the image.
func MeanLab(img *models.Image) colorful.Color {
	channels := img.Channels()
	if img.Empty() || channels < 3 {
		return colorful.Color{}
	}

	var sl, sa, sb float64
	for i := 0; i+2 < len(img.Pix); i += channels {
		c := colorful.Color{
			R: float64(img.Pix[i]) / 255,
			G: float64(img.Pix[i+1]) / 255,
			B: float64(img.Pix[i+2]) / 255,
		}
		l, a, b := c.Lab()
		sl += l
		sa += a
		sb += b
	}

	n := float64(img.Len())
	return colorful.Lab(sl/n, sa/n, sb/n)
}

// MeanLabDistance is the CIEDE2000 difference between the mean colours of
// two images.
func MeanLabDistance(a, b *models.Image) float64 {
	return MeanLab(a).DistanceCIEDE2000(MeanLab(b))
}
