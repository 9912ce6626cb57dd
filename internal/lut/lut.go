// Package lut holds the 16x16x16 colour lookup table produced by the
// transfer engine and the operations around it: decoding the 256x16 image
// encoding, grading images, and .cube interchange.
package lut

import (
	"color-transfer/internal/algorithms/colortransfer"
	"color-transfer/internal/models"

	"golang.org/x/exp/constraints"
)

const (
	Size     = colortransfer.GridSize
	channels = 3
)

// LUT stores node colours in [0, 1], red-major: node (r, g, b) starts at
// ((r*Size+g)*Size+b)*3.
type LUT struct {
	nodes []float64
}

func newLUT() *LUT {
	return &LUT{nodes: make([]float64, Size*Size*Size*channels)}
}

func nodeIndex(r, g, b int) int {
	return ((r*Size+g)*Size + b) * channels
}

// Identity returns the LUT that maps every colour to itself.
func Identity() *LUT {
	l := newLUT()
	for r := 0; r < Size; r++ {
		for g := 0; g < Size; g++ {
			for b := 0; b < Size; b++ {
				l.SetNode(r, g, b, [3]float64{
					float64(r) / (Size - 1),
					float64(g) / (Size - 1),
					float64(b) / (Size - 1),
				})
			}
		}
	}
	return l
}

// FromImage decodes the 256x16 RGBA encoding: slice b stacked vertically,
// row r inside the slice, column g.
func FromImage(img *models.Image) (*LUT, error) {
	if err := img.Validate("lut image"); err != nil {
		return nil, err
	}
	if img.Type != models.PixelTypeRGBA8 {
		return nil, models.NewValidationError("lut image", img.Type, "must have type "+models.PixelTypeRGBA8.String())
	}
	if img.Width != colortransfer.LUTWidth || img.Height != colortransfer.LUTHeight {
		return nil, models.NewValidationError("lut image size", [2]int{img.Width, img.Height}, "must be 16x256")
	}

	l := newLUT()
	for b := 0; b < Size; b++ {
		for r := 0; r < Size; r++ {
			for g := 0; g < Size; g++ {
				i := colortransfer.LUTOffset(r, g, b)
				l.SetNode(r, g, b, [3]float64{
					float64(img.Pix[i]) / 255,
					float64(img.Pix[i+1]) / 255,
					float64(img.Pix[i+2]) / 255,
				})
			}
		}
	}
	return l, nil
}

// Image encodes the LUT back into the 256x16 RGBA layout.
func (l *LUT) Image() *models.Image {
	img := models.NewImage(colortransfer.LUTWidth, colortransfer.LUTHeight, models.PixelTypeRGBA8)
	for b := 0; b < Size; b++ {
		for r := 0; r < Size; r++ {
			for g := 0; g < Size; g++ {
				node := l.Node(r, g, b)
				i := colortransfer.LUTOffset(r, g, b)
				img.Pix[i] = toByte(node[0])
				img.Pix[i+1] = toByte(node[1])
				img.Pix[i+2] = toByte(node[2])
				img.Pix[i+3] = 255
			}
		}
	}
	return img
}

func (l *LUT) Node(r, g, b int) [3]float64 {
	i := nodeIndex(r, g, b)
	return [3]float64{l.nodes[i], l.nodes[i+1], l.nodes[i+2]}
}

func (l *LUT) SetNode(r, g, b int, c [3]float64) {
	i := nodeIndex(r, g, b)
	l.nodes[i] = c[0]
	l.nodes[i+1] = c[1]
	l.nodes[i+2] = c[2]
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toByte(v float64) uint8 {
	return uint8(clamp(v*255+0.5, 0, 255))
}
