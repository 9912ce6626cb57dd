package colortransfer

import "color-transfer/internal/models"

const (
	// GridSize is the number of nodes per colour axis.
	GridSize = 16
	// GridStep is the 8-bit distance between neighbouring nodes (255/15).
	GridStep = 255 / (GridSize - 1)

	LUTWidth  = GridSize
	LUTHeight = GridSize * GridSize
)

// NodeValue returns the nominal 8-bit value of grid index i.
func NodeValue(i int) uint8 {
	return uint8(i * GridStep)
}

// LUTOffset returns the byte offset of node (r, g, b) in the 256x16 RGBA
// encoding: slice b is stacked vertically, r selects the row inside the
// slice and g the column.
func LUTOffset(r, g, b int) int {
	row := b*GridSize + r
	return (row*LUTWidth + g) * 4
}

// SampleLUT evaluates t at every grid node and returns the 256x16 RGBA
// encoding. Alpha is 255 throughout.
func SampleLUT(t *Transform) *models.Image {
	out := models.NewImage(LUTWidth, LUTHeight, models.PixelTypeRGBA8)

	for b := 0; b < GridSize; b++ {
		for r := 0; r < GridSize; r++ {
			for g := 0; g < GridSize; g++ {
				nr, ng, nb := t.ApplyRGB(NodeValue(r), NodeValue(g), NodeValue(b))
				i := LUTOffset(r, g, b)
				out.Pix[i] = nr
				out.Pix[i+1] = ng
				out.Pix[i+2] = nb
				out.Pix[i+3] = 255
			}
		}
	}

	return out
}
