package segmentation

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"color-transfer/internal/models"
)

// Resize maps params.InputRect of src onto params.OutputRect of a new image
// of params.OutputSize. Source pixels outside src are read as zero or as
// the nearest edge pixel depending on the address mode, and the output
// outside OutputRect is filled the same way. Large scale factors are
// reached through a chain of halvings or doublings.
func Resize(src *models.Image, params ResizeParams) (*models.Image, error) {
	if err := src.Validate("resize source"); err != nil {
		return nil, err
	}
	if src.Type != models.PixelTypeRGBA8 && src.Type != models.PixelTypeGray8 {
		return nil, models.NewValidationError("resize source", src.Type, "must have type CV_8UC4 or CV_8UC1")
	}
	if src.Empty() {
		return nil, models.NewValidationError("resize source", "0x0", "must not be empty")
	}

	out := params.OutputRect
	if params.OutputSize.Width <= 0 || params.OutputSize.Height <= 0 {
		return nil, models.NewValidationError("output size", params.OutputSize, "must be positive")
	}
	if out.Width <= 0 || out.Height <= 0 || out.X < 0 || out.Y < 0 ||
		out.Right() > params.OutputSize.Width || out.Bottom() > params.OutputSize.Height {
		return nil, models.NewValidationError("output rect", out,
			fmt.Sprintf("must lie inside %v", params.OutputSize))
	}

	in := params.InputRect.Pixels()
	if in.Width <= 0 || in.Height <= 0 {
		return nil, models.NewValidationError("input rect", in, "must have a positive size")
	}

	kernel := draw.Interpolator(draw.BiLinear)
	if params.Interpolation == InterpolationNearest {
		kernel = draw.NearestNeighbor
	}

	current := extractRegion(src, in, params.AddressMode)
	for _, size := range intermediateSizes(in.Size(), out.Size()) {
		sr := image.Rect(0, 0, current.Width, current.Height)
		if size.Width == current.Width/2 && size.Height == current.Height/2 {
			sr = image.Rect(0, 0, size.Width*2, size.Height*2)
		}
		next := models.NewImage(size.Width, size.Height, src.Type)
		kernel.Scale(drawable(next), image.Rect(0, 0, size.Width, size.Height), drawable(current), sr, draw.Src, nil)
		current = next
	}

	dst := models.NewImage(params.OutputSize.Width, params.OutputSize.Height, src.Type)
	kernel.Scale(drawable(dst), image.Rect(out.X, out.Y, out.Right(), out.Bottom()),
		drawable(current), image.Rect(0, 0, current.Width, current.Height), draw.Src, nil)

	fillMargins(dst, out, params.AddressMode)
	return dst, nil
}

// drawable wraps the buffer without copying. RGBA8 pixels are handed to the
// scaler as-is; with draw.Src every channel is interpolated independently,
// so straight alpha survives.
func drawable(img *models.Image) draw.Image {
	r := image.Rect(0, 0, img.Width, img.Height)
	if img.Type == models.PixelTypeGray8 {
		return &image.Gray{Pix: img.Pix, Stride: img.Stride(), Rect: r}
	}
	return &image.RGBA{Pix: img.Pix, Stride: img.Stride(), Rect: r}
}

func intermediateSizes(source, destination Size) []Size {
	ratio := math.Min(float64(float32(destination.Width)/float32(source.Width)),
		float64(float32(destination.Height)/float32(source.Height)))
	logOfRatio := math.Log2(ratio)

	var sizes []Size
	size := source
	switch {
	case logOfRatio < -1:
		for i := 1; i < int(math.Ceil(-logOfRatio)); i++ {
			size = Size{Width: max(size.Width/2, 1), Height: max(size.Height/2, 1)}
			sizes = append(sizes, size)
		}
	case logOfRatio > 1:
		for i := 1; i < int(math.Ceil(logOfRatio)); i++ {
			size = Size{Width: size.Width * 2, Height: size.Height * 2}
			sizes = append(sizes, size)
		}
	}
	return sizes
}

// extractRegion copies r out of src, synthesising pixels that fall outside.
func extractRegion(src *models.Image, r Rect, mode AddressMode) *models.Image {
	region := models.NewImage(r.Width, r.Height, src.Type)
	channels := src.Channels()

	for y := 0; y < r.Height; y++ {
		sy := r.Y + y
		rowInside := sy >= 0 && sy < src.Height
		if !rowInside {
			if mode == AddressClampToZero {
				continue
			}
			sy = clampInt(sy, 0, src.Height-1)
		}
		for x := 0; x < r.Width; x++ {
			sx := r.X + x
			if sx < 0 || sx >= src.Width {
				if mode == AddressClampToZero {
					continue
				}
				sx = clampInt(sx, 0, src.Width-1)
			}
			d := region.PixOffset(x, y)
			s := src.PixOffset(sx, sy)
			copy(region.Pix[d:d+channels], src.Pix[s:s+channels])
		}
	}
	return region
}

func fillMargins(img *models.Image, r Rect, mode AddressMode) {
	stride := img.Stride()
	channels := img.Channels()

	if mode == AddressClampToZero {
		for y := 0; y < img.Height; y++ {
			row := img.Pix[y*stride : (y+1)*stride]
			if y < r.Y || y >= r.Bottom() {
				clear(row)
				continue
			}
			clear(row[:r.X*channels])
			clear(row[r.Right()*channels:])
		}
		return
	}

	for y := 0; y < r.Y; y++ {
		copy(img.Pix[y*stride:(y+1)*stride], img.Pix[r.Y*stride:(r.Y+1)*stride])
	}
	last := r.Bottom() - 1
	for y := r.Bottom(); y < img.Height; y++ {
		copy(img.Pix[y*stride:(y+1)*stride], img.Pix[last*stride:(last+1)*stride])
	}
	for y := 0; y < img.Height; y++ {
		left := img.PixOffset(r.X, y)
		right := img.PixOffset(r.Right()-1, y)
		for x := 0; x < r.X; x++ {
			d := img.PixOffset(x, y)
			copy(img.Pix[d:d+channels], img.Pix[left:left+channels])
		}
		for x := r.Right(); x < img.Width; x++ {
			d := img.PixOffset(x, y)
			copy(img.Pix[d:d+channels], img.Pix[right:right+channels])
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
