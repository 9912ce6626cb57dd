package pipeline

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/draw"

	"color-transfer/internal/models"
)

// DefaultMaxPixels bounds the number of pixels fed to colour statistics.
const DefaultMaxPixels = 512 * 512

// DownscaleSize returns the largest size with the aspect ratio of
// width x height holding at most maxPixels pixels. Sizes already within
// the limit, and non-positive limits, are returned unchanged.
func DownscaleSize(width, height, maxPixels int) (int, int) {
	if maxPixels <= 0 || width*height <= maxPixels {
		return width, height
	}
	scale := math.Sqrt(float64(maxPixels) / float64(width*height))
	return max(int(float64(width)*scale), 1), max(int(float64(height)*scale), 1)
}

// Downscale shrinks img to DownscaleSize with linear filtering. Images
// within the limit are returned as-is. Grayscale images come back as RGBA8.
func Downscale(img *models.Image, maxPixels int) (*models.Image, error) {
	if img.Empty() {
		return img, nil
	}
	width, height := DownscaleSize(img.Width, img.Height, maxPixels)
	if width == img.Width && height == img.Height {
		return img, nil
	}
	return resize(img, width, height, transform.Linear)
}

// ResizeMask scales a Gray8 mask with nearest-neighbour sampling so that
// no intermediate mask values are introduced.
func ResizeMask(mask *models.Image, width, height int) (*models.Image, error) {
	if mask.Type != models.PixelTypeGray8 {
		return nil, models.NewValidationError("mask", mask.Type, "must have type CV_8UC1")
	}
	if mask.Width == width && mask.Height == height {
		return mask, nil
	}

	out := models.NewImage(width, height, models.PixelTypeGray8)
	dst := &image.Gray{Pix: out.Pix, Stride: width, Rect: image.Rect(0, 0, width, height)}
	src := &image.Gray{Pix: mask.Pix, Stride: mask.Width, Rect: image.Rect(0, 0, mask.Width, mask.Height)}
	draw.NearestNeighbor.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
	return out, nil
}

func resize(img *models.Image, width, height int, filter transform.ResampleFilter) (*models.Image, error) {
	src, err := img.ToGoImage()
	if err != nil {
		return nil, err
	}
	return models.FromGoImage(transform.Resize(src, width, height, filter)), nil
}
