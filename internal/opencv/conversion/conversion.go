// Package conversion moves pixel data between OpenCV Mats (BGR channel
// order) and models.Image buffers (RGB channel order).
package conversion

import (
	"fmt"

	"gocv.io/x/gocv"

	"color-transfer/internal/models"
	"color-transfer/internal/opencv/safe"
)

// MatToImage converts 1-, 3- and 4-channel 8-bit Mats. Colour Mats become
// RGBA8 with opaque alpha for 3 channels.
func MatToImage(src *safe.Mat) (*models.Image, error) {
	if err := safe.ValidateMat(src, "Mat to image conversion"); err != nil {
		return nil, err
	}

	rows, cols := src.Rows(), src.Cols()

	if src.Channels() == 1 {
		data, err := src.Bytes()
		if err != nil {
			return nil, err
		}
		return &models.Image{Width: cols, Height: rows, Type: models.PixelTypeGray8, Pix: data}, nil
	}

	code := gocv.ColorBGRToRGBA
	if src.Channels() == 4 {
		code = gocv.ColorBGRAToRGBA
	}

	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(src.GetMat(), &rgba, code)

	converted, err := safe.NewMatFromMat(rgba, "rgba")
	if err != nil {
		return nil, fmt.Errorf("colour conversion failed: %w", err)
	}
	defer converted.Close()

	data, err := converted.Bytes()
	if err != nil {
		return nil, err
	}

	img := &models.Image{Width: cols, Height: rows, Type: models.PixelTypeRGBA8, Pix: data}
	if err := img.Validate("converted image"); err != nil {
		return nil, err
	}
	return img, nil
}

// ImageToMat converts an image into a Mat in OpenCV channel order: Gray8
// to CV_8UC1, RGB8 to BGR CV_8UC3 and RGBA8 to BGRA CV_8UC4.
func ImageToMat(img *models.Image) (*safe.Mat, error) {
	if err := img.Validate("image"); err != nil {
		return nil, err
	}

	var matType gocv.MatType
	var code gocv.ColorConversionCode
	swap := true

	switch img.Type {
	case models.PixelTypeGray8:
		matType, swap = gocv.MatTypeCV8UC1, false
	case models.PixelTypeRGB8:
		matType, code = gocv.MatTypeCV8UC3, gocv.ColorBGRToRGB
	case models.PixelTypeRGBA8:
		matType, code = gocv.MatTypeCV8UC4, gocv.ColorBGRAToRGBA
	default:
		return nil, fmt.Errorf("unsupported pixel type: %v", img.Type)
	}

	mat, err := safe.NewMatFromBytes(img.Height, img.Width, matType, img.Pix)
	if err != nil {
		return nil, err
	}
	if !swap {
		return mat, nil
	}
	defer mat.Close()

	// Swapping R and B is its own inverse.
	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(mat.GetMat(), &bgr, code)

	return safe.NewMatFromMat(bgr, "bgr")
}

// Decode reads any format OpenCV supports into an RGBA8 image.
func Decode(data []byte) (*models.Image, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image with OpenCV: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("OpenCV could not decode %d bytes", len(data))
	}

	safeMat, err := safe.NewMatFromMat(mat, "decoded")
	if err != nil {
		return nil, err
	}
	defer safeMat.Close()

	return MatToImage(safeMat)
}
