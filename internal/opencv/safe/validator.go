package safe

import (
	"gocv.io/x/gocv"

	"color-transfer/internal/models"
)

// PixelType maps an 8-bit Mat type to the image layout with the same
// channel count. Other depths map to models.PixelTypeUnknown.
func PixelType(matType gocv.MatType) models.PixelType {
	switch matType {
	case gocv.MatTypeCV8UC1:
		return models.PixelTypeGray8
	case gocv.MatTypeCV8UC3:
		return models.PixelTypeRGB8
	case gocv.MatTypeCV8UC4:
		return models.PixelTypeRGBA8
	default:
		return models.PixelTypeUnknown
	}
}

// ValidateMat checks that mat is open and non-empty and that its layout is
// one of allowed, or any layout models.Image can hold when allowed is empty.
func ValidateMat(mat *Mat, operation string, allowed ...models.PixelType) error {
	if mat == nil || !mat.IsValid() {
		return models.NewValidationError(operation+" input", nil, "must be an open Mat")
	}
	return models.ValidateShape(operation+" input", mat.Cols(), mat.Rows(), PixelType(mat.Type()), allowed...)
}

// ValidateMask accepts single-channel 8-bit Mats only.
func ValidateMask(mat *Mat, operation string) error {
	return ValidateMat(mat, operation, models.PixelTypeGray8)
}
