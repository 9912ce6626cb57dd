// Package mask restricts an image to the pixels selected by a
// single-channel mask.
package mask

import (
	"fmt"

	"color-transfer/internal/models"
)

// ValidateThreshold reports whether threshold fits an 8-bit mask.
func ValidateThreshold(threshold int) error {
	if threshold < 0 || threshold > 255 {
		return models.NewValidationError("threshold", threshold, "must be in range [0, 255]")
	}
	return nil
}

// Count returns how many mask samples are >= threshold.
func Count(mask *models.Image, threshold uint8) int {
	n := 0
	for _, m := range mask.Pix {
		if m >= threshold {
			n++
		}
	}
	return n
}

// ExtractMasked returns the pixels of input whose mask sample is >=
// threshold, in row-major order, packed as a Width=1 column image of the
// input's pixel type. When no pixel qualifies the result has zero size but
// still reports the input's type.
func ExtractMasked(input, mask *models.Image, threshold int) (*models.Image, error) {
	if err := input.Validate("input image"); err != nil {
		return nil, err
	}
	if err := mask.Validate("mask"); err != nil {
		return nil, err
	}
	if mask.Type != models.PixelTypeGray8 {
		return nil, models.NewValidationError("mask", mask.Type, "must have type "+models.PixelTypeGray8.String())
	}
	if mask.Width != input.Width || mask.Height != input.Height {
		return nil, models.NewValidationError("mask size",
			fmt.Sprintf("%dx%d", mask.Width, mask.Height),
			fmt.Sprintf("must match input size %dx%d", input.Width, input.Height))
	}
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	t := uint8(threshold)
	selected := Count(mask, t)
	channels := input.Channels()

	out := &models.Image{Type: input.Type, Pix: make([]uint8, 0, selected*channels)}
	if selected > 0 {
		out.Width = 1
		out.Height = selected
	}

	for i, m := range mask.Pix {
		if m >= t {
			out.Pix = append(out.Pix, input.Pix[i*channels:(i+1)*channels]...)
		}
	}

	return out, nil
}

// Parameter keys of the mask cleanup steps.
const (
	ParamCleanup = "mask_cleanup"
	ParamErode   = "mask_erode"
	ParamFeather = "mask_feather"
)

// CleanupOptions selects the morphological steps applied to a mask before
// it selects pixels.
type CleanupOptions struct {
	Cleanup bool `toml:"cleanup"`
	// Erode is the erosion radius in pixels; 0 disables it.
	Erode int `toml:"erode"`
	// Feather is the gaussian sigma in pixels; 0 disables it.
	Feather float64 `toml:"feather"`
}

func (o CleanupOptions) Enabled() bool {
	return o.Cleanup || o.Erode > 0 || o.Feather > 0
}

func (o CleanupOptions) Validate() error {
	if o.Erode < 0 || o.Erode > 64 {
		return models.NewValidationError(ParamErode, o.Erode, "must be in range [0, 64]")
	}
	if o.Feather < 0 || o.Feather > 32 {
		return models.NewValidationError(ParamFeather, o.Feather, "must be in range [0, 32]")
	}
	return nil
}
