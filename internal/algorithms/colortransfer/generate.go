// Package colortransfer computes a 3-D colour lookup table that moves the
// colour distribution of an input image onto that of a reference image.
//
// Each pass rotates RGB space by a fixed orthonormal basis, matches the
// histogram of every rotated axis against the reference, and rotates back.
// The composite of all passes is then sampled on a 16x16x16 grid.
package colortransfer

import (
	"color-transfer/internal/models"
)

// Result carries the LUT together with the transform it was sampled from.
type Result struct {
	LUT       *models.Image
	Transform *Transform
	// Degenerate is set when the input or reference had no pixels and the
	// identity mapping was used instead.
	Degenerate bool
}

// ValidateImage checks that img is a well-formed 4-channel 8-bit buffer.
func ValidateImage(name string, img *models.Image) error {
	if img == nil {
		return models.NewValidationError(name, nil, "must not be nil")
	}
	if img.Type != models.PixelTypeRGBA8 {
		return models.NewValidationError(name, img.Type, "must have type "+models.PixelTypeRGBA8.String())
	}
	return img.Validate(name)
}

// Generate validates every argument up front, then runs the transfer. The
// images are only read; the returned LUT is newly allocated.
func Generate(input, reference *models.Image, params Parameters) (*Result, error) {
	if err := ValidateImage("input image", input); err != nil {
		return nil, err
	}
	if err := ValidateImage("reference image", reference); err != nil {
		return nil, err
	}

	driver, err := NewDriver(params)
	if err != nil {
		return nil, err
	}

	inputSamples := SamplesFromImage(input)
	referenceSamples := SamplesFromImage(reference)

	transform, err := driver.Run(inputSamples, referenceSamples)
	if err != nil {
		return nil, err
	}

	return &Result{
		LUT:        SampleLUT(transform),
		Transform:  transform,
		Degenerate: len(inputSamples) == 0 || len(referenceSamples) == 0,
	}, nil
}

// GenerateLUT is Generate returning only the 256x16 RGBA table.
func GenerateLUT(input, reference *models.Image, params Parameters) (*models.Image, error) {
	result, err := Generate(input, reference, params)
	if err != nil {
		return nil, err
	}
	return result.LUT, nil
}
