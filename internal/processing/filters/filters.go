// Package filters cleans segmentation masks before they select pixels:
// morphological open/close removes speckle, erosion pulls the selection
// away from object borders and a gaussian feathers the edge.
package filters

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"color-transfer/internal/models"
	"color-transfer/internal/opencv/conversion"
	"color-transfer/internal/opencv/safe"
	"color-transfer/internal/processing/chain"
	"color-transfer/internal/processing/mask"
)

func stepParams(o mask.CleanupOptions) map[string]interface{} {
	return map[string]interface{}{
		mask.ParamCleanup: o.Cleanup,
		mask.ParamErode:   o.Erode,
		mask.ParamFeather: o.Feather,
	}
}

// NewMaskChain returns cleanup, erosion and feathering in that order.
func NewMaskChain() *chain.ProcessingChain {
	return chain.NewProcessingChain(
		NewMorphologyFilter(),
		NewErodeFilter(),
		NewGaussianFilter(),
	)
}

// CleanMask runs the mask chain over a Gray8 mask.
func CleanMask(ctx context.Context, m *models.Image, opts mask.CleanupOptions) (*models.Image, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := m.Validate("mask"); err != nil {
		return nil, err
	}
	if m.Type != models.PixelTypeGray8 {
		return nil, models.NewValidationError("mask", m.Type, "must have type "+models.PixelTypeGray8.String())
	}
	if !opts.Enabled() || m.Empty() {
		return m.Clone(), nil
	}

	src, err := conversion.ImageToMat(m)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	result, err := NewMaskChain().Execute(ctx, src, stepParams(opts))
	if err != nil {
		return nil, err
	}
	defer result.Close()

	return conversion.MatToImage(result)
}

type MorphologyFilter struct{}

func NewMorphologyFilter() *MorphologyFilter {
	return &MorphologyFilter{}
}

func (m *MorphologyFilter) Name() string {
	return "morphology_filter"
}

func (m *MorphologyFilter) ShouldExecute(params map[string]interface{}) bool {
	cleanup, ok := params[mask.ParamCleanup].(bool)
	return ok && cleanup
}

// Apply opens with a small ellipse to drop isolated pixels, then closes
// with a larger one to fill pinholes.
func (m *MorphologyFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	if err := safe.ValidateMask(input, "mask cleanup"); err != nil {
		return nil, err
	}

	smallKernelSize, largeKernelSize := 3, 5
	if input.Rows()*input.Cols() > 1000000 {
		smallKernelSize, largeKernelSize = 5, 7
	}

	kernel3 := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: smallKernelSize, Y: smallKernelSize})
	defer kernel3.Close()

	kernel5 := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: largeKernelSize, Y: largeKernelSize})
	defer kernel5.Close()

	opened, err := safe.NewMat(input.Rows(), input.Cols(), input.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to create opened Mat: %w", err)
	}
	defer opened.Close()

	openedMat := opened.GetMat()
	gocv.MorphologyEx(input.GetMat(), &openedMat, gocv.MorphOpen, kernel3)

	result, err := safe.NewMat(input.Rows(), input.Cols(), input.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to create result Mat: %w", err)
	}

	resultMat := result.GetMat()
	gocv.MorphologyEx(openedMat, &resultMat, gocv.MorphClose, kernel5)

	return result, nil
}

type ErodeFilter struct{}

func NewErodeFilter() *ErodeFilter {
	return &ErodeFilter{}
}

func (e *ErodeFilter) Name() string {
	return "erode_filter"
}

func (e *ErodeFilter) ShouldExecute(params map[string]interface{}) bool {
	radius, ok := params[mask.ParamErode].(int)
	return ok && radius > 0
}

func (e *ErodeFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	if err := safe.ValidateMask(input, "mask erosion"); err != nil {
		return nil, err
	}

	radius := params[mask.ParamErode].(int)
	size := 2*radius + 1
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: size, Y: size})
	defer kernel.Close()

	result, err := safe.NewMat(input.Rows(), input.Cols(), input.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to create result Mat: %w", err)
	}

	resultMat := result.GetMat()
	gocv.Erode(input.GetMat(), &resultMat, kernel)

	return result, nil
}

type GaussianFilter struct{}

func NewGaussianFilter() *GaussianFilter {
	return &GaussianFilter{}
}

func (g *GaussianFilter) Name() string {
	return "gaussian_filter"
}

func (g *GaussianFilter) ShouldExecute(params map[string]interface{}) bool {
	sigma, ok := params[mask.ParamFeather].(float64)
	return ok && sigma > 0
}

func (g *GaussianFilter) Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	if err := safe.ValidateMask(input, "mask feathering"); err != nil {
		return nil, err
	}

	sigma := params[mask.ParamFeather].(float64)

	// Kernel covers +-3 sigma.
	kernelSize := int(sigma*6) + 1
	if kernelSize%2 == 0 {
		kernelSize++
	}
	kernelSize = max(3, kernelSize)

	result, err := safe.NewMat(input.Rows(), input.Cols(), input.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to create result Mat: %w", err)
	}

	resultMat := result.GetMat()
	gocv.GaussianBlur(input.GetMat(), &resultMat, image.Point{X: kernelSize, Y: kernelSize}, sigma, sigma, gocv.BorderReplicate)

	return result, nil
}
