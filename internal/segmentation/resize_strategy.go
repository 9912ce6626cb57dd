package segmentation

// ResizeParams describes how a region of the source image is mapped into a
// model input of OutputSize pixels. The region lands on OutputRect; the
// model output covering the source is OutputROI.
type ResizeParams struct {
	InputRect     InputRect
	OutputSize    Size
	OutputRect    Rect
	OutputROI     Rect
	AddressMode   AddressMode
	Interpolation Interpolation
}

// ResizeStrategy is the per-input resize policy declared in model metadata.
type ResizeStrategy struct {
	AddressMode    AddressMode
	Padding        PaddingMode
	Interpolation  Interpolation
	Scaling        ScalingMode
	SupportedSizes []Size
}

func (s *ResizeStrategy) ResizeParameters(input InputRect) ResizeParams {
	if s.Scaling == ScalingAspectFill {
		return s.aspectFillParameters(input)
	}
	return s.aspectFitParameters(input)
}

func (s *ResizeStrategy) aspectFitParameters(input InputRect) ResizeParams {
	target := OptimalTargetSizeAspectFit(input.Size(), s.SupportedSizes)

	fitW, fitH := AspectFit(input.Size(), target)
	roi := RectF{
		X:      float64(float32(target.Width)/2 - fitW/2),
		Y:      float64(float32(target.Height)/2 - fitH/2),
		Width:  float64(fitW),
		Height: float64(fitH),
	}.Round()

	if s.Padding == PaddingZero {
		return s.params(input, target, roi, roi)
	}

	// Extend the input region so that the whole target is filled with
	// source pixels; the ROI keeps pointing at the requested region.
	full := InputRect{
		CenterX: input.CenterX,
		CenterY: input.CenterY,
		Width:   input.Width * float64(target.Width) / float64(roi.Width),
		Height:  input.Height * float64(target.Height) / float64(roi.Height),
	}
	return s.params(full, target, Rect{Width: target.Width, Height: target.Height}, roi)
}

func (s *ResizeStrategy) aspectFillParameters(input InputRect) ResizeParams {
	target := OptimalTargetSizeAspectFill(input.Size(), s.SupportedSizes)
	rect := Rect{Width: target.Width, Height: target.Height}
	return s.params(input, target, rect, rect)
}

func (s *ResizeStrategy) params(input InputRect, target Size, outputRect, roi Rect) ResizeParams {
	return ResizeParams{
		InputRect:     input,
		OutputSize:    target,
		OutputRect:    outputRect,
		OutputROI:     roi,
		AddressMode:   s.AddressMode,
		Interpolation: s.Interpolation,
	}
}
