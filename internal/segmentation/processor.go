package segmentation

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"color-transfer/internal/logger"
	"color-transfer/internal/models"
)

const component = "Segmentation"

// Processor runs a segmentation engine on RGBA8 images, handling the
// resize into the model input and the crop of the model output back to the
// region covering the image.
type Processor struct {
	mu       sync.Mutex
	engine   Engine
	strategy *ResizeStrategy
	unit     ComputeUnit
	isValid  int32
	log      logger.Logger
}

type ProcessorOptions struct {
	ComputeUnit  ComputeUnit
	Capabilities CapabilityProvider
	Logger       logger.Logger
}

// NewProcessor loads an engine on the best compute unit allowed by opts and
// reads the input resize policy from metadata. A failed GPU load is retried
// on the CPU.
func NewProcessor(loader EngineLoader, metadata []byte, opts ProcessorOptions) (*Processor, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	unit := SelectComputeUnit(opts.ComputeUnit, opts.Capabilities)
	engine, err := loader.Load(unit)
	if err != nil && unit != ComputeUnitCPU {
		log.Warning(component, "engine failed to load, falling back to CPU", map[string]interface{}{
			"compute_unit": unit.String(),
			"error":        err.Error(),
		})
		unit = ComputeUnitCPU
		engine, err = loader.Load(unit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load segmentation engine: %w", err)
	}

	parsed, err := ParseMetadata(metadata)
	if err != nil {
		return nil, releaseEngine(engine, err)
	}
	strategy, err := parsed.Strategy(engine.InputName(), engine.DefaultInputSize())
	if err != nil {
		return nil, releaseEngine(engine, err)
	}

	p := &Processor{
		engine:   engine,
		strategy: strategy,
		unit:     unit,
		isValid:  1,
		log:      log,
	}
	runtime.SetFinalizer(p, (*Processor).finalize)

	log.Debug(component, "processor created", map[string]interface{}{
		"compute_unit":    unit.String(),
		"input":           engine.InputName(),
		"supported_sizes": len(strategy.SupportedSizes),
	})
	return p, nil
}

// releaseEngine closes an engine that will not be handed out and reports
// any close failure alongside cause.
func releaseEngine(engine Engine, cause error) error {
	if err := engine.Close(); err != nil {
		return errors.Join(cause, fmt.Errorf("failed to release segmentation engine: %w", err))
	}
	return cause
}

func (p *Processor) ComputeUnit() ComputeUnit {
	return p.unit
}

func (p *Processor) Strategy() ResizeStrategy {
	return *p.strategy
}

func (p *Processor) IsValid() bool {
	return atomic.LoadInt32(&p.isValid) == 1
}

func (p *Processor) resizeParams(inputSize Size) ResizeParams {
	return p.strategy.ResizeParameters(FullInputRect(inputSize))
}

// OutputSizeForInputSize returns the mask shape as height, width, channels.
func (p *Processor) OutputSizeForInputSize(inputSize Size) [3]int {
	roi := p.resizeParams(inputSize).OutputROI
	return [3]int{roi.Height, roi.Width, p.engine.OutputChannels()}
}

// NewOutputMask allocates a zeroed mask suitable for RunInto.
func (p *Processor) NewOutputMask(inputSize Size) (*models.Image, error) {
	shape := p.OutputSizeForInputSize(inputSize)
	pixelType := models.PixelTypeForChannels(shape[2])
	if pixelType == models.PixelTypeUnknown {
		return nil, fmt.Errorf("engine output with %d channels has no 8-bit pixel type", shape[2])
	}
	return models.NewImage(shape[1], shape[0], pixelType), nil
}

func (p *Processor) Run(input *models.Image) (*models.Image, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	out, err := p.NewOutputMask(Size{Width: input.Width, Height: input.Height})
	if err != nil {
		return nil, err
	}
	if err := p.RunInto(input, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RunInto segments input and writes the mask into output, which must have
// the shape reported by OutputSizeForInputSize.
func (p *Processor) RunInto(input, output *models.Image) error {
	if err := validateInput(input); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.IsValid() {
		return fmt.Errorf("segmentation processor is closed")
	}

	inputSize := Size{Width: input.Width, Height: input.Height}
	expected := p.OutputSizeForInputSize(inputSize)
	if output == nil {
		return models.NewValidationError("output mask", nil, "must not be nil")
	}
	if output.Height != expected[0] {
		return models.NewValidationError("output mask", output.Height, fmt.Sprintf("must have %d rows", expected[0]))
	}
	if output.Width != expected[1] {
		return models.NewValidationError("output mask", output.Width, fmt.Sprintf("must have %d columns", expected[1]))
	}
	if output.Channels() != expected[2] {
		return models.NewValidationError("output mask", output.Channels(), fmt.Sprintf("must have %d channels", expected[2]))
	}
	if err := output.Validate("output mask"); err != nil {
		return err
	}

	params := p.resizeParams(inputSize)
	tensor, err := p.inputTensor(input, params)
	if err != nil {
		return err
	}

	result, err := p.engine.Invoke(tensor)
	if err != nil {
		return fmt.Errorf("segmentation inference failed: %w", err)
	}
	if err := result.validate("output"); err != nil {
		return err
	}

	return retrieveOutput(result, params.OutputROI, output)
}

func validateInput(input *models.Image) error {
	if err := input.Validate("input image"); err != nil {
		return err
	}
	if input.Type != models.PixelTypeRGBA8 {
		return models.NewValidationError("input image", input.Type, "must have type CV_8UC4")
	}
	if input.Empty() {
		return models.NewValidationError("input image", "0x0", "must not be empty")
	}
	return nil
}

func (p *Processor) inputTensor(input *models.Image, params ResizeParams) (*Tensor, error) {
	resized, err := Resize(input, params)
	if err != nil {
		return nil, err
	}

	tensor := NewTensor(resized.Height, resized.Width, 3)
	for i, j := 0, 0; i < len(resized.Pix); i, j = i+4, j+3 {
		tensor.Data[j] = float32(resized.Pix[i]) / 255
		tensor.Data[j+1] = float32(resized.Pix[i+1]) / 255
		tensor.Data[j+2] = float32(resized.Pix[i+2]) / 255
	}
	return tensor, nil
}

func retrieveOutput(result *Tensor, roi Rect, output *models.Image) error {
	if result.Channels != output.Channels() {
		return fmt.Errorf("engine returned %d channels, expected %d", result.Channels, output.Channels())
	}
	if roi.X < 0 || roi.Y < 0 || roi.Right() > result.Width || roi.Bottom() > result.Height {
		return fmt.Errorf("engine output %dx%d does not cover region %+v", result.Width, result.Height, roi)
	}

	channels := output.Channels()
	for y := 0; y < roi.Height; y++ {
		for x := 0; x < roi.Width; x++ {
			src := result.offset(roi.Y+y, roi.X+x)
			dst := output.PixOffset(x, y)
			for c := 0; c < channels; c++ {
				output.Pix[dst+c] = saturate(result.Data[src+c] * 255)
			}
		}
	}
	return nil
}

func saturate(v float32) uint8 {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(roundEven(float64(v)))
}

// Close releases the engine. It is safe to call more than once.
func (p *Processor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !atomic.CompareAndSwapInt32(&p.isValid, 1, 0) {
		return nil
	}
	runtime.SetFinalizer(p, nil)

	if err := p.engine.Close(); err != nil {
		return fmt.Errorf("failed to release segmentation engine: %w", err)
	}
	p.log.Debug(component, "processor closed", nil)
	return nil
}

func (p *Processor) finalize() {
	if atomic.LoadInt32(&p.isValid) != 1 {
		return
	}
	p.log.Warning(component, "processor released by finalizer; call Close", nil)
	if err := p.Close(); err != nil {
		p.log.Error(component, err, nil)
	}
}
