package segmentation

import "fmt"

// Tensor is a dense float32 buffer in height, width, channel order.
type Tensor struct {
	Height   int
	Width    int
	Channels int
	Data     []float32
}

func NewTensor(height, width, channels int) *Tensor {
	return &Tensor{
		Height:   height,
		Width:    width,
		Channels: channels,
		Data:     make([]float32, height*width*channels),
	}
}

func (t *Tensor) offset(y, x int) int {
	return (y*t.Width + x) * t.Channels
}

func (t *Tensor) At(y, x, c int) float32 {
	return t.Data[t.offset(y, x)+c]
}

func (t *Tensor) Set(y, x, c int, v float32) {
	t.Data[t.offset(y, x)+c] = v
}

func (t *Tensor) validate(name string) error {
	if t == nil {
		return fmt.Errorf("%s tensor is nil", name)
	}
	if t.Height <= 0 || t.Width <= 0 || t.Channels <= 0 {
		return fmt.Errorf("%s tensor has invalid shape %dx%dx%d", name, t.Height, t.Width, t.Channels)
	}
	if len(t.Data) != t.Height*t.Width*t.Channels {
		return fmt.Errorf("%s tensor holds %d values, shape %dx%dx%d needs %d",
			name, len(t.Data), t.Height, t.Width, t.Channels, t.Height*t.Width*t.Channels)
	}
	return nil
}

// Engine is an opaque inference backend. It accepts an RGB tensor with
// values in [0, 1] of any supported size and returns a tensor of the same
// height and width holding OutputChannels mask probabilities per pixel.
type Engine interface {
	InputName() string
	DefaultInputSize() Size
	OutputChannels() int
	Invoke(input *Tensor) (*Tensor, error)
	Close() error
}

// EngineLoader instantiates an engine for a compute unit. Loaders report
// an error when the unit cannot be initialised on this host.
type EngineLoader interface {
	Load(unit ComputeUnit) (Engine, error)
}

type EngineLoaderFunc func(unit ComputeUnit) (Engine, error)

func (f EngineLoaderFunc) Load(unit ComputeUnit) (Engine, error) {
	return f(unit)
}
