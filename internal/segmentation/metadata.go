package segmentation

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type AddressMode int

const (
	AddressClampToEdge AddressMode = iota
	AddressClampToZero
)

func (m AddressMode) String() string {
	if m == AddressClampToZero {
		return "ClampToZero"
	}
	return "ClampToEdge"
}

type PaddingMode int

const (
	PaddingZero PaddingMode = iota
	PaddingFromSource
)

func (m PaddingMode) String() string {
	if m == PaddingFromSource {
		return "FromSource"
	}
	return "Zero"
}

type Interpolation int

const (
	InterpolationBilinear Interpolation = iota
	InterpolationNearest
)

func (i Interpolation) String() string {
	if i == InterpolationNearest {
		return "Nearest"
	}
	return "Bilinear"
}

type ScalingMode int

const (
	ScalingAspectFit ScalingMode = iota
	ScalingAspectFill
)

func (m ScalingMode) String() string {
	if m == ScalingAspectFill {
		return "AspectFill"
	}
	return "AspectFit"
}

// Metadata is the model descriptor shipped next to a segmentation model.
// It is JSON; the YAML decoder reads it as a flow document.
type Metadata struct {
	Inputs map[string]InputMetadata `yaml:"inputs_metadata"`
}

type InputMetadata struct {
	ResizeStrategy ResizeStrategyMetadata `yaml:"resize_strategy"`
	InputSizes     [][]int                `yaml:"input_sizes"`
}

type ResizeStrategyMetadata struct {
	AddressMode   string `yaml:"addressMode"`
	Padding       string `yaml:"padding"`
	Interpolation string `yaml:"interpolation"`
	Mode          string `yaml:"mode"`
}

func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model metadata: %w", err)
	}
	return &m, nil
}

// Strategy builds the resize strategy of the named input. An input without
// declared sizes uses the engine's default input size.
func (m *Metadata) Strategy(inputName string, defaultSize Size) (*ResizeStrategy, error) {
	input, ok := m.Inputs[inputName]
	if !ok {
		return nil, fmt.Errorf("model metadata has no entry for input '%s'", inputName)
	}

	rs := input.ResizeStrategy
	strategy := &ResizeStrategy{}
	var err error

	if strategy.AddressMode, err = parseAddressMode(rs.AddressMode); err != nil {
		return nil, err
	}
	if strategy.Padding, err = parsePaddingMode(rs.Padding); err != nil {
		return nil, err
	}
	if strategy.Interpolation, err = parseInterpolation(rs.Interpolation); err != nil {
		return nil, err
	}
	if strategy.Scaling, err = parseScalingMode(rs.Mode); err != nil {
		return nil, err
	}

	for i, pair := range input.InputSizes {
		if len(pair) != 2 || pair[0] <= 0 || pair[1] <= 0 {
			return nil, fmt.Errorf("input size %d of '%s' must be a positive [width, height] pair, got %v",
				i, inputName, pair)
		}
		strategy.SupportedSizes = append(strategy.SupportedSizes, Size{Width: pair[0], Height: pair[1]})
	}
	if len(strategy.SupportedSizes) == 0 {
		strategy.SupportedSizes = []Size{defaultSize}
	}

	return strategy, nil
}

func parseAddressMode(s string) (AddressMode, error) {
	switch s {
	case "ClampToEdge":
		return AddressClampToEdge, nil
	case "ClampToZero":
		return AddressClampToZero, nil
	}
	return 0, fmt.Errorf("address mode '%s' is not supported", s)
}

func parsePaddingMode(s string) (PaddingMode, error) {
	switch s {
	case "Zero":
		return PaddingZero, nil
	case "FromSource":
		return PaddingFromSource, nil
	}
	return 0, fmt.Errorf("padding mode '%s' is not supported", s)
}

func parseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "Bilinear":
		return InterpolationBilinear, nil
	case "Nearest":
		return InterpolationNearest, nil
	}
	return 0, fmt.Errorf("interpolation '%s' is not supported", s)
}

func parseScalingMode(s string) (ScalingMode, error) {
	switch s {
	case "AspectFill":
		return ScalingAspectFill, nil
	case "AspectFit":
		return ScalingAspectFit, nil
	}
	return 0, fmt.Errorf("scaling mode '%s' is not supported", s)
}
