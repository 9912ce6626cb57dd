package colortransfer

import (
	"fmt"

	"color-transfer/internal/models"
)

const AlgorithmName = "Iterative Distribution Transfer"

// Processor exposes the transfer through the map-based algorithm registry.
type Processor struct {
	params models.AlgorithmParameters
}

func NewProcessor() *Processor {
	defaults := DefaultParameters().Map()
	return &Processor{
		params: models.AlgorithmParameters{
			Name:       AlgorithmName,
			Parameters: defaults,
			Defaults:   DefaultParameters().Map(),
			Ranges: map[string]models.ParameterRange{
				"damping_factor": {Min: 0.0, Max: 1.0, MinExclusive: true},
				"iterations":     {Min: 1, Max: MaxIterations},
				"histogram_bins": {Min: 4, Max: 256},
			},
		},
	}
}

// ParameterRanges returns the accepted range of every parameter.
func (p *Processor) ParameterRanges() map[string]models.ParameterRange {
	return p.params.Copy().Ranges
}

func (p *Processor) GetName() string {
	return AlgorithmName
}

func (p *Processor) GetDefaultParameters() map[string]interface{} {
	return p.params.Copy().Defaults
}

func (p *Processor) ValidateParameters(params map[string]interface{}) error {
	for name, value := range params {
		if err := p.params.ValidateParameter(name, value); err != nil {
			return err
		}
	}
	parsed, err := ParametersFromMap(params)
	if err != nil {
		return err
	}
	return parsed.Validate()
}

func (p *Processor) GenerateLUT(input, reference *models.Image, params map[string]interface{}) (*models.TransferResult, error) {
	parsed, err := ParametersFromMap(params)
	if err != nil {
		return nil, fmt.Errorf("parameter parsing failed: %w", err)
	}

	result, err := Generate(input, reference, parsed)
	if err != nil {
		return nil, err
	}

	return &models.TransferResult{
		Algorithm:  AlgorithmName,
		LUT:        result.LUT,
		Degenerate: result.Degenerate,
	}, nil
}
