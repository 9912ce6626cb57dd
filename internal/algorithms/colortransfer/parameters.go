package colortransfer

import (
	"color-transfer/internal/models"
	"color-transfer/internal/processing/histogram"
	"color-transfer/internal/processing/matching"
)

const (
	DefaultDampingFactor = 0.5
	DefaultIterations    = 10
	DefaultHistogramBins = 32

	// smoothingSigma is the gaussian applied to every axis histogram, in bins.
	smoothingSigma = 1.0
)

// Parameters controls the transfer. Higher damping converges faster but
// bands more; more iterations trade time for a closer match.
type Parameters struct {
	DampingFactor float64
	Iterations    int
	HistogramBins int
}

func DefaultParameters() Parameters {
	return Parameters{
		DampingFactor: DefaultDampingFactor,
		Iterations:    DefaultIterations,
		HistogramBins: DefaultHistogramBins,
	}
}

// Validate checks every range and reports the first violation.
func (p Parameters) Validate() error {
	if err := matching.ValidateDamping(p.DampingFactor); err != nil {
		return err
	}
	if p.Iterations < 1 || p.Iterations > MaxIterations {
		return models.NewValidationError("iterations", p.Iterations, "must be in range [1, 50]")
	}
	return histogram.ValidateBins(p.HistogramBins)
}

// Map renders the parameters with the keys used by the algorithm registry.
func (p Parameters) Map() map[string]interface{} {
	return map[string]interface{}{
		"damping_factor": p.DampingFactor,
		"iterations":     p.Iterations,
		"histogram_bins": p.HistogramBins,
	}
}

// ParametersFromMap overlays recognised keys onto the defaults. Integers
// are accepted for damping_factor; a value of the wrong type is rejected.
func ParametersFromMap(params map[string]interface{}) (Parameters, error) {
	p := DefaultParameters()

	if v, exists := params["damping_factor"]; exists {
		switch d := v.(type) {
		case float64:
			p.DampingFactor = d
		case float32:
			p.DampingFactor = float64(d)
		case int:
			p.DampingFactor = float64(d)
		default:
			return p, models.NewValidationError("damping_factor", v, "must be a number")
		}
	}

	if v, exists := params["iterations"]; exists {
		iterations, ok := v.(int)
		if !ok {
			return p, models.NewValidationError("iterations", v, "must be an integer")
		}
		p.Iterations = iterations
	}

	if v, exists := params["histogram_bins"]; exists {
		bins, ok := v.(int)
		if !ok {
			return p, models.NewValidationError("histogram_bins", v, "must be an integer")
		}
		p.HistogramBins = bins
	}

	return p, nil
}
