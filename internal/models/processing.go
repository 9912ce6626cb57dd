package models

import "fmt"

// ParameterRange defines valid range for a parameter. Bounds are
// inclusive unless the matching Exclusive flag is set.
type ParameterRange struct {
	Min          interface{}
	Max          interface{}
	MinExclusive bool
	MaxExclusive bool
	Options      []interface{}
}

// Interval renders the range in interval notation, e.g. "(0, 1]", or the
// option list when the range is an enumeration.
func (r ParameterRange) Interval() string {
	if len(r.Options) > 0 {
		return fmt.Sprintf("%v", r.Options)
	}
	left, right := "[", "]"
	if r.MinExclusive {
		left = "("
	}
	if r.MaxExclusive {
		right = ")"
	}
	return fmt.Sprintf("%s%v, %v%s", left, r.Min, r.Max, right)
}

func (r ParameterRange) describe() string {
	if len(r.Options) > 0 {
		return "must be one of " + r.Interval()
	}
	return "must be in range " + r.Interval()
}

// AlgorithmParameters contains algorithm-specific configuration
type AlgorithmParameters struct {
	Name       string
	Parameters map[string]interface{}
	Defaults   map[string]interface{}
	Ranges     map[string]ParameterRange
}

// Copy returns a deep copy of the parameter maps.
func (ap AlgorithmParameters) Copy() AlgorithmParameters {
	dst := AlgorithmParameters{
		Name:       ap.Name,
		Parameters: make(map[string]interface{}, len(ap.Parameters)),
		Defaults:   make(map[string]interface{}, len(ap.Defaults)),
		Ranges:     make(map[string]ParameterRange, len(ap.Ranges)),
	}
	for k, v := range ap.Parameters {
		dst.Parameters[k] = v
	}
	for k, v := range ap.Defaults {
		dst.Defaults[k] = v
	}
	for k, v := range ap.Ranges {
		dst.Ranges[k] = v
	}
	return dst
}

// ValidateParameter checks value against the declared range for name.
// Parameters without a range are accepted as-is.
func (ap AlgorithmParameters) ValidateParameter(name string, value interface{}) error {
	paramRange, hasRange := ap.Ranges[name]
	if !hasRange {
		return nil
	}

	if len(paramRange.Options) > 0 {
		for _, option := range paramRange.Options {
			if value == option {
				return nil
			}
		}
		return NewValidationError(name, value, paramRange.describe())
	}

	switch v := value.(type) {
	case int:
		if min, ok := paramRange.Min.(int); ok && (v < min || paramRange.MinExclusive && v == min) {
			return NewValidationError(name, value, paramRange.describe())
		}
		if max, ok := paramRange.Max.(int); ok && (v > max || paramRange.MaxExclusive && v == max) {
			return NewValidationError(name, value, paramRange.describe())
		}
	case float64:
		if min, ok := paramRange.Min.(float64); ok && (v < min || paramRange.MinExclusive && v == min) {
			return NewValidationError(name, value, paramRange.describe())
		}
		if max, ok := paramRange.Max.(float64); ok && (v > max || paramRange.MaxExclusive && v == max) {
			return NewValidationError(name, value, paramRange.describe())
		}
		if v != v {
			return NewValidationError(name, value, paramRange.describe())
		}
	default:
		return NewValidationError(name, fmt.Sprintf("%T", value), "has unsupported type")
	}

	return nil
}

// TransferResult is the output of every LUT-producing algorithm.
type TransferResult struct {
	Algorithm string
	LUT       *Image
	// Degenerate is set when an empty sample set forced an identity LUT.
	Degenerate bool
}
