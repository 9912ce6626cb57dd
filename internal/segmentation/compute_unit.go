package segmentation

import (
	"fmt"
	"strings"
)

// ComputeUnit is the hardware backend an inference engine runs on.
type ComputeUnit int

const (
	ComputeUnitCPU ComputeUnit = iota
	ComputeUnitGPU
	ComputeUnitDoNotCare
)

func (u ComputeUnit) String() string {
	switch u {
	case ComputeUnitCPU:
		return "cpu"
	case ComputeUnitGPU:
		return "gpu"
	case ComputeUnitDoNotCare:
		return "dont_care"
	default:
		return fmt.Sprintf("ComputeUnit(%d)", int(u))
	}
}

func ParseComputeUnit(s string) (ComputeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpu":
		return ComputeUnitCPU, nil
	case "gpu":
		return ComputeUnitGPU, nil
	case "dont_care", "do_not_care", "any", "":
		return ComputeUnitDoNotCare, nil
	default:
		return ComputeUnitCPU, fmt.Errorf("unknown compute unit: %q", s)
	}
}

// CapabilityProvider reports the backends usable on this host, best first.
type CapabilityProvider interface {
	SupportedUnits() []ComputeUnit
}

// StaticCapabilities is a fixed ranking.
type StaticCapabilities []ComputeUnit

func (s StaticCapabilities) SupportedUnits() []ComputeUnit {
	return s
}

// CPUOnly is the capability set of a host without accelerators.
var CPUOnly = StaticCapabilities{ComputeUnitCPU}

func supports(units []ComputeUnit, unit ComputeUnit) bool {
	for _, u := range units {
		if u == unit {
			return true
		}
	}
	return false
}

// SelectComputeUnit picks the backend to run on. CPU requests are always
// honoured; a GPU request is honoured only when the host supports it;
// DoNotCare takes the best-ranked concrete backend. Everything else falls
// back to CPU.
func SelectComputeUnit(requested ComputeUnit, caps CapabilityProvider) ComputeUnit {
	if requested == ComputeUnitCPU || caps == nil {
		return ComputeUnitCPU
	}

	units := caps.SupportedUnits()
	switch requested {
	case ComputeUnitGPU:
		if supports(units, ComputeUnitGPU) {
			return ComputeUnitGPU
		}
	case ComputeUnitDoNotCare:
		for _, u := range units {
			if u == ComputeUnitGPU || u == ComputeUnitCPU {
				return u
			}
		}
	}
	return ComputeUnitCPU
}
