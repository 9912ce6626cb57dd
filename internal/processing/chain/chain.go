// Package chain runs an ordered list of OpenCV steps, releasing each
// intermediate Mat as soon as the next step has consumed it.
package chain

import (
	"context"
	"fmt"

	"color-transfer/internal/opencv/safe"
)

type ProcessingStep interface {
	Apply(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error)
	Name() string
	ShouldExecute(params map[string]interface{}) bool
}

type ProcessingChain struct {
	steps []ProcessingStep
}

func NewProcessingChain(steps ...ProcessingStep) *ProcessingChain {
	return &ProcessingChain{steps: steps}
}

// Execute never closes input. The returned Mat is owned by the caller and
// is a clone of input when no step ran.
func (pc *ProcessingChain) Execute(ctx context.Context, input *safe.Mat, params map[string]interface{}) (*safe.Mat, error) {
	current := input

	release := func() {
		if current != input {
			current.Close()
		}
	}

	for _, step := range pc.steps {
		if err := ctx.Err(); err != nil {
			release()
			return nil, err
		}

		if !step.ShouldExecute(params) {
			continue
		}

		result, err := step.Apply(ctx, current, params)
		if err != nil {
			release()
			return nil, fmt.Errorf("step %s failed: %w", step.Name(), err)
		}

		release()
		current = result
	}

	if current == input {
		return input.Clone()
	}
	return current, nil
}
