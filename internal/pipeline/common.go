package pipeline

import (
	"context"

	"color-transfer/internal/logger"
)

type Logger = logger.Logger

type TimingTracker interface {
	StartTiming(operation string) context.Context
	EndTiming(ctx context.Context)
}
