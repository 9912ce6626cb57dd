package pipeline

import (
	"context"
	"sort"
	"sync"
	"time"
)

type timingKey struct{}

type timingInfo struct {
	operation string
	start     time.Time
}

// Tracker records durations per operation and logs each one at debug level.
type Tracker struct {
	timings map[string][]time.Duration
	mu      sync.RWMutex
	logger  Logger
}

func NewTracker(logger Logger) *Tracker {
	return &Tracker{
		timings: make(map[string][]time.Duration),
		logger:  logger,
	}
}

func (tt *Tracker) StartTiming(operation string) context.Context {
	return context.WithValue(context.Background(), timingKey{}, timingInfo{
		operation: operation,
		start:     time.Now(),
	})
}

func (tt *Tracker) EndTiming(ctx context.Context) {
	info, ok := ctx.Value(timingKey{}).(timingInfo)
	if !ok {
		return
	}

	duration := time.Since(info.start)

	tt.mu.Lock()
	tt.timings[info.operation] = append(tt.timings[info.operation], duration)
	tt.mu.Unlock()

	if tt.logger != nil {
		tt.logger.Debug("Timing", "operation completed", map[string]interface{}{
			"operation": info.operation,
			"duration":  duration.String(),
		})
	}
}

func (tt *Tracker) GetTimings(operation string) []time.Duration {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	timings := tt.timings[operation]
	if timings == nil {
		return nil
	}

	result := make([]time.Duration, len(timings))
	copy(result, timings)
	return result
}

func (tt *Tracker) GetAverageTime(operation string) time.Duration {
	timings := tt.GetTimings(operation)
	if len(timings) == 0 {
		return 0
	}

	var total time.Duration
	for _, duration := range timings {
		total += duration
	}

	return total / time.Duration(len(timings))
}

// Operations returns the recorded operation names in sorted order.
func (tt *Tracker) Operations() []string {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	ops := make([]string, 0, len(tt.timings))
	for op := range tt.timings {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}
