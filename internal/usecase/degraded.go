package usecase

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/fincontrol/internal/infrastructure/metrics"
)

// Degraded is an analytics result that may have fallen back to a neutral
// value. Value is always usable; Cause records why it was substituted.
type Degraded[T any] struct {
	Value T
	Cause error
}

// IsDegraded reports whether Value is a fallback.
func (d Degraded[T]) IsDegraded() bool {
	return d.Cause != nil
}

// degradationRecorder logs and counts fallbacks.
type degradationRecorder struct {
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func (r degradationRecorder) record(operation, ownerID string, cause error) {
	r.logger.Warn().
		Err(cause).
		Str("operation", operation).
		Str("owner_id", ownerID).
		Msg("analytics degraded to neutral result")

	if r.metrics != nil {
		r.metrics.AnalyticsDegraded.WithLabelValues(operation).Inc()
	}
}

// guard runs fn and turns a returned error or a panic into a degraded
// result carrying fallback.
func guard[T any](r degradationRecorder, operation, ownerID string, fallback T, fn func() (T, error)) (out Degraded[T]) {
	defer func() {
		if p := recover(); p != nil {
			cause := fmt.Errorf("panic in %s: %v", operation, p)
			r.record(operation, ownerID, cause)
			out = Degraded[T]{Value: fallback, Cause: cause}
		}
	}()

	value, err := fn()
	if err != nil {
		r.record(operation, ownerID, err)
		return Degraded[T]{Value: fallback, Cause: err}
	}
	return Degraded[T]{Value: value}
}
