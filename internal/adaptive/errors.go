package adaptive

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrInvalidScore      = errors.New("score is not a finite number")
	ErrUnknownDifficulty = errors.New("unknown difficulty level")
	ErrTopicNotFound     = errors.New("topic not found in course")
	ErrMalformedForecast = errors.New("malformed forecast response")
)

// run calls fn and turns a panic into an error so that every component can
// be replaced by its fallback value.
func run[T any](component string, fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out = zero
			err = fmt.Errorf("%s panicked: %v", component, r)
		}
	}()
	return fn()
}

// recordFallback logs and counts a fallback substitution.
func recordFallback(component string, err error) {
	slog.Warn("adaptive component failed, using fallback",
		"component", component,
		"error", err,
	)
	fallbacksTotal.WithLabelValues(component).Inc()
}
