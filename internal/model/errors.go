package model

import (
	"errors"
	"math"
)

var (
	// ErrInvalidConfiguration is returned for malformed or out-of-range
	// configuration. It is always raised before any hour is simulated.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidCurveLength is returned when a price curve does not match the
	// expected length.
	ErrInvalidCurveLength = errors.New("invalid curve length")

	ErrUnsupportedScenario = errors.New("unsupported scenario")
	ErrUnsupportedWeather  = errors.New("unsupported weather")
)

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
