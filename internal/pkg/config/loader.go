// Package config provides environment variable loaders with validation and
// fallback-to-default behavior. Loaders never fail: an invalid value falls
// back to the default and surfaces a warning so a typo in deployment config
// degrades gracefully instead of crashing the worker.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Result is the outcome of loading one configuration value: the effective
// value, any warnings generated, and whether the default was applied because
// validation or parsing failed.
type Result[T any] struct {
	Value           T
	Warnings        []string
	FallbackApplied bool
}

func fallback[T any](envKey, raw string, def T, err error) Result[T] {
	warning := fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'", envKey, raw, err, def)
	return Result[T]{Value: def, Warnings: []string{warning}, FallbackApplied: true}
}

// String loads a string from an environment variable, returning the default
// when unset. No validation is performed.
func String(envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}

// StringWithValidator loads a string and validates it, falling back to the
// default with a warning when validation fails.
func StringWithValidator(envKey, defaultValue string, validator func(string) error) Result[string] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[string]{Value: defaultValue}
	}
	if validator != nil {
		if err := validator(raw); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}
	return Result[string]{Value: raw}
}

// Duration loads a time.Duration, falling back to the default with a warning
// on parse or validation failure.
func Duration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) Result[time.Duration] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[time.Duration]{Value: defaultValue}
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fallback(envKey, raw, defaultValue, err)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}
	return Result[time.Duration]{Value: parsed}
}

// Int loads an integer, falling back to the default with a warning on parse
// or validation failure.
func Int(envKey string, defaultValue int, validator func(int) error) Result[int] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[int]{Value: defaultValue}
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback(envKey, raw, defaultValue, fmt.Errorf("invalid integer format"))
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}
	return Result[int]{Value: parsed}
}

// Bool loads a boolean using strconv.ParseBool semantics, falling back to
// the default with a warning on parse failure.
func Bool(envKey string, defaultValue bool) Result[bool] {
	raw := os.Getenv(envKey)
	if raw == "" {
		return Result[bool]{Value: defaultValue}
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback(envKey, raw, defaultValue, fmt.Errorf("invalid boolean format"))
	}
	return Result[bool]{Value: parsed}
}

// ValidatePositiveDuration rejects zero and negative durations.
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("must be positive, got %v", d)
	}
	return nil
}

// ValidateIntRange returns a validator enforcing min <= v <= max.
func ValidateIntRange(min, max int) func(int) error {
	return func(v int) error {
		if v < min || v > max {
			return fmt.Errorf("must be between %d and %d, got %d", min, max, v)
		}
		return nil
	}
}
