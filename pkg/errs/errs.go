// Package errs holds the error taxonomy shared by the glosstip packages.
//
// Only invalid construction or call inputs are errors. Absent glossary keys
// and geometry that cannot fit are normal outcomes and never surface here.
package errs

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("glosstip: invalid configuration")

// ConfigurationError reports an invalid input to a constructor or resolver.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("glosstip: invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("glosstip: invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrConfiguration) match any configuration error.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Config builds a *ConfigurationError.
func Config(field string, value any, reason string) error {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}

// IsConfiguration reports whether err is, or wraps, a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
