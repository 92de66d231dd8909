// Package validation provides common validation utilities for the streamio library.
package validation

import (
	"fmt"

	sioerrors "github.com/vnykmshr/streamio/pkg/common/errors"
)

// ValidatePositive validates that an integer value is positive (> 0).
func ValidatePositive(module, field string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%s: %s must be positive, got %d: %w",
			module, field, value, sioerrors.ErrInvalidConfiguration)
	}
	return nil
}

// ValidateNotNil validates that an interface value is not nil.
func ValidateNotNil(module, field string, value interface{}) error {
	if value == nil {
		return fmt.Errorf("%s: %s cannot be nil: %w",
			module, field, sioerrors.ErrInvalidConfiguration)
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return fmt.Errorf("%s: %s cannot be empty: %w",
			module, field, sioerrors.ErrInvalidConfiguration)
	}
	return nil
}
