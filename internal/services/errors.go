package services

import (
	"errors"

	apperrors "github.com/InoshikaFernando/CWA-SCHOOL-sub000/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")

	// Level / question store errors
	ErrLevelNotFound = errors.New("level not found")

	// Scoring errors. A discardable attempt producing no score is the
	// expected outcome for fragmentary data, not a failure; callers use
	// this sentinel to distinguish "no score" from real errors.
	ErrAttemptNotScorable = errors.New("attempt is not scorable")

	// Statistics errors. Pairs with fewer than two learners have no
	// usable population; banding against them is refused.
	ErrInsufficientData = errors.New("insufficient data for statistics")

	// Drill generation errors
	ErrUnknownDrillTier = errors.New("unknown drill difficulty tier")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrLevelNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsNotScorable checks if error represents the no-score outcome
func IsNotScorable(err error) bool {
	return errors.Is(err, ErrAttemptNotScorable)
}
