// Package errors provides common, reusable error values and helpers.
package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Pipeline errors
	ErrPrimaryVerificationFailed = errors.New("primary verification failed")
	ErrIDNotFound                = errors.New("identifier not found at verification source")
	ErrNetworkFailure            = errors.New("verification service unreachable")
	ErrInvalidTier               = errors.New("invalid verification tier")
	ErrRunSuperseded             = errors.New("verification run superseded by a newer submission")

	// Session errors
	ErrSessionNotFound    = errors.New("session not found")
	ErrProfileNotFound    = errors.New("no generated profile in session")
	ErrEmailNotConfigured = errors.New("no email configured for session")

	// Export and delivery errors
	ErrPDFGenerationFailed   = errors.New("pdf generation failed")
	ErrExcelGenerationFailed = errors.New("excel generation failed")
	ErrEmailDeliveryFailed   = errors.New("email delivery failed")
	ErrUnknownExportFormat   = errors.New("unknown export format")
)

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
