// Package errors defines the domain error kinds surfaced at the core's
// ingestion and configuration boundaries (spec §7). The comparator and
// discovery engine never return these: anomalous inputs there produce
// well-formed zero results instead (see internal/comparator).
package errors

import (
	"fmt"

	"github.com/audiodup/audiodup/internal/metrics"
)

// DomainError is a standardized error for the catalog/config boundary.
type DomainError struct {
	Code    ErrorCode
	Message string
	Details string
}

func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newDomainError(code ErrorCode, message, details string) *DomainError {
	metrics.Get().ErrorsTotal.WithLabelValues(string(code)).Inc()
	return &DomainError{Code: code, Message: message, Details: details}
}

// InvalidFingerprint signals that a Fingerprint violates a §3 invariant:
// empty data, non-positive duration, or length past the sanity bound.
func InvalidFingerprint(reason string) *DomainError {
	return newDomainError(ErrInvalidFingerprint, "invalid fingerprint", reason)
}

// IndexNotInitialized signals an operation on a cleared or never-built
// catalog.
func IndexNotInitialized() *DomainError {
	return newDomainError(ErrIndexNotInitialized, "index has not been initialized", "")
}

// InvalidConfiguration signals a setter rejecting an out-of-range value.
func InvalidConfiguration(field, reason string) *DomainError {
	return newDomainError(ErrInvalidConfiguration, fmt.Sprintf("invalid configuration for %s", field), reason)
}

// OutOfRange signals GetFile (or similar lookups) being handed an
// unknown id. Callers should treat this as a missing value, not a fault.
func OutOfRange(what string) *DomainError {
	return newDomainError(ErrOutOfRange, fmt.Sprintf("%s out of range", what), "")
}

// WithDetails returns a copy of e with Details set.
func (e *DomainError) WithDetails(details string) *DomainError {
	clone := *e
	clone.Details = details
	return &clone
}
