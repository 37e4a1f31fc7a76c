package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeConfiguration = "CONFIGURATION_ERROR"

	// ErrCodeProvider marks a search/lookup collaborator failure. Recovered
	// locally: the stage records an error marker and the run continues.
	ErrCodeProvider = "PROVIDER_ERROR"

	// ErrCodeEvaluationSkipped marks a scoring stage with no offers to score.
	// A legitimate, non-error terminal for that stage.
	ErrCodeEvaluationSkipped = "EVALUATION_SKIPPED"

	// ErrCodeIndexingPartial marks a subject index where one source-record
	// group failed while the others still indexed.
	ErrCodeIndexingPartial = "INDEXING_PARTIAL_FAILURE"

	// ErrCodeRetrievalDegraded marks a retrieval that fell back to an empty
	// context because the store or embedder was unavailable.
	ErrCodeRetrievalDegraded = "RETRIEVAL_DEGRADED"
)

// Validation errors
var (
	ErrInvalidSourceType = NewDomainError(ErrCodeValidation, "invalid chunk source type")
	ErrInvalidOfferKind  = NewDomainError(ErrCodeValidation, "invalid offer kind")
	ErrMissingSubject    = NewDomainError(ErrCodeValidation, "subject id is required")
	ErrMissingQuery      = NewDomainError(ErrCodeValidation, "query text is required")
)

// Not found errors
var (
	ErrBookingNotFound  = NewDomainError(ErrCodeNotFound, "booking not found")
	ErrTripPlanNotFound = NewDomainError(ErrCodeNotFound, "trip plan not found")
	ErrProfileNotFound  = NewDomainError(ErrCodeNotFound, "traveler profile not found")
	ErrDocumentNotFound = NewDomainError(ErrCodeNotFound, "document not found")
)

// Configuration errors surface to the caller as-is; they are the only
// failures this core does not recover from.
var (
	ErrNoProvidersConfigured = NewDomainError(ErrCodeConfiguration, "no search providers configured")
)

// EvaluationSkipped builds the non-fatal marker for a scoring stage that had
// nothing to score.
func EvaluationSkipped(reason string) *DomainError {
	return NewDomainError(ErrCodeEvaluationSkipped, reason)
}
