package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource Errors
	ErrNotFound = errors.New("resource not found")

	// Input Errors
	ErrValidation = errors.New("validation error") // Malformed or out-of-range input

	// Generation & External Service Errors
	ErrGeneration           = errors.New("narrative generation failed")     // Gateway call failed or returned a shape-invalid response
	ErrExternalService      = errors.New("external service request failed") // Speech synthesis upstream failure
	ErrStoryConcluded       = errors.New("story has reached its ending")    // Terminal state: no further choices offered
	ErrGenerationInProgress = errors.New("generation is already in progress for this story")

	// General Server Errors
	ErrInternalServer = errors.New("internal server error")
)

// Machine-readable error codes returned in API error responses.
const (
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeStoryConcluded       = "STORY_CONCLUDED"
	ErrCodeGenerationInProgress = "GENERATION_IN_PROGRESS"
	ErrCodeGenerationFailed     = "GENERATION_FAILED"
	ErrCodeExternalService      = "EXTERNAL_SERVICE_ERROR"
	ErrCodeInternal             = "INTERNAL_SERVER_ERROR"
)

// ErrorResponse описывает стандартное тело ошибки API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
