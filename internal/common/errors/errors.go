// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"loan-journey-workers/internal/journey"
	"loan-journey-workers/internal/journey/agreement"
	"loan-journey-workers/internal/journey/kyc"
	"loan-journey-workers/internal/journey/offers"
	"loan-journey-workers/internal/journey/wizard"
	"loan-journey-workers/internal/notify"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Journey state errors; thrown to the process, never retried.
	ErrCodeUnknownStep       ErrorCode = "UNKNOWN_STEP"
	ErrCodeUnknownDocument   ErrorCode = "UNKNOWN_DOCUMENT"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeMissingDocument   ErrorCode = "MISSING_DOCUMENT_FILE"
	ErrCodeUnknownKYCMethod  ErrorCode = "UNKNOWN_KYC_METHOD"
	ErrCodeTermsNotAccepted  ErrorCode = "TERMS_NOT_ACCEPTED"
	ErrCodeOfferNotFound     ErrorCode = "OFFER_NOT_FOUND"
	ErrCodeDecisionPending   ErrorCode = "LENDER_DECISION_PENDING"
	ErrCodeInvalidJobInput   ErrorCode = "INVALID_JOB_INPUT"
	ErrCodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeTemplateNotFound  ErrorCode = "NOTIFICATION_TEMPLATE_NOT_FOUND"

	// Infrastructure errors; retried.
	ErrCodeSessionStoreFailed     ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeBrokerUnavailable      ErrorCode = "BROKER_UNAVAILABLE"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeJobTimeout             ErrorCode = "JOB_TIMEOUT"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error { return e.cause }

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	e := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

func NewInvalidJobInputError(err error) *StandardError {
	return newError(ErrCodeInvalidJobInput, "Job variables do not match the activity input", err, false)
}

func NewSessionNotFoundError(applicationID string, err error) *StandardError {
	e := newError(ErrCodeSessionNotFound, "Journey session not found", err, false)
	e.Metadata = map[string]interface{}{"applicationId": applicationID}
	return e
}

func NewSessionStoreFailedError(err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "Journey session store unavailable", err, true)
}

func NewBrokerUnavailableError(err error) *StandardError {
	return newError(ErrCodeBrokerUnavailable, "Zeebe gateway unavailable", err, true)
}

func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, fmt.Sprintf("Failed to send %s notification", notificationType), err, true)
}

func NewTimeoutError(operation string, err error) *StandardError {
	return newError(ErrCodeJobTimeout, fmt.Sprintf("%s timed out", operation), err, true)
}

// ==========================
// 4. Domain Error Classification
// ==========================

var domainCodes = []struct {
	target  error
	code    ErrorCode
	message string
}{
	{journey.ErrUnknownStep, ErrCodeUnknownStep, "Unknown journey step"},
	{journey.ErrUnknownDocument, ErrCodeUnknownDocument, "Unknown KYC document"},
	{kyc.ErrMissingFile, ErrCodeMissingDocument, "No file chosen for document upload"},
	{kyc.ErrUnknownMethod, ErrCodeUnknownKYCMethod, "Unknown KYC verification method"},
	{kyc.ErrInvalidTransition, ErrCodeInvalidTransition, "Action not allowed at the current KYC stage"},
	{agreement.ErrTermsNotAccepted, ErrCodeTermsNotAccepted, "Loan documents must be accepted before e-sign"},
	{agreement.ErrInvalidTransition, ErrCodeInvalidTransition, "Action not allowed at the current agreement stage"},
	{offers.ErrOfferNotFound, ErrCodeOfferNotFound, "Offer not found"},
	{wizard.ErrDecisionPending, ErrCodeDecisionPending, "Lender decision not available yet"},
	{notify.ErrTemplateNotFound, ErrCodeTemplateNotFound, "Notification template not found"},
}

// Classify turns any error raised while handling a job into a
// StandardError. StandardErrors pass through unchanged.
func Classify(err error) *StandardError {
	if err == nil {
		return nil
	}

	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	for _, d := range domainCodes {
		if stderrors.Is(err, d.target) {
			return newError(d.code, d.message, err, false)
		}
	}

	switch {
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		return NewTimeoutError("job", err)
	case stderrors.Is(err, notify.ErrSendFailed):
		return NewNotificationSendFailedError("journey", err)
	}

	return newError(ErrCodeInternal, "Unexpected error", err, false)
}

// ==========================
// 5. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSessionStoreFailed,
		ErrCodeBrokerUnavailable,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeJobTimeout:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 6. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "TIMEOUT") || code == ErrCodeBrokerUnavailable:
		return "TIMEOUT"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "UNKNOWN") || strings.Contains(codeStr, "MISSING"):
		return "VALIDATION"
	case code == ErrCodeTermsNotAccepted || code == ErrCodeOfferNotFound || code == ErrCodeDecisionPending:
		return "JOURNEY"
	default:
		return "OTHER"
	}
}
