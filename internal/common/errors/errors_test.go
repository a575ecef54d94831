package errors

import (
	"context"
	"fmt"
	"testing"

	"loan-journey-workers/internal/journey"
	"loan-journey-workers/internal/journey/kyc"
	"loan-journey-workers/internal/journey/offers"
	"loan-journey-workers/internal/journey/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      ErrorCode
		retryable bool
	}{
		{"unknown step", fmt.Errorf("set step: %w", journey.ErrUnknownStep), ErrCodeUnknownStep, false},
		{"upload without file", kyc.ErrMissingFile, ErrCodeMissingDocument, false},
		{"uploads not completed", kyc.ErrUploadsNotCompleted, ErrCodeInvalidTransition, false},
		{"offer missing", fmt.Errorf("select: %w", offers.ErrOfferNotFound), ErrCodeOfferNotFound, false},
		{"decision pending", wizard.ErrDecisionPending, ErrCodeDecisionPending, false},
		{"deadline", context.DeadlineExceeded, ErrCodeJobTimeout, true},
		{"session store", NewSessionStoreFailedError(fmt.Errorf("dial tcp")), ErrCodeSessionStoreFailed, true},
		{"unexpected", fmt.Errorf("boom"), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.retryable, got.Retryable)
		})
	}

	assert.Nil(t, Classify(nil))
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable keeps retry budget", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewSessionStoreFailedError(fmt.Errorf("timeout")))
		assert.Equal(t, "SESSION_STORE_FAILED", bpmn.Code)
		assert.Equal(t, 3, bpmn.Retries)
		assert.Equal(t, "timeout", bpmn.Details)
	})

	t.Run("business error is thrown without retries", func(t *testing.T) {
		stdErr := NewSessionNotFoundError("app-1", nil)
		bpmn := ConvertToBPMNError(stdErr)
		assert.Equal(t, 0, bpmn.Retries)

		vars := bpmn.ToErrorVariables()
		assert.Equal(t, "SESSION_NOT_FOUND", vars["errorCode"])
		assert.Equal(t, "app-1", vars["applicationId"])
		assert.Equal(t, "SESSION_NOT_FOUND", vars["originalErrorCode"])
	})
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "SESSION", GetErrorCategory(ErrCodeSessionNotFound))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidTransition))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeMissingDocument))
	assert.Equal(t, "JOURNEY", GetErrorCategory(ErrCodeOfferNotFound))
	assert.Equal(t, "TIMEOUT", GetErrorCategory(ErrCodeJobTimeout))
	assert.False(t, IsRetryableErrorCode(ErrCodeUnknownStep))
	assert.True(t, IsRetryableErrorCode(ErrCodeNotificationSendFailed))
}
