package verifyesignotp

import (
	"context"
	"testing"
	"time"

	"loan-journey-workers/internal/common/camunda"
	apperrors "loan-journey-workers/internal/common/errors"
	"loan-journey-workers/internal/journey"
	"loan-journey-workers/internal/journey/agreement"
	"loan-journey-workers/internal/journey/lender"
	"loan-journey-workers/internal/workers/journeyjob/jobtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name      string
		otp       string
		wantValid bool
		wantStep  journey.Step
		wantStage agreement.Stage
	}{
		{"six digits", "123456", true, journey.StepNACH, agreement.StageNACH},
		{"too short", "12345", false, journey.StepESign, agreement.StageESign},
		{"letters", "12a456", false, journey.StepESign, agreement.StageESign},
		{"empty", "", false, journey.StepESign, agreement.StageESign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := jobtest.New(t, lender.OutcomeApproved)
			env.Seed(t, "app-1", jobtest.ThroughESign)
			h := NewHandler(&Config{Timeout: time.Second}, env.Deps)

			out, err := h.Execute(context.Background(), &Input{ApplicationID: "app-1", OTP: tt.otp})
			require.NoError(t, err)

			assert.Equal(t, tt.wantValid, out.IsValid)
			assert.Equal(t, tt.wantStep, out.CurrentStep)
			assert.Equal(t, tt.wantStage, out.AgreementStage)
			if !tt.wantValid {
				assert.NotEmpty(t, out.Reason)
			}
		})
	}
}

func TestHandler_Execute_BeforeESign(t *testing.T) {
	env := jobtest.New(t, lender.OutcomeApproved)
	env.Seed(t, "app-1", jobtest.ThroughLender)
	h := NewHandler(&Config{Timeout: time.Second}, env.Deps)

	_, err := h.Execute(context.Background(), &Input{ApplicationID: "app-1", OTP: "123456"})
	require.ErrorIs(t, err, agreement.ErrInvalidTransition)
	assert.Equal(t, apperrors.ErrCodeInvalidTransition, apperrors.Classify(err).Code)
}

func TestHandler_Execute_RedeliveredAtNACH(t *testing.T) {
	env := jobtest.New(t, lender.OutcomeApproved)
	env.Seed(t, "app-1", jobtest.ThroughESign)
	h := NewHandler(&Config{Timeout: time.Second}, env.Deps)
	ctx := camunda.WithJobKey(context.Background(), 44)

	first, err := h.Execute(ctx, &Input{ApplicationID: "app-1", OTP: "123456"})
	require.NoError(t, err)
	require.Equal(t, agreement.StageNACH, first.AgreementStage)

	again, err := h.Execute(ctx, &Input{ApplicationID: "app-1", OTP: "123456"})
	require.NoError(t, err)
	assert.True(t, again.IsValid)
	assert.Equal(t, journey.StepNACH, again.CurrentStep)
	assert.Equal(t, agreement.StageNACH, again.AgreementStage)

	// A fresh job at NACH is still out of order.
	_, err = h.Execute(camunda.WithJobKey(context.Background(), 45), &Input{ApplicationID: "app-1", OTP: "123456"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidTransition, apperrors.Classify(err).Code)
}
