package disburseloan

import (
	"context"
	"testing"
	"time"

	apperrors "loan-journey-workers/internal/common/errors"
	"loan-journey-workers/internal/journey"
	"loan-journey-workers/internal/journey/lender"
	"loan-journey-workers/internal/workers/journeyjob/jobtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Execute_Summary(t *testing.T) {
	env := jobtest.New(t, lender.OutcomeApproved)
	env.Seed(t, "app-1", jobtest.ThroughMandate)
	h := NewHandler(&Config{Timeout: time.Second}, env.Deps)

	out, err := h.Execute(context.Background(), &Input{ApplicationID: "app-1"})
	require.NoError(t, err)

	assert.Equal(t, journey.StepComplete, out.CurrentStep)
	assert.False(t, out.ReturnedHome)
	assert.Empty(t, out.Route)

	assert.Equal(t, "LN20240710001", out.Loan.LoanID)
	assert.Equal(t, "₹2,50,000", out.Loan.AmountText)
	assert.Equal(t, "₹5,000", out.Loan.ProcessingFeeText)
	assert.Equal(t, "11.5%", out.Loan.RateText)
	assert.Len(t, out.Schedule, 6)
	assert.Equal(t, "2024-08-10", out.FirstEMIDate)
}

func TestHandler_Execute_ReturnHome(t *testing.T) {
	env := jobtest.New(t, lender.OutcomeApproved)
	env.Seed(t, "app-1", jobtest.ThroughMandate)
	h := NewHandler(&Config{Timeout: time.Second}, env.Deps)

	out, err := h.Execute(context.Background(), &Input{ApplicationID: "app-1", ReturnHome: true})
	require.NoError(t, err)

	assert.True(t, out.ReturnedHome)
	assert.Equal(t, journey.StepWelcome, out.CurrentStep)
	assert.Equal(t, 0, out.ProgressPercent)
	assert.Equal(t, "/", out.Route)
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, "Thank you for using our service!", out.Notifications[0].Title)
}

func TestHandler_Execute_BeforeMandate(t *testing.T) {
	env := jobtest.New(t, lender.OutcomeApproved)
	env.Seed(t, "app-1", jobtest.ThroughOTP)
	h := NewHandler(&Config{Timeout: time.Second}, env.Deps)

	_, err := h.Execute(context.Background(), &Input{ApplicationID: "app-1"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidTransition, apperrors.Classify(err).Code)
}

func TestHandler_Execute_UnknownSession(t *testing.T) {
	env := jobtest.New(t, lender.OutcomeApproved)
	h := NewHandler(&Config{Timeout: time.Second}, env.Deps)

	_, err := h.Execute(context.Background(), &Input{ApplicationID: "missing"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSessionNotFound, apperrors.Classify(err).Code)
}
