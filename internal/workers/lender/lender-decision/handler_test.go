package lenderdecision

import (
	"context"
	"testing"
	"time"

	"loan-journey-workers/internal/common/camunda"
	apperrors "loan-journey-workers/internal/common/errors"
	"loan-journey-workers/internal/journey"
	"loan-journey-workers/internal/journey/lender"
	"loan-journey-workers/internal/journey/wizard"
	"loan-journey-workers/internal/session"
	"loan-journey-workers/internal/workers/journeyjob/jobtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Execute_Approved(t *testing.T) {
	env := jobtest.New(t, lender.OutcomeApproved)
	env.Seed(t, "app-1", jobtest.ThroughKYC)
	h := NewHandler(&Config{Timeout: time.Second}, env.Deps)

	out, err := h.Execute(context.Background(), &Input{ApplicationID: "app-1"})
	require.NoError(t, err)

	assert.Equal(t, lender.OutcomeApproved, out.Outcome)
	assert.True(t, out.Approved)
	assert.Equal(t, lender.ScreenApproved, out.Screen)
	assert.Equal(t, journey.StepLoanAgreement, out.CurrentStep)
	assert.Equal(t, 70, out.ProgressPercent)
	assert.Len(t, out.InfoRequest, 3)

	require.NotNil(t, out.LoanTerms)
	assert.Equal(t, "₹3,00,000", out.LoanTerms.AmountText)
	assert.Equal(t, "10.5%", out.LoanTerms.RateText)
	assert.Equal(t, 60, out.LoanTerms.TenureMonths)

	snap, err := env.Store.Load(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, lender.OutcomeApproved, snap.Lender.Outcome)
}

func TestHandler_Execute_Rejected(t *testing.T) {
	env := jobtest.New(t, lender.OutcomeRejected)
	env.Seed(t, "app-1", jobtest.ThroughKYC)
	h := NewHandler(&Config{Timeout: time.Second}, env.Deps)

	out, err := h.Execute(context.Background(), &Input{ApplicationID: "app-1"})
	require.NoError(t, err)

	assert.False(t, out.Approved)
	assert.Equal(t, lender.ScreenRejected, out.Screen)
	assert.Equal(t, journey.StepWelcome, out.CurrentStep)
	assert.Equal(t, "/", out.Route)
	assert.Nil(t, out.LoanTerms)
}

func TestHandler_Execute_Timeout(t *testing.T) {
	env := jobtest.New(t, lender.OutcomeApproved)
	env.Seed(t, "app-1", jobtest.ThroughKYC)

	// Lender delays on a fake clock that never advances.
	sessions := session.NewManager(env.Store, session.NopRecorder{}, wizard.Deps{
		Clock:   env.Clock,
		Decider: lender.Fixed(lender.OutcomeApproved),
		Delays:  wizard.Delays{Lender: lender.DefaultDelays()},
	}, nil)
	deps := env.Deps
	deps.Sessions = sessions
	h := NewHandler(&Config{Timeout: time.Second}, deps)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := h.Execute(ctx, &Input{ApplicationID: "app-1"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, apperrors.ErrCodeJobTimeout, apperrors.Classify(err).Code)

	snap, err := env.Store.Load(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, journey.StepLenderProcess, snap.CurrentStep)
	assert.Empty(t, snap.Lender.Outcome)
}

func TestHandler_Execute_RedeliveredRejection(t *testing.T) {
	env := jobtest.New(t, lender.OutcomeRejected)
	env.Seed(t, "app-1", jobtest.ThroughKYC)
	h := NewHandler(&Config{Timeout: time.Second}, env.Deps)
	ctx := camunda.WithJobKey(context.Background(), 2251799813685301)

	first, err := h.Execute(ctx, &Input{ApplicationID: "app-1"})
	require.NoError(t, err)
	require.Equal(t, journey.StepWelcome, first.CurrentStep)

	again, err := h.Execute(ctx, &Input{ApplicationID: "app-1"})
	require.NoError(t, err)
	assert.Equal(t, lender.OutcomeRejected, again.Outcome)
	assert.False(t, again.Approved)
	assert.Equal(t, first.Screen, again.Screen)
	assert.Equal(t, journey.StepWelcome, again.CurrentStep)
	assert.Equal(t, "/", again.Route)

	snap, err := env.Store.Load(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, lender.OutcomeRejected, snap.Lender.Outcome)
	assert.Equal(t, journey.StepWelcome, snap.CurrentStep)
}
