package matchoffers

import (
	"context"
	"testing"
	"time"

	"loan-journey-workers/internal/journey"
	"loan-journey-workers/internal/journey/lender"
	"loan-journey-workers/internal/workers/journeyjob/jobtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Execute(t *testing.T) {
	env := jobtest.New(t, lender.OutcomeApproved)
	env.Seed(t, "app-1", jobtest.ThroughPAN)
	h := NewHandler(&Config{Timeout: time.Second}, env.Deps)

	out, err := h.Execute(context.Background(), &Input{ApplicationID: "app-1"})
	require.NoError(t, err)

	assert.Equal(t, journey.StepOffers, out.CurrentStep)
	assert.Equal(t, "/offers", out.Route)
	assert.Equal(t, 40, out.ProgressPercent)
	require.Equal(t, 2, out.OfferCount)

	assert.Equal(t, "ABC Bank", out.Offers[0].Lender)
	assert.Equal(t, "₹5,00,000", out.Offers[0].AmountText)
	assert.Equal(t, "10.5%", out.Offers[0].RateText)
	assert.Equal(t, "₹16,200", out.Offers[0].EMIText)
	assert.Equal(t, "XYZ Finance", out.Offers[1].Lender)
	assert.Equal(t, "₹14,700", out.Offers[1].EMIText)
}

func TestHandler_Execute_Cancelled(t *testing.T) {
	env := jobtest.New(t, lender.OutcomeApproved)
	env.Seed(t, "app-1", jobtest.ThroughPAN)
	h := NewHandler(&Config{Timeout: time.Second}, env.Deps)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Execute(ctx, &Input{ApplicationID: "app-1"})
	require.ErrorIs(t, err, context.Canceled)

	snap, err := env.Store.Load(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, journey.StepOfferMatching, snap.CurrentStep)
}
