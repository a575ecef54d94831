package selectoffer

import (
	"context"
	"testing"
	"time"

	apperrors "loan-journey-workers/internal/common/errors"
	"loan-journey-workers/internal/journey"
	"loan-journey-workers/internal/journey/lender"
	"loan-journey-workers/internal/journey/offers"
	"loan-journey-workers/internal/workers/journeyjob/jobtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Execute(t *testing.T) {
	env := jobtest.New(t, lender.OutcomeApproved)
	env.Seed(t, "app-1", jobtest.ThroughOffers)
	h := NewHandler(&Config{Timeout: time.Second}, env.Deps)

	out, err := h.Execute(context.Background(), &Input{ApplicationID: "app-1", OfferID: 2})
	require.NoError(t, err)

	assert.Equal(t, journey.StepKYCProcess, out.CurrentStep)
	assert.Equal(t, "/kyc-process", out.Route)
	assert.Equal(t, "XYZ Finance", out.SelectedOffer.Lender)
	assert.Equal(t, "11%", out.SelectedOffer.RateText)

	require.Len(t, out.Notifications, 1)
	assert.Equal(t, "Offer Selected", out.Notifications[0].Title)
	assert.Equal(t, "You'll be contacted by our team shortly.", out.Notifications[0].Message)

	snap, err := env.Store.Load(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.OfferID)
}

func TestHandler_Execute_UnknownOffer(t *testing.T) {
	env := jobtest.New(t, lender.OutcomeApproved)
	env.Seed(t, "app-1", jobtest.ThroughOffers)
	h := NewHandler(&Config{Timeout: time.Second}, env.Deps)

	_, err := h.Execute(context.Background(), &Input{ApplicationID: "app-1", OfferID: 99})
	require.ErrorIs(t, err, offers.ErrOfferNotFound)
	assert.Equal(t, apperrors.ErrCodeOfferNotFound, apperrors.Classify(err).Code)

	snap, err := env.Store.Load(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, journey.StepOffers, snap.CurrentStep)
}
