package verifypan

import (
	"context"
	"testing"
	"time"

	"loan-journey-workers/internal/journey"
	"loan-journey-workers/internal/journey/lender"
	"loan-journey-workers/internal/journey/wizard"
	"loan-journey-workers/internal/notify"
	"loan-journey-workers/internal/workers/journeyjob/jobtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name      string
		pan       string
		wantValid bool
		wantStep  journey.Step
		wantRoute string
	}{
		{"ten characters", "ABCDE1234F", true, journey.StepOfferMatching, "/offer-matching"},
		{"any ten characters", "abcde12345", true, journey.StepOfferMatching, "/offer-matching"},
		{"too short", "ABCDE1234", false, journey.StepPanVerification, ""},
		{"too long", "ABCDE1234FG", false, journey.StepPanVerification, ""},
		{"empty", "", false, journey.StepPanVerification, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := jobtest.New(t, lender.OutcomeApproved)
			env.Seed(t, "app-1", func(ctx context.Context, j *wizard.Journey) error {
				return j.ConfirmPreQualification(ctx)
			})
			h := NewHandler(&Config{Timeout: time.Second}, env.Deps)

			out, err := h.Execute(context.Background(), &Input{ApplicationID: "app-1", PAN: tt.pan})
			require.NoError(t, err)

			assert.Equal(t, tt.wantValid, out.IsValid)
			assert.Equal(t, tt.wantStep, out.CurrentStep)
			assert.Equal(t, tt.wantRoute, out.Route)

			if tt.wantValid {
				assert.Empty(t, out.Reason)
				assert.Empty(t, out.Notifications)
				return
			}
			assert.Equal(t, "Please enter a valid 10-digit PAN number", out.Reason)
			require.Len(t, out.Notifications, 1)
			assert.Equal(t, "Invalid PAN", out.Notifications[0].Title)
			assert.Equal(t, notify.SeverityDestructive, out.Notifications[0].Severity)
		})
	}
}
