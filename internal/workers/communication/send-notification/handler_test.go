// internal/workers/communication/send-notification/handler_test.go
package sendnotification

import (
	"context"
	"errors"
	"testing"
	"time"

	awsx "loan-journey-workers/internal/common/aws"
	apperrors "loan-journey-workers/internal/common/errors"
	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/notify"
	"loan-journey-workers/internal/workers/journeyjob"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

func newTestHandler(t *testing.T, cfg *Config, sesSvc *MockSESService, snsSvc *MockSNSService) *Handler {
	t.Helper()
	log := logger.NewTestLogger(t)
	dispatcher := notify.NewDispatcher(
		awsx.NewEmailSender(sesSvc, "noreply@loans.example"),
		awsx.NewSMSSender(snsSvc, "LOANS"),
		log,
	)
	return NewHandler(cfg, journeyjob.Deps{Logger: log}, dispatcher)
}

func okSES(captured *ses.SendEmailInput) *MockSESService {
	return &MockSESService{
		SendEmailFunc: func(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			if captured != nil {
				*captured = *params
			}
			return &ses.SendEmailOutput{MessageId: aws.String("ses-msg-1")}, nil
		},
	}
}

func okSNS() *MockSNSService {
	return &MockSNSService{
		PublishFunc: func(context.Context, *sns.PublishInput, ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return &sns.PublishOutput{MessageId: aws.String("sns-msg-1")}, nil
		},
	}
}

// ==========================
// Tests
// ==========================

func TestHandler_Execute_EmailAndSMS(t *testing.T) {
	var sent ses.SendEmailInput
	h := newTestHandler(t, &Config{EmailEnabled: true, SMSEnabled: true, Timeout: time.Second}, okSES(&sent), okSNS())

	out, err := h.Execute(context.Background(), &Input{
		ApplicationID:    "app-1",
		NotificationType: notify.TypeLenderApproved,
		Email:            "asha@example.com",
		Phone:            "+919800000000",
	})
	require.NoError(t, err)

	assert.Equal(t, "app-1", out.ApplicationID)
	assert.Equal(t, notify.StatusSent, out.Status)
	assert.True(t, out.EmailSent)
	assert.True(t, out.SMSSent)
	assert.Equal(t, "ses-msg-1", out.MessageID)
	assert.NotEmpty(t, out.NotificationID)

	require.NotNil(t, sent.Message)
	assert.Equal(t, "Your loan has been approved", aws.ToString(sent.Message.Subject.Data))
	assert.Contains(t, aws.ToString(sent.Message.Body.Text.Data), "app-1")
}

func TestHandler_Execute_ChannelsDisabled(t *testing.T) {
	h := newTestHandler(t, &Config{Timeout: time.Second}, okSES(nil), okSNS())

	out, err := h.Execute(context.Background(), &Input{
		ApplicationID:    "app-1",
		NotificationType: notify.TypeOfferSelected,
		Email:            "asha@example.com",
		Data:             map[string]interface{}{"lender": "ABC Bank"},
	})
	require.NoError(t, err)

	assert.Equal(t, notify.StatusDisabled, out.Status)
	assert.False(t, out.EmailSent)
}

func TestHandler_Execute_Errors(t *testing.T) {
	failingSES := &MockSESService{
		SendEmailFunc: func(context.Context, *ses.SendEmailInput, ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("throttled")
		},
	}

	tests := []struct {
		name      string
		ses       *MockSESService
		notifType string
		code      apperrors.ErrorCode
		retryable bool
	}{
		{"unknown template", okSES(nil), "birthday", apperrors.ErrCodeTemplateNotFound, false},
		{"ses failure", failingSES, notify.TypeLoanDisbursed, apperrors.ErrCodeNotificationSendFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &Config{EmailEnabled: true, Timeout: time.Second}, tt.ses, okSNS())

			_, err := h.Execute(context.Background(), &Input{
				ApplicationID:    "app-1",
				NotificationType: tt.notifType,
				Email:            "asha@example.com",
			})
			require.Error(t, err)

			stdErr := apperrors.Classify(err)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.Equal(t, tt.retryable, stdErr.Retryable)
		})
	}
}
