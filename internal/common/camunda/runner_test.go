package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "loan-journey-workers/internal/common/errors"
	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/common/validation"
	"loan-journey-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panInput struct {
	ApplicationID string `json:"applicationId"`
	PAN           string `json:"pan"`
}

func newTestRunner(t *testing.T) *Runner {
	schemas, err := validation.NewSchemaSet(&registry.ActivityRegistry{Activities: []registry.Activity{{
		TaskType: "verify-pan",
		InputSchema: map[string]interface{}{
			"type":     "object",
			"required": []interface{}{"applicationId"},
		},
	}}})
	require.NoError(t, err)
	return NewRunner("verify-pan", 0, schemas, nil, logger.NewTestLogger(t))
}

func TestDecode(t *testing.T) {
	r := newTestRunner(t)
	assert.Equal(t, 30*time.Second, r.Timeout)

	in, err := Decode[panInput](r, `{"applicationId":"app-1","pan":"ABCDE1234F"}`)
	require.NoError(t, err)
	assert.Equal(t, "app-1", in.ApplicationID)
	assert.Equal(t, "ABCDE1234F", in.PAN)
}

func TestDecode_Rejected(t *testing.T) {
	r := newTestRunner(t)

	tests := []struct {
		name      string
		variables string
	}{
		{"schema violation", `{"pan":"ABCDE1234F"}`},
		{"wrong field type", `{"applicationId":"a","pan":7}`},
		{"malformed", `{"applicationId":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode[panInput](r, tt.variables)
			require.Error(t, err)

			var stdErr *apperrors.StandardError
			require.True(t, errors.As(err, &stdErr))
			assert.Equal(t, apperrors.ErrCodeInvalidJobInput, stdErr.Code)
		})
	}
}

func TestExecuteWithRetry(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	t.Run("recovers from transient error", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(t.Context(), cfg, "op", func(context.Context) error {
			calls++
			if calls < 2 {
				return errors.New("rpc error: code = Unavailable")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("gives up as broker unavailable", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(t.Context(), cfg, "op", func(context.Context) error {
			calls++
			return errors.New("connection refused")
		})
		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, apperrors.ErrCodeBrokerUnavailable, apperrors.Classify(err).Code)
	})

	t.Run("permanent error is not retried", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(t.Context(), cfg, "op", func(context.Context) error {
			calls++
			return errors.New("NOT_FOUND: process not deployed")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, apperrors.ErrCodeInternal, apperrors.Classify(err).Code)
	})
}

func TestJobKeyFromContext(t *testing.T) {
	_, ok := JobKeyFromContext(context.Background())
	assert.False(t, ok)

	key, ok := JobKeyFromContext(WithJobKey(context.Background(), 2251799813685249))
	assert.True(t, ok)
	assert.Equal(t, int64(2251799813685249), key)
}
