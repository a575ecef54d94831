// internal/workers/agreement/verify-esign-otp/handler.go
package verifyesignotp

import (
	"context"

	"loan-journey-workers/internal/common/camunda"
	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/common/metrics"
	"loan-journey-workers/internal/journey/fields"
	"loan-journey-workers/internal/journey/wizard"
	"loan-journey-workers/internal/session"
	"loan-journey-workers/internal/workers/journeyjob"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "verify-esign-otp"
)

type Handler struct {
	config   *Config
	sessions journeyjob.Sessions
	runner   *camunda.Runner
	logger   logger.Logger
}

func NewHandler(config *Config, deps journeyjob.Deps) *Handler {
	runner, log := deps.Runner(TaskType, config.Timeout)
	return &Handler{
		config:   config,
		sessions: deps.Sessions,
		runner:   runner,
		logger:   log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	camunda.Process(h.runner, client, job, h.Execute)
}

// Execute checks the e-sign OTP. Only the format is checked; a malformed
// OTP completes with isValid=false and the agreement stays on e-sign.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var result fields.Result
	out, res, err := journeyjob.Apply(ctx, h.sessions, input.ApplicationID, func(ctx context.Context, j *wizard.Journey) error {
		var err error
		result, err = j.VerifyESignOTP(ctx, input.OTP)
		return err
	}, func(res *session.Result) *Output {
		return &Output{
			Output:         journeyjob.NewOutput(res),
			IsValid:        result.Valid,
			Reason:         result.Reason,
			AgreementStage: res.View.AgreementStage,
		}
	})
	if err != nil {
		return nil, err
	}

	if !res.Replayed && !result.Valid {
		metrics.FieldValidationFailures.WithLabelValues(fields.FieldOTP).Inc()
		h.logger.Info("e-sign OTP rejected", map[string]interface{}{
			"applicationId": input.ApplicationID,
			"reason":        result.Reason,
		})
	}
	return out, nil
}
