// internal/workers/agreement/setup-nach-mandate/handler.go
package setupnachmandate

import (
	"context"
	"fmt"
	"strings"

	"loan-journey-workers/internal/common/camunda"
	apperrors "loan-journey-workers/internal/common/errors"
	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/common/metrics"
	"loan-journey-workers/internal/journey/agreement"
	"loan-journey-workers/internal/journey/fields"
	"loan-journey-workers/internal/journey/wizard"
	"loan-journey-workers/internal/session"
	"loan-journey-workers/internal/workers/journeyjob"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "setup-nach-mandate"
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

// Execute validates the mandate form and registers it after the submission
// delay. Failing fields complete the job with isValid=false.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var (
		failed  []fields.Result
		mandate *agreement.Mandate
	)
	out, res, err := journeyjob.Apply(ctx, h.sessions, input.ApplicationID, func(ctx context.Context, j *wizard.Journey) error {
		var err error
		switch input.Method {
		case agreement.MandateBankAccount:
			failed, err = j.SubmitBankMandate(ctx, input.AccountNumber, input.IFSC)
		case agreement.MandateUPI:
			failed, err = j.SubmitUPIMandate(ctx, input.UPIID)
		default:
			return apperrors.NewInvalidJobInputError(fmt.Errorf("unknown mandate method %q", input.Method))
		}
		mandate = j.Mandate()
		return err
	}, func(res *session.Result) *Output {
		out := &Output{
			Output:         journeyjob.NewOutput(res),
			IsValid:        len(failed) == 0,
			FailedFields:   failed,
			AgreementStage: res.View.AgreementStage,
		}
		if mandate != nil && out.IsValid {
			out.Mandate = &MandateView{
				Method:        mandate.Method,
				AccountNumber: maskAccount(mandate.AccountNumber),
				IFSC:          mandate.IFSC,
				UPIID:         mandate.UPIID,
			}
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	if res.Replayed {
		return out, nil
	}

	for _, f := range failed {
		metrics.FieldValidationFailures.WithLabelValues(f.Field).Inc()
	}
	h.logger.Info("nach mandate submitted", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"method":        string(input.Method),
		"valid":         out.IsValid,
		"failedFields":  len(failed),
	})
	return out, nil
}

// maskAccount keeps the last four digits.
func maskAccount(account string) string {
	if len(account) <= 4 {
		return account
	}
	return strings.Repeat("X", len(account)-4) + account[len(account)-4:]
}
