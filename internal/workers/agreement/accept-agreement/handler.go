// internal/workers/agreement/accept-agreement/handler.go
package acceptagreement

import (
	"context"
	"time"

	"loan-journey-workers/internal/common/camunda"
	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/journey/agreement"
	"loan-journey-workers/internal/journey/offers"
	"loan-journey-workers/internal/journey/wizard"
	"loan-journey-workers/internal/session"
	"loan-journey-workers/internal/workers/journeyjob"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "accept-agreement"
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

// Execute records the terms checkbox and moves on to e-sign. Unaccepted
// terms are thrown as TERMS_NOT_ACCEPTED.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var terms offers.LoanTerms
	out, res, err := journeyjob.Apply(ctx, h.sessions, input.ApplicationID, func(ctx context.Context, j *wizard.Journey) error {
		terms = j.LoanTerms()
		j.SetTermsAccepted(input.Accepted)
		return j.ProceedToESign(ctx)
	}, func(res *session.Result) *Output {
		return &Output{
			Output:         journeyjob.NewOutput(res),
			AgreementStage: res.View.AgreementStage,
			Documents:      append([]string(nil), agreement.Documents...),
			LoanTerms:      terms,
			AcceptedAt:     time.Now().UTC().Format(time.RFC3339),
		}
	})
	if err != nil {
		return nil, err
	}

	if !res.Replayed {
		h.logger.Info("loan documents accepted", map[string]interface{}{
			"applicationId": input.ApplicationID,
		})
	}
	return out, nil
}
