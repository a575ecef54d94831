// internal/workers/lender/lender-decision/handler.go
package lenderdecision

import (
	"context"
	"time"

	"loan-journey-workers/internal/common/camunda"
	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/common/metrics"
	"loan-journey-workers/internal/journey/lender"
	"loan-journey-workers/internal/journey/offers"
	"loan-journey-workers/internal/journey/wizard"
	"loan-journey-workers/internal/session"
	"loan-journey-workers/internal/workers/journeyjob"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "lender-decision"
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

// Execute waits out the lender screens, records the decision and follows
// it: approval continues to the loan agreement, rejection back to welcome.
// The job timeout bounds the wait; an expired wait leaves the session as it
// was.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var (
		outcome lender.Outcome
		terms   offers.LoanTerms
		state   wizard.LenderState
	)
	started := time.Now()
	out, res, err := journeyjob.Apply(ctx, h.sessions, input.ApplicationID, func(ctx context.Context, j *wizard.Journey) error {
		var err error
		if outcome, err = j.AwaitLenderDecision(ctx); err != nil {
			return err
		}
		state = j.Lender()
		terms = j.LoanTerms()
		return j.ContinueFromLender(ctx)
	}, func(res *session.Result) *Output {
		out := &Output{
			Output:      journeyjob.NewOutput(res),
			Outcome:     outcome,
			Approved:    outcome == lender.OutcomeApproved,
			Screen:      state.Screen,
			InfoRequest: append([]string(nil), lender.InfoRequest...),
		}
		if out.Approved {
			out.LoanTerms = &LoanTermsView{
				LoanTerms:  terms,
				AmountText: offers.FormatINR(terms.Amount),
				RateText:   offers.FormatRate(terms.InterestRate),
				EMIText:    offers.FormatINR(terms.EMI),
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

	metrics.LenderDecisions.WithLabelValues(string(outcome)).Inc()
	h.logger.Info("lender decision recorded", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"outcome":       string(outcome),
		"nextStep":      string(out.CurrentStep),
		"waited":        time.Since(started).String(),
	})
	return out, nil
}
