// internal/workers/disbursement/disburse-loan/handler.go
package disburseloan

import (
	"context"
	"fmt"

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
	TaskType = "disburse-loan"
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

// Execute reports the disbursement summary once the mandate is registered.
// With returnHome set the journey goes back to welcome afterwards.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var (
		details  offers.LoanDetails
		schedule []offers.EMIEntry
	)
	out, res, err := journeyjob.Apply(ctx, h.sessions, input.ApplicationID, func(ctx context.Context, j *wizard.Journey) error {
		if stage := j.AgreementStage(); stage != agreement.StageComplete {
			return fmt.Errorf("%w: disbursement at agreement stage %s", agreement.ErrInvalidTransition, stage)
		}
		details, schedule = j.Disbursement()
		if input.ReturnHome {
			return j.ReturnHome(ctx)
		}
		return nil
	}, func(res *session.Result) *Output {
		out := &Output{
			Output:       journeyjob.NewOutput(res),
			Loan:         summarize(details),
			Schedule:     schedule,
			ReturnedHome: input.ReturnHome,
		}
		if len(schedule) > 0 {
			out.FirstEMIDate = schedule[0].Date
		}
		return out
	})
	if err != nil {
		return nil, err
	}

	if !res.Replayed {
		h.logger.Info("disbursement summary reported", map[string]interface{}{
			"applicationId": input.ApplicationID,
			"loanId":        details.LoanID,
			"returnHome":    input.ReturnHome,
		})
	}
	return out, nil
}

func summarize(d offers.LoanDetails) LoanSummary {
	return LoanSummary{
		LoanDetails:        d,
		AmountText:         offers.FormatINR(d.Amount),
		ProcessingFeeText:  offers.FormatINR(d.ProcessingFee),
		EMIText:            offers.FormatINR(d.EMI),
		TotalInterestText:  offers.FormatINR(d.TotalInterest),
		TotalRepaymentText: offers.FormatINR(d.TotalRepayment),
		RateText:           offers.FormatRate(d.InterestRate),
	}
}
