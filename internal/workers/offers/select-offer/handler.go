// internal/workers/offers/select-offer/handler.go
package selectoffer

import (
	"context"

	"loan-journey-workers/internal/common/camunda"
	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/journey/offers"
	"loan-journey-workers/internal/journey/wizard"
	"loan-journey-workers/internal/session"
	"loan-journey-workers/internal/workers/journeyjob"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "select-offer"
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

// Execute records the chosen offer. An unknown offer id is a business error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var selected offers.Offer
	out, res, err := journeyjob.Apply(ctx, h.sessions, input.ApplicationID, func(ctx context.Context, j *wizard.Journey) error {
		var err error
		selected, err = j.SelectOffer(ctx, input.OfferID)
		return err
	}, func(res *session.Result) *Output {
		return &Output{
			Output:        journeyjob.NewOutput(res),
			SelectedOffer: selected.Card(),
		}
	})
	if err != nil {
		return nil, err
	}

	if !res.Replayed {
		h.logger.Info("offer selected", map[string]interface{}{
			"applicationId": input.ApplicationID,
			"offerId":       selected.ID,
			"lender":        selected.Lender,
		})
	}
	return out, nil
}
