// internal/workers/offers/match-offers/handler.go
package matchoffers

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
	TaskType = "match-offers"
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var matched []offers.Offer
	out, res, err := journeyjob.Apply(ctx, h.sessions, input.ApplicationID, func(ctx context.Context, j *wizard.Journey) error {
		var err error
		matched, err = j.MatchOffers(ctx)
		return err
	}, func(res *session.Result) *Output {
		cards := make([]offers.OfferCard, len(matched))
		for i, o := range matched {
			cards[i] = o.Card()
		}
		return &Output{
			Output:     journeyjob.NewOutput(res),
			Offers:     cards,
			OfferCount: len(cards),
		}
	})
	if err != nil {
		return nil, err
	}

	if !res.Replayed {
		h.logger.Info("offers matched", map[string]interface{}{
			"applicationId": input.ApplicationID,
			"count":         out.OfferCount,
		})
	}
	return out, nil
}
