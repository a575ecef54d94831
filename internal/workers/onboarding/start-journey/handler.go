// internal/workers/onboarding/start-journey/handler.go
package startjourney

import (
	"context"
	"time"

	"loan-journey-workers/internal/common/camunda"
	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/journey/offers"
	"loan-journey-workers/internal/journey/wizard"
	"loan-journey-workers/internal/session"
	"loan-journey-workers/internal/workers/journeyjob"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "start-journey"
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

// Execute opens a new session and leaves the welcome screen.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	id := input.ApplicationID
	if id == "" {
		id = uuid.NewString()
	}

	var startedAt time.Time
	var catalog offers.Catalog
	out, res, err := journeyjob.Begin(ctx, h.sessions, id, func(ctx context.Context, j *wizard.Journey) error {
		catalog = j.Catalog()
		startedAt = j.Snapshot().StartedAt
		return j.Start(ctx)
	}, func(res *session.Result) *Output {
		return &Output{
			Output:                 journeyjob.NewOutput(res),
			PreQualifiedAmount:     catalog.PreQualifiedAmount,
			PreQualifiedAmountText: offers.FormatINR(catalog.PreQualifiedAmount),
			StartedAt:              startedAt.Format(time.RFC3339),
		}
	})
	if err != nil {
		return nil, err
	}

	if !res.Replayed {
		h.logger.Info("journey started", map[string]interface{}{
			"applicationId": id,
			"customerId":    input.CustomerID,
		})
	}
	return out, nil
}
