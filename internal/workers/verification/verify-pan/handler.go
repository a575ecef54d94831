// internal/workers/verification/verify-pan/handler.go
package verifypan

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
	TaskType = "verify-pan"
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

// Execute checks the PAN. A rejected PAN completes the job with
// isValid=false so the process can loop back to the PAN screen.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var result fields.Result
	out, res, err := journeyjob.Apply(ctx, h.sessions, input.ApplicationID, func(ctx context.Context, j *wizard.Journey) error {
		var err error
		result, err = j.SubmitPAN(ctx, input.PAN)
		return err
	}, func(res *session.Result) *Output {
		return &Output{
			Output:  journeyjob.NewOutput(res),
			IsValid: result.Valid,
			Reason:  result.Reason,
		}
	})
	if err != nil {
		return nil, err
	}

	if !res.Replayed && !result.Valid {
		metrics.FieldValidationFailures.WithLabelValues(string(fields.FieldPAN)).Inc()
		h.logger.Info("PAN rejected", map[string]interface{}{
			"applicationId": input.ApplicationID,
			"length":        len([]rune(input.PAN)),
		})
	}
	return out, nil
}
