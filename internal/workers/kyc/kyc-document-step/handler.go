// internal/workers/kyc/kyc-document-step/handler.go
package kycdocumentstep

import (
	"context"
	"fmt"

	"loan-journey-workers/internal/common/camunda"
	apperrors "loan-journey-workers/internal/common/errors"
	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/common/metrics"
	"loan-journey-workers/internal/journey/kyc"
	"loan-journey-workers/internal/journey/wizard"
	"loan-journey-workers/internal/session"
	"loan-journey-workers/internal/workers/journeyjob"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "kyc-document-step"
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

// Execute applies one KYC screen action and reports where the upload
// sequence stands afterwards.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	var (
		stageBefore kyc.Stage
		selected    kyc.Method
	)
	out, res, err := journeyjob.Apply(ctx, h.sessions, input.ApplicationID, func(ctx context.Context, j *wizard.Journey) error {
		stageBefore = j.KYCStage()
		if err := h.apply(ctx, j, input); err != nil {
			return err
		}
		selected = j.Snapshot().KYC.Selected
		return nil
	}, func(res *session.Result) *Output {
		view := res.View
		out := &Output{
			Output:           journeyjob.NewOutput(res),
			Stage:            view.KYCStage,
			Progress:         view.KYCProgress,
			SelectedMethod:   selected,
			DocumentProgress: view.Documents,
			AllUploaded:      view.Documents.All(),
		}
		if label, ok := view.KYCStage.Label(); ok {
			out.Label = &label
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	if res.Replayed {
		return out, nil
	}

	metrics.KYCDocumentEvents.WithLabelValues(string(stageBefore), string(input.Action)).Inc()
	h.logger.Debug("kyc action applied", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"action":        string(input.Action),
		"from":          string(stageBefore),
		"to":            string(out.Stage),
	})
	return out, nil
}

func (h *Handler) apply(ctx context.Context, j *wizard.Journey, input *Input) error {
	switch input.Action {
	case ActionSelectMethod:
		return j.SelectKYCMethod(ctx, input.Method)
	case ActionProceed:
		return j.ProceedKYC(ctx)
	case ActionUpload:
		return j.UploadDocument(ctx, input.File)
	case ActionBack:
		j.DocumentBack(ctx)
		return nil
	case ActionRetake:
		return j.RetakeDocument(ctx)
	case ActionContinue:
		return j.ContinueFromKYC(ctx)
	default:
		return apperrors.NewInvalidJobInputError(fmt.Errorf("unknown kyc action %q", input.Action))
	}
}
