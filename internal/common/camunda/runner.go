package camunda

import (
	"context"
	"encoding/json"
	"time"

	apperrors "loan-journey-workers/internal/common/errors"
	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/common/metrics"
	"loan-journey-workers/internal/common/observability"
	"loan-journey-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Runner carries the per-job plumbing shared by all journey workers: input
// schema checks, decoding, timeouts, completion, failure reporting and
// job metrics.
type Runner struct {
	TaskType string
	Timeout  time.Duration
	Schemas  *validation.SchemaSet
	Obs      *observability.Observability
	Logger   logger.Logger
	errors   *apperrors.ErrorHandler
}

func NewRunner(taskType string, timeout time.Duration, schemas *validation.SchemaSet, obs *observability.Observability, log logger.Logger) *Runner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{
		TaskType: taskType,
		Timeout:  timeout,
		Schemas:  schemas,
		Obs:      obs,
		Logger:   log,
		errors:   apperrors.NewErrorHandler(log),
	}
}

// Decode checks variables against the registry schema of the task type and
// unmarshals them into a new I.
func Decode[I any](r *Runner, variables string) (*I, error) {
	if res := r.Schemas.ValidateInput(r.TaskType, variables); !res.Valid {
		return nil, apperrors.NewInvalidJobInputError(res.Err())
	}
	var in I
	if err := json.Unmarshal([]byte(variables), &in); err != nil {
		return nil, apperrors.NewInvalidJobInputError(err)
	}
	return &in, nil
}

// Process runs one job end to end: decode, execute under the runner
// timeout, then complete with the output or report the failure.
func Process[I any, O any](r *Runner, client worker.JobClient, job entities.Job, exec func(context.Context, *I) (*O, error)) {
	start := time.Now()
	r.Logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	defer cancel()
	ctx = WithJobKey(ctx, job.Key)

	in, err := Decode[I](r, job.Variables)
	var out *O
	if err == nil {
		out, err = exec(ctx, in)
	}

	if err != nil {
		bpmnErr := r.errors.HandleJobError(ctx, client, job, err)
		r.record(ctx, "failed", bpmnErr.Code, start)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(out)
	if err != nil {
		r.Logger.Error("failed to create complete job command", map[string]interface{}{"error": err.Error()})
		r.record(ctx, "failed", string(apperrors.ErrCodeInternal), start)
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		r.Logger.Error("failed to send complete job command", map[string]interface{}{"error": err.Error()})
		r.record(ctx, "failed", string(apperrors.ErrCodeBrokerUnavailable), start)
		return
	}
	r.record(ctx, "completed", "", start)
}

func (r *Runner) record(ctx context.Context, status, code string, start time.Time) {
	elapsed := time.Since(start)
	if status == "completed" {
		metrics.WorkerJobsCompleted.WithLabelValues(r.TaskType).Inc()
	} else {
		metrics.WorkerJobsFailed.WithLabelValues(r.TaskType, code).Inc()
	}
	metrics.WorkerJobDuration.WithLabelValues(r.TaskType).Observe(elapsed.Seconds())
	r.Obs.RecordJob(ctx, r.TaskType, status, elapsed)
}
