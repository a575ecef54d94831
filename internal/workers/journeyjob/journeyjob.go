// Package journeyjob holds what every loan journey worker shares: the
// session dependency and the common job output.
package journeyjob

import (
	"context"
	"encoding/json"
	"time"

	"loan-journey-workers/internal/common/camunda"
	apperrors "loan-journey-workers/internal/common/errors"
	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/common/observability"
	"loan-journey-workers/internal/common/validation"
	"loan-journey-workers/internal/journey"
	"loan-journey-workers/internal/journey/wizard"
	"loan-journey-workers/internal/notify"
	"loan-journey-workers/internal/session"
)

// Sessions applies screen actions to stored journeys, once per job key.
type Sessions interface {
	BeginJob(ctx context.Context, id string, fn session.Action, render session.Render) (*session.Result, error)
	ApplyJob(ctx context.Context, id string, fn session.Action, render session.Render) (*session.Result, error)
}

// Deps are the collaborators handed to every worker constructor.
type Deps struct {
	Sessions Sessions
	Schemas  *validation.SchemaSet
	Obs      *observability.Observability
	Logger   logger.Logger
}

// Runner scopes the logger to taskType and builds the job runner.
func (d Deps) Runner(taskType string, timeout time.Duration) (*camunda.Runner, logger.Logger) {
	log := d.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"taskType": taskType})
	return camunda.NewRunner(taskType, timeout, d.Schemas, d.Obs, log), log
}

// Output is included in every journey job result.
type Output struct {
	ApplicationID   string                `json:"applicationId"`
	CurrentStep     journey.Step          `json:"currentStep"`
	ProgressPercent int                   `json:"progressPercent"`
	Route           string                `json:"route,omitempty"`
	Notifications   []notify.Notification `json:"notifications,omitempty"`
}

// Begin starts journey id with fn and builds the job output with build.
func Begin[O any](ctx context.Context, s Sessions, id string, fn func(context.Context, *wizard.Journey) error, build func(*session.Result) *O) (*O, *session.Result, error) {
	var out *O
	res, err := s.BeginJob(ctx, id, fn, func(res *session.Result) interface{} {
		out = build(res)
		return out
	})
	return finish(out, res, err)
}

// Apply runs fn on journey id and builds the job output with build. A
// redelivered job skips both and gets the output of its first delivery;
// the returned result then has Replayed set.
func Apply[O any](ctx context.Context, s Sessions, id string, fn func(context.Context, *wizard.Journey) error, build func(*session.Result) *O) (*O, *session.Result, error) {
	var out *O
	res, err := s.ApplyJob(ctx, id, fn, func(res *session.Result) interface{} {
		out = build(res)
		return out
	})
	return finish(out, res, err)
}

func finish[O any](out *O, res *session.Result, err error) (*O, *session.Result, error) {
	if err != nil {
		return nil, nil, err
	}
	if res.Replayed {
		out = new(O)
		if err := json.Unmarshal(res.Output, out); err != nil {
			return nil, nil, apperrors.NewSessionStoreFailedError(err)
		}
	}
	return out, res, nil
}

func NewOutput(res *session.Result) Output {
	return Output{
		ApplicationID:   res.View.ApplicationID,
		CurrentStep:     res.View.CurrentStep,
		ProgressPercent: res.View.ProgressPercent,
		Route:           res.Route(),
		Notifications:   res.Notifications,
	}
}
