package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"loan-journey-workers/internal/common/camunda"
	"loan-journey-workers/internal/common/config"
	apperrors "loan-journey-workers/internal/common/errors"
	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/common/metrics"
	"loan-journey-workers/internal/journey"
	"loan-journey-workers/internal/journey/lender"
	"loan-journey-workers/internal/journey/wizard"
	"loan-journey-workers/internal/notify"

	"github.com/jonboulle/clockwork"
)

// Result is what one screen action produced.
type Result struct {
	Journey       *wizard.Journey
	View          wizard.View
	Notifications []notify.Notification
	Routes        []string
	Events        []Event

	// Output is the encoded job output. Replayed is set when the job had
	// already been applied and Output comes from the stored session.
	Output   json.RawMessage
	Replayed bool
}

// Action changes a journey.
type Action func(context.Context, *wizard.Journey) error

// Render builds the job output from the result of an action.
type Render func(*Result) interface{}

// Route is the last screen the action navigated to, or "".
func (r *Result) Route() string {
	if len(r.Routes) == 0 {
		return ""
	}
	return r.Routes[len(r.Routes)-1]
}

// Manager loads a journey, applies one screen action and saves it back.
type Manager struct {
	store    Store
	recorder Recorder
	deps     wizard.Deps
	logger   logger.Logger
}

func NewManager(store Store, recorder Recorder, deps wizard.Deps, log logger.Logger) *Manager {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Logger == nil {
		deps.Logger = log
	}
	return &Manager{store: store, recorder: recorder, deps: deps, logger: log}
}

// Begin opens a fresh session for id, replacing any earlier one, and runs fn
// on it.
func (m *Manager) Begin(ctx context.Context, id string, fn Action) (*Result, error) {
	return m.BeginJob(ctx, id, fn, nil)
}

// BeginJob is Begin for a Zeebe job. A redelivered job finds the session it
// started instead of replacing it.
func (m *Manager) BeginJob(ctx context.Context, id string, fn Action, render Render) (*Result, error) {
	return m.run(ctx, id, func(deps wizard.Deps) (*wizard.Journey, error) {
		if key, ok := camunda.JobKeyFromContext(ctx); ok {
			snap, err := m.store.Load(ctx, id)
			if err == nil && snap.LastJob != nil && snap.LastJob.Key == key {
				return wizard.Restore(snap, deps)
			}
		}
		return wizard.New(id, deps), nil
	}, fn, render)
}

// Apply runs fn on the stored journey id. Nothing is saved when fn fails.
func (m *Manager) Apply(ctx context.Context, id string, fn Action) (*Result, error) {
	return m.ApplyJob(ctx, id, fn, nil)
}

// ApplyJob is Apply for a Zeebe job. The job key from ctx and the output
// render builds are saved with the session, so a redelivery of the same job
// leaves the journey alone and gets the first output back.
func (m *Manager) ApplyJob(ctx context.Context, id string, fn Action, render Render) (*Result, error) {
	return m.run(ctx, id, func(deps wizard.Deps) (*wizard.Journey, error) {
		snap, err := m.store.Load(ctx, id)
		if errors.Is(err, ErrSessionNotFound) {
			return nil, apperrors.NewSessionNotFoundError(id, err)
		}
		if err != nil {
			return nil, apperrors.NewSessionStoreFailedError(err)
		}
		return wizard.Restore(snap, deps)
	}, fn, render)
}

// View reads the stored journey without changing it.
func (m *Manager) View(ctx context.Context, id string) (*Result, error) {
	return m.Apply(ctx, id, func(context.Context, *wizard.Journey) error { return nil })
}

// End removes the session of id.
func (m *Manager) End(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return apperrors.NewSessionStoreFailedError(err)
	}
	return nil
}

func (m *Manager) run(
	ctx context.Context,
	id string,
	open func(wizard.Deps) (*wizard.Journey, error),
	fn Action,
	render Render,
) (*Result, error) {
	collector := notify.NewCollector()
	routes := &wizard.RouteRecorder{}

	deps := m.deps
	deps.Navigator = routes
	deps.Notifier = notify.Fanout{collector, notify.NewLogNotifier(m.logger)}

	j, err := open(deps)
	if err != nil {
		return nil, err
	}

	key, isJob := camunda.JobKeyFromContext(ctx)
	if last := j.LastJob(); isJob && last != nil && last.Key == key {
		m.logger.Info("job already applied", map[string]interface{}{
			"applicationId": id,
			"jobKey":        key,
		})
		return &Result{
			Journey:  j,
			View:     j.View(),
			Output:   last.Output,
			Replayed: true,
		}, nil
	}

	var (
		mu     sync.Mutex
		events []Event
	)
	j.OnChange(func(c journey.Change) {
		mu.Lock()
		events = append(events, eventFromChange(id, c, m.deps.Clock.Now().UTC()))
		mu.Unlock()
		if c.Kind == journey.ChangeStep {
			metrics.StepTransitions.WithLabelValues(string(c.From), string(c.To)).Inc()
		}
	})

	if err := fn(ctx, j); err != nil {
		return nil, err
	}

	res := &Result{
		Journey:       j,
		View:          j.View(),
		Notifications: collector.Notifications(),
		Routes:        routes.Routes(),
		Events:        events,
	}
	if render != nil {
		out, err := json.Marshal(render(res))
		if err != nil {
			return nil, apperrors.NewSessionStoreFailedError(err)
		}
		res.Output = out
	}
	if isJob {
		j.RecordJob(key, res.Output)
	}

	if err := m.store.Save(ctx, j.Snapshot()); err != nil {
		return nil, apperrors.NewSessionStoreFailedError(err)
	}

	if err := m.recorder.Record(ctx, events); err != nil {
		m.logger.Warn("journey audit not written", map[string]interface{}{
			"applicationId": id,
			"events":        len(events),
			"error":         err.Error(),
		})
	}

	return res, nil
}

// DepsFromConfig builds the journey collaborators described by cfg.
func DepsFromConfig(cfg config.JourneyConfig, clock clockwork.Clock, log logger.Logger) wizard.Deps {
	seed := cfg.DeciderSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	d := cfg.Delays
	return wizard.Deps{
		Clock:   clock,
		Decider: lender.NewRandomDecider(seed),
		Catalog: cfg.Catalog,
		Delays: wizard.Delays{
			PreQualification: config.GetDuration(d.PreQualification),
			OfferMatching:    config.GetDuration(d.OfferMatching),
			Lender: lender.Delays{
				Processing:  config.GetDuration(d.LenderProcessing),
				InfoRequest: config.GetDuration(d.LenderInfoRequest),
			},
			MandateSubmission: config.GetDuration(d.MandateSubmission),
		},
		Logger: log,
	}
}
