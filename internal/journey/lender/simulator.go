// Package lender simulates the lender's credit decision: a processing
// screen, an information request, then an approve/reject outcome.
package lender

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"loan-journey-workers/internal/journey"
)

// Screen is what the lender step shows while the decision is pending.
type Screen string

const (
	ScreenProcessing  Screen = "processing"
	ScreenInfoRequest Screen = "info-request"
	ScreenApproved    Screen = "approved"
	ScreenRejected    Screen = "rejected"
)

type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

func (o Outcome) Screen() Screen {
	if o == OutcomeApproved {
		return ScreenApproved
	}
	return ScreenRejected
}

// NextStep is where the journey continues after the decision.
func (o Outcome) NextStep() journey.Step {
	if o == OutcomeApproved {
		return journey.StepLoanAgreement
	}
	return journey.StepWelcome
}

// Decider picks the outcome once both delays have elapsed.
type Decider interface {
	Decide() Outcome
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func() Outcome

func (f DeciderFunc) Decide() Outcome { return f() }

// Fixed always returns o.
func Fixed(o Outcome) Decider {
	return DeciderFunc(func() Outcome { return o })
}

// RandomDecider approves or rejects with equal probability.
type RandomDecider struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomDecider(seed int64) *RandomDecider {
	return &RandomDecider{rnd: rand.New(rand.NewSource(seed))}
}

func (d *RandomDecider) Decide() Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.rnd.Intn(2) == 0 {
		return OutcomeApproved
	}
	return OutcomeRejected
}

// Delays between lender screens.
type Delays struct {
	Processing  time.Duration
	InfoRequest time.Duration
}

func DefaultDelays() Delays {
	return Delays{Processing: 2 * time.Second, InfoRequest: 3 * time.Second}
}

// InfoRequest is the list of documents the lender asks for while deciding.
var InfoRequest = []string{
	"Last 3 months bank statements",
	"Current address proof (utility bill)",
	"Selfie with PAN card",
}

// Simulator runs the timed lender screens against an injectable clock.
type Simulator struct {
	clock   clockwork.Clock
	decider Decider
	delays  Delays
}

func NewSimulator(clock clockwork.Clock, decider Decider, delays Delays) *Simulator {
	return &Simulator{clock: clock, decider: decider, delays: delays}
}

// Run reports each screen to onScreen as it is shown and returns the
// outcome. Cancelling ctx stops the pending timer and returns ctx.Err().
func (s *Simulator) Run(ctx context.Context, onScreen func(Screen)) (Outcome, error) {
	if onScreen == nil {
		onScreen = func(Screen) {}
	}

	onScreen(ScreenProcessing)
	if err := journey.Wait(ctx, s.clock, s.delays.Processing); err != nil {
		return "", err
	}

	onScreen(ScreenInfoRequest)
	if err := journey.Wait(ctx, s.clock, s.delays.InfoRequest); err != nil {
		return "", err
	}

	outcome := s.decider.Decide()
	onScreen(outcome.Screen())
	return outcome, nil
}
