// Package wizard applies the per-screen rules of the loan journey: each
// screen validates its own input, then moves the tracker and asks the
// navigator for the next screen.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/journey"
	"loan-journey-workers/internal/journey/agreement"
	"loan-journey-workers/internal/journey/fields"
	"loan-journey-workers/internal/journey/kyc"
	"loan-journey-workers/internal/journey/lender"
	"loan-journey-workers/internal/journey/offers"
	"loan-journey-workers/internal/notify"
)

var ErrDecisionPending = errors.New("LENDER_DECISION_PENDING")

// Delays are the simulated processing times of the timed screens.
type Delays struct {
	PreQualification  time.Duration
	OfferMatching     time.Duration
	Lender            lender.Delays
	MandateSubmission time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		PreQualification:  1500 * time.Millisecond,
		OfferMatching:     3000 * time.Millisecond,
		Lender:            lender.DefaultDelays(),
		MandateSubmission: 2000 * time.Millisecond,
	}
}

// Deps are the collaborators of a journey. Zero values are replaced with
// a real clock, a random decider, the default catalog and no-op
// navigator, notifier and logger.
type Deps struct {
	Clock     clockwork.Clock
	Decider   lender.Decider
	Navigator Navigator
	Notifier  notify.Notifier
	Catalog   offers.Catalog
	Delays    Delays
	Logger    logger.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.Decider == nil {
		d.Decider = lender.NewRandomDecider(time.Now().UnixNano())
	}
	if d.Navigator == nil {
		d.Navigator = NavigatorFunc(func(string) {})
	}
	if d.Notifier == nil {
		d.Notifier = notify.NewCollector()
	}
	if d.Logger == nil {
		d.Logger = logger.NewNoOpLogger()
	}
	d.Catalog = d.Catalog.Merge(offers.DefaultCatalog())
	return d
}

// LenderState is what the lender screen last showed.
type LenderState struct {
	Screen  lender.Screen  `json:"screen,omitempty"`
	Outcome lender.Outcome `json:"outcome,omitempty"`
}

// Journey is one applicant's pass through the screens.
type Journey struct {
	id        string
	deps      Deps
	tracker   *journey.Tracker
	kyc       *kyc.Sequencer
	agreement *agreement.Agreement
	offerID   int
	lender    LenderState
	startedAt time.Time
	lastJob   *JobRecord
}

func New(id string, deps Deps) *Journey {
	deps = deps.withDefaults()
	tr := journey.NewTracker()
	return &Journey{
		id:        id,
		deps:      deps,
		tracker:   tr,
		kyc:       kyc.NewSequencer(tr),
		agreement: agreement.New(tr, deps.Clock, deps.Delays.MandateSubmission),
		startedAt: deps.Clock.Now().UTC(),
	}
}

func (j *Journey) ID() string { return j.id }

func (j *Journey) Tracker() *journey.Tracker { return j.tracker }

func (j *Journey) CurrentStep() journey.Step { return j.tracker.CurrentStep() }

func (j *Journey) KYCStage() kyc.Stage { return j.kyc.Stage() }

func (j *Journey) AgreementStage() agreement.Stage { return j.agreement.Stage() }

func (j *Journey) Lender() LenderState { return j.lender }

func (j *Journey) Catalog() offers.Catalog { return j.deps.Catalog }

// LastJob is the job that last changed the journey, or nil.
func (j *Journey) LastJob() *JobRecord { return j.lastJob }

// RecordJob remembers key as the job that produced the current state.
func (j *Journey) RecordJob(key int64, output []byte) {
	j.lastJob = &JobRecord{Key: key, Output: output}
}

// OnChange subscribes fn to tracker changes.
func (j *Journey) OnChange(fn func(journey.Change)) { j.tracker.Subscribe(fn) }

// SelectedOffer returns the chosen offer, if any.
func (j *Journey) SelectedOffer() (offers.Offer, bool) {
	if j.offerID == 0 {
		return offers.Offer{}, false
	}
	o, err := j.deps.Catalog.Offer(j.offerID)
	return o, err == nil
}

// Start leaves the welcome screen. Screen-local state from an earlier pass
// is discarded; document flags stay on the tracker until a new session.
func (j *Journey) Start(ctx context.Context) error {
	j.kyc = kyc.NewSequencer(j.tracker)
	j.agreement = agreement.New(j.tracker, j.deps.Clock, j.deps.Delays.MandateSubmission)
	j.offerID = 0
	j.lender = LenderState{}
	return j.moveTo(journey.StepPreQualification)
}

// ConfirmPreQualification waits out the pre-qualification check and moves
// on to PAN entry.
func (j *Journey) ConfirmPreQualification(ctx context.Context) error {
	if err := journey.Wait(ctx, j.deps.Clock, j.deps.Delays.PreQualification); err != nil {
		return fmt.Errorf("pre-qualification: %w", err)
	}
	return j.moveTo(journey.StepPanVerification)
}

// SubmitPAN checks the PAN length. An invalid PAN raises a notice and
// leaves the step unchanged.
func (j *Journey) SubmitPAN(ctx context.Context, pan string) (fields.Result, error) {
	r := fields.ValidatePAN(pan)
	if !r.Valid {
		j.notify(ctx, "Invalid PAN", r.Reason, notify.SeverityDestructive)
		return r, nil
	}
	return r, j.moveTo(journey.StepOfferMatching)
}

// MatchOffers waits out offer matching and returns the offers to display.
func (j *Journey) MatchOffers(ctx context.Context) ([]offers.Offer, error) {
	if err := journey.Wait(ctx, j.deps.Clock, j.deps.Delays.OfferMatching); err != nil {
		return nil, fmt.Errorf("offer matching: %w", err)
	}
	if err := j.moveTo(journey.StepOffers); err != nil {
		return nil, err
	}
	return append([]offers.Offer(nil), j.deps.Catalog.Offers...), nil
}

func (j *Journey) SelectOffer(ctx context.Context, id int) (offers.Offer, error) {
	o, err := j.deps.Catalog.Offer(id)
	if err != nil {
		return offers.Offer{}, err
	}
	j.offerID = id
	j.notify(ctx, "Offer Selected", "You'll be contacted by our team shortly.", notify.SeverityDefault)
	return o, j.moveTo(journey.StepKYCProcess)
}

// SelectKYCMethod picks the verification method. Disabled methods raise a
// notice and are not an error.
func (j *Journey) SelectKYCMethod(ctx context.Context, m kyc.Method) error {
	err := j.kyc.SelectMethod(m)
	if errors.Is(err, kyc.ErrMethodUnavailable) {
		j.notify(ctx, "Option Unavailable", "This verification method is currently disabled. Please use document upload.", notify.SeverityDestructive)
		return nil
	}
	return err
}

func (j *Journey) ProceedKYC(ctx context.Context) error {
	return j.kyc.Proceed()
}

func (j *Journey) UploadDocument(ctx context.Context, f *kyc.FileRef) error {
	stage := j.kyc.Stage()
	if err := j.kyc.Upload(f); err != nil {
		return err
	}
	label, _ := stage.Label()
	j.notify(ctx, "Document Uploaded", fmt.Sprintf("Your %s has been successfully uploaded.", label.Title), notify.SeverityDefault)
	return nil
}

func (j *Journey) RetakeDocument(ctx context.Context) error {
	if err := j.kyc.Retake(); err != nil {
		return err
	}
	j.notify(ctx, "Retake Photo", "Please take a new photo of your document.", notify.SeverityDefault)
	return nil
}

func (j *Journey) DocumentBack(ctx context.Context) {
	j.kyc.Back()
}

// KYCProgress is the upload indicator of the current KYC stage.
func (j *Journey) KYCProgress() kyc.Progress { return j.kyc.Stage().Progress() }

// ContinueFromKYC moves to the lender step once every document is in.
func (j *Journey) ContinueFromKYC(ctx context.Context) error {
	if err := j.kyc.Continue(j.tracker); err != nil {
		return err
	}
	j.deps.Navigator.Navigate(Route(journey.StepLenderProcess))
	return nil
}

// AwaitLenderDecision runs the lender screens and records the outcome.
func (j *Journey) AwaitLenderDecision(ctx context.Context) (lender.Outcome, error) {
	sim := lender.NewSimulator(j.deps.Clock, j.deps.Decider, j.deps.Delays.Lender)
	outcome, err := sim.Run(ctx, func(s lender.Screen) { j.lender.Screen = s })
	if err != nil {
		return "", fmt.Errorf("lender decision: %w", err)
	}
	j.lender.Outcome = outcome
	return outcome, nil
}

// ContinueFromLender follows the recorded decision: approved goes to the
// loan agreement, rejected back to welcome.
func (j *Journey) ContinueFromLender(ctx context.Context) error {
	if j.lender.Outcome == "" {
		return ErrDecisionPending
	}
	return j.moveTo(j.lender.Outcome.NextStep())
}

func (j *Journey) LoanTerms() offers.LoanTerms { return j.deps.Catalog.Terms }

func (j *Journey) SetTermsAccepted(accepted bool) { j.agreement.SetAccepted(accepted) }

func (j *Journey) ProceedToESign(ctx context.Context) error {
	return j.agreement.ProceedToESign()
}

func (j *Journey) VerifyESignOTP(ctx context.Context, otp string) (fields.Result, error) {
	return j.agreement.VerifyOTP(otp)
}

// SubmitBankMandate registers a bank account NACH mandate. Failing fields
// are returned without error and without moving the journey.
func (j *Journey) SubmitBankMandate(ctx context.Context, accountNumber, ifsc string) ([]fields.Result, error) {
	failed, err := j.agreement.SubmitBankMandate(ctx, accountNumber, ifsc)
	return j.afterMandate(ctx, failed, err)
}

func (j *Journey) SubmitUPIMandate(ctx context.Context, upiID string) ([]fields.Result, error) {
	failed, err := j.agreement.SubmitUPIMandate(ctx, upiID)
	return j.afterMandate(ctx, failed, err)
}

func (j *Journey) afterMandate(ctx context.Context, failed []fields.Result, err error) ([]fields.Result, error) {
	if err != nil || len(failed) > 0 {
		return failed, err
	}
	j.notify(ctx, "Disbursement Request Submitted", "Your loan will be disbursed within 2-3 business days.", notify.SeverityDefault)
	j.deps.Navigator.Navigate(Route(journey.StepComplete))
	return nil, nil
}

// Mandate returns the registered NACH mandate, if any.
func (j *Journey) Mandate() *agreement.Mandate { return j.agreement.State().Mandate }

// Disbursement returns the disbursement summary and repayment schedule.
func (j *Journey) Disbursement() (offers.LoanDetails, []offers.EMIEntry) {
	c := j.deps.Catalog
	return c.Disbursement, append([]offers.EMIEntry(nil), c.Schedule...)
}

// ReturnHome ends the pass and goes back to welcome.
func (j *Journey) ReturnHome(ctx context.Context) error {
	j.notify(ctx, "Thank you for using our service!", "Your loan has been successfully processed.", notify.SeverityDefault)
	return j.moveTo(journey.StepWelcome)
}

func (j *Journey) moveTo(s journey.Step) error {
	if err := j.tracker.SetCurrentStep(s); err != nil {
		return err
	}
	j.deps.Navigator.Navigate(Route(s))
	return nil
}

func (j *Journey) notify(ctx context.Context, title, message string, sev notify.Severity) {
	n := notify.Notification{Title: title, Message: message, Severity: sev}
	if err := j.deps.Notifier.Notify(ctx, n); err != nil {
		j.deps.Logger.Warn("notification not delivered", map[string]interface{}{
			"applicationId": j.id,
			"title":         title,
			"error":         err.Error(),
		})
	}
}
