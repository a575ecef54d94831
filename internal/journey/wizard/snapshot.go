package wizard

import (
	"encoding/json"
	"fmt"
	"time"

	"loan-journey-workers/internal/journey"
	"loan-journey-workers/internal/journey/agreement"
	"loan-journey-workers/internal/journey/kyc"
	"loan-journey-workers/internal/journey/offers"
)

// Snapshot is the persisted state of a journey between jobs.
type Snapshot struct {
	ID          string                         `json:"id"`
	CurrentStep journey.Step                   `json:"currentStep"`
	Documents   journey.DocumentUploadProgress `json:"documents"`
	KYC         kyc.State                      `json:"kyc"`
	Agreement   agreement.State                `json:"agreement"`
	OfferID     int                            `json:"selectedOfferId,omitempty"`
	Lender      LenderState                    `json:"lender"`
	StartedAt   time.Time                      `json:"startedAt"`
	LastJob     *JobRecord                     `json:"lastJob,omitempty"`
}

// JobRecord is the last job applied to a journey and the output it
// completed with.
type JobRecord struct {
	Key    int64           `json:"key"`
	Output json.RawMessage `json:"output,omitempty"`
}

func (j *Journey) Snapshot() Snapshot {
	return Snapshot{
		ID:          j.id,
		CurrentStep: j.tracker.CurrentStep(),
		Documents:   j.tracker.DocumentProgress(),
		KYC:         j.kyc.State(),
		Agreement:   j.agreement.State(),
		OfferID:     j.offerID,
		Lender:      j.lender,
		StartedAt:   j.startedAt,
		LastJob:     j.lastJob,
	}
}

// Restore rebuilds a journey from a snapshot with fresh collaborators.
func Restore(s Snapshot, deps Deps) (*Journey, error) {
	deps = deps.withDefaults()

	tr, err := journey.RestoreTracker(s.CurrentStep, s.Documents)
	if err != nil {
		return nil, err
	}
	seq, err := kyc.Restore(s.KYC, tr)
	if err != nil {
		return nil, err
	}
	if s.OfferID != 0 {
		if _, err := deps.Catalog.Offer(s.OfferID); err != nil {
			return nil, fmt.Errorf("restore journey %s: %w", s.ID, err)
		}
	}

	return &Journey{
		id:        s.ID,
		deps:      deps,
		tracker:   tr,
		kyc:       seq,
		agreement: agreement.Restore(s.Agreement, tr, deps.Clock, deps.Delays.MandateSubmission),
		offerID:   s.OfferID,
		lender:    s.Lender,
		startedAt: s.StartedAt,
		lastJob:   s.LastJob,
	}, nil
}

// View is the summary reported back after every screen action.
type View struct {
	ApplicationID   string                         `json:"applicationId"`
	CurrentStep     journey.Step                   `json:"currentStep"`
	ProgressPercent int                            `json:"progressPercent"`
	Documents       journey.DocumentUploadProgress `json:"documentProgress"`
	KYCStage        kyc.Stage                      `json:"kycStage"`
	KYCProgress     kyc.Progress                   `json:"kycProgress"`
	AgreementStage  agreement.Stage                `json:"agreementStage"`
	SelectedOffer   *offers.Offer                  `json:"selectedOffer,omitempty"`
}

func (j *Journey) View() View {
	v := View{
		ApplicationID:   j.id,
		CurrentStep:     j.tracker.CurrentStep(),
		ProgressPercent: j.tracker.ProgressPercent(),
		Documents:       j.tracker.DocumentProgress(),
		KYCStage:        j.kyc.Stage(),
		KYCProgress:     j.kyc.Stage().Progress(),
		AgreementStage:  j.agreement.Stage(),
	}
	if o, ok := j.SelectedOffer(); ok {
		v.SelectedOffer = &o
	}
	return v
}
