// Package agreement covers the loan agreement screen: document review and
// acceptance, e-sign OTP, and NACH mandate setup.
package agreement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"loan-journey-workers/internal/journey"
	"loan-journey-workers/internal/journey/fields"
)

type Stage string

const (
	StageDocuments Stage = "documents"
	StageESign     Stage = "esign"
	StageNACH      Stage = "nach"
	StageComplete  Stage = "complete"
)

// MandateMethod is how the repayment mandate is registered.
type MandateMethod string

const (
	MandateBankAccount MandateMethod = "bank-account"
	MandateUPI         MandateMethod = "upi"
)

var (
	ErrInvalidTransition = errors.New("INVALID_AGREEMENT_TRANSITION")
	ErrTermsNotAccepted  = errors.New("TERMS_NOT_ACCEPTED")
)

// Documents are the files presented for review before signing.
var Documents = []string{
	"Loan Agreement",
	"Terms & Conditions",
	"Privacy Policy",
}

// Mandate is the registered NACH mandate.
type Mandate struct {
	Method        MandateMethod `json:"method"`
	AccountNumber string        `json:"accountNumber,omitempty"`
	IFSC          string        `json:"ifsc,omitempty"`
	UPIID         string        `json:"upiId,omitempty"`
}

var formValidator = fields.NewValidator()

type bankMandateForm struct {
	AccountNumber string `json:"accountNumber" validate:"bankaccount"`
	IFSC          string `json:"ifsc" validate:"ifsc"`
}

type upiMandateForm struct {
	UPIID string `json:"upiId" validate:"upi"`
}

// State is the persisted form of an Agreement.
type State struct {
	Stage    Stage    `json:"stage"`
	Accepted bool     `json:"accepted"`
	Mandate  *Mandate `json:"mandate,omitempty"`
}

// Agreement tracks the sub-stage and mirrors each forward move into the
// journey step (esign, nach, complete).
type Agreement struct {
	state       State
	steps       StepSetter
	clock       clockwork.Clock
	submitDelay time.Duration
}

// StepSetter moves the journey; *journey.Tracker satisfies it.
type StepSetter interface {
	SetCurrentStep(s journey.Step) error
}

func New(steps StepSetter, clock clockwork.Clock, submitDelay time.Duration) *Agreement {
	return Restore(State{Stage: StageDocuments}, steps, clock, submitDelay)
}

func Restore(state State, steps StepSetter, clock clockwork.Clock, submitDelay time.Duration) *Agreement {
	if state.Stage == "" {
		state.Stage = StageDocuments
	}
	return &Agreement{
		state:       state,
		steps:       steps,
		clock:       clock,
		submitDelay: submitDelay,
	}
}

func (a *Agreement) State() State { return a.state }

func (a *Agreement) Stage() Stage { return a.state.Stage }

// SetAccepted records the terms checkbox.
func (a *Agreement) SetAccepted(accepted bool) {
	a.state.Accepted = accepted
}

// ProceedToESign requires accepted terms on the documents stage.
func (a *Agreement) ProceedToESign() error {
	if err := a.expect(StageDocuments); err != nil {
		return err
	}
	if !a.state.Accepted {
		return ErrTermsNotAccepted
	}
	return a.advance(StageESign, journey.StepESign)
}

// VerifyOTP checks the OTP format. A failing result leaves the stage as is.
func (a *Agreement) VerifyOTP(otp string) (fields.Result, error) {
	if err := a.expect(StageESign); err != nil {
		return fields.Result{}, err
	}
	r := fields.ValidateOTP(otp)
	if !r.Valid {
		return r, nil
	}
	return r, a.advance(StageNACH, journey.StepNACH)
}

// SubmitBankMandate validates account number and IFSC, then waits the
// submission delay before completing.
func (a *Agreement) SubmitBankMandate(ctx context.Context, accountNumber, ifsc string) ([]fields.Result, error) {
	form := bankMandateForm{AccountNumber: accountNumber, IFSC: ifsc}
	return a.submit(ctx, form, Mandate{Method: MandateBankAccount, AccountNumber: accountNumber, IFSC: ifsc})
}

func (a *Agreement) SubmitUPIMandate(ctx context.Context, upiID string) ([]fields.Result, error) {
	return a.submit(ctx, upiMandateForm{UPIID: upiID}, Mandate{Method: MandateUPI, UPIID: upiID})
}

func (a *Agreement) submit(ctx context.Context, form interface{}, m Mandate) ([]fields.Result, error) {
	if err := a.expect(StageNACH); err != nil {
		return nil, err
	}
	if failed := formValidator.Struct(form); len(failed) > 0 {
		return failed, nil
	}
	if err := journey.Wait(ctx, a.clock, a.submitDelay); err != nil {
		return nil, fmt.Errorf("mandate submission: %w", err)
	}
	a.state.Mandate = &m
	return nil, a.advance(StageComplete, journey.StepComplete)
}

func (a *Agreement) expect(s Stage) error {
	if a.state.Stage != s {
		return fmt.Errorf("%w: expected %s, at %s", ErrInvalidTransition, s, a.state.Stage)
	}
	return nil
}

func (a *Agreement) advance(s Stage, step journey.Step) error {
	if err := a.steps.SetCurrentStep(step); err != nil {
		return err
	}
	a.state.Stage = s
	return nil
}
