// Package journey holds the step tracker shared by every screen of the loan
// application journey.
package journey

import (
	"errors"
	"fmt"
)

// Step identifies one screen of the journey.
type Step string

const (
	StepWelcome          Step = "welcome"
	StepPreQualification Step = "pre-qualification"
	StepPanVerification  Step = "pan-verification"
	StepOfferMatching    Step = "offer-matching"
	StepOffers           Step = "offers"
	StepKYCProcess       Step = "kyc-process"
	StepLenderProcess    Step = "lender-process"
	StepLoanAgreement    Step = "loan-agreement"
	StepESign            Step = "esign"
	StepNACH             Step = "nach"
	StepComplete         Step = "complete"
)

var ErrUnknownStep = errors.New("UNKNOWN_STEP")

// sequence is the canonical order used for progress display. It does not
// restrict which step may follow which.
var sequence = []Step{
	StepWelcome,
	StepPreQualification,
	StepPanVerification,
	StepOfferMatching,
	StepOffers,
	StepKYCProcess,
	StepLenderProcess,
	StepLoanAgreement,
	StepESign,
	StepNACH,
	StepComplete,
}

var stepIndex = func() map[Step]int {
	m := make(map[Step]int, len(sequence))
	for i, s := range sequence {
		m[s] = i
	}
	return m
}()

// Steps returns a copy of the fixed step sequence.
func Steps() []Step {
	out := make([]Step, len(sequence))
	copy(out, sequence)
	return out
}

// Index returns the position of s in the sequence, or -1.
func (s Step) Index() int {
	if i, ok := stepIndex[s]; ok {
		return i
	}
	return -1
}

func (s Step) Valid() bool {
	_, ok := stepIndex[s]
	return ok
}

func (s Step) String() string { return string(s) }

// ParseStep converts a raw step name, rejecting names outside the sequence.
func ParseStep(raw string) (Step, error) {
	s := Step(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStep, raw)
	}
	return s, nil
}
