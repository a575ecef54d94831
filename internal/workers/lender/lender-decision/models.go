// internal/workers/lender/lender-decision/models.go
package lenderdecision

import (
	"loan-journey-workers/internal/journey/lender"
	"loan-journey-workers/internal/journey/offers"
	"loan-journey-workers/internal/workers/journeyjob"
)

type Input struct {
	ApplicationID string `json:"applicationId"`
}

// LoanTermsView is the sanctioned loan shown on the approval screen.
type LoanTermsView struct {
	offers.LoanTerms
	AmountText string `json:"amountText"`
	RateText   string `json:"rateText"`
	EMIText    string `json:"emiText"`
}

type Output struct {
	journeyjob.Output
	Outcome     lender.Outcome `json:"outcome"`
	Approved    bool           `json:"approved"`
	Screen      lender.Screen  `json:"screen"`
	InfoRequest []string       `json:"infoRequest"`
	LoanTerms   *LoanTermsView `json:"loanTerms,omitempty"`
}
