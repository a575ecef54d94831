// internal/workers/disbursement/disburse-loan/models.go
package disburseloan

import (
	"loan-journey-workers/internal/journey/offers"
	"loan-journey-workers/internal/workers/journeyjob"
)

type Input struct {
	ApplicationID string `json:"applicationId"`
	ReturnHome    bool   `json:"returnHome,omitempty"`
}

// LoanSummary is the disbursement card with its display strings.
type LoanSummary struct {
	offers.LoanDetails
	AmountText         string `json:"amountText"`
	ProcessingFeeText  string `json:"processingFeeText"`
	EMIText            string `json:"emiText"`
	TotalInterestText  string `json:"totalInterestText"`
	TotalRepaymentText string `json:"totalRepaymentText"`
	RateText           string `json:"rateText"`
}

type Output struct {
	journeyjob.Output
	Loan         LoanSummary       `json:"loan"`
	Schedule     []offers.EMIEntry `json:"schedule"`
	FirstEMIDate string            `json:"firstEmiDate,omitempty"`
	ReturnedHome bool              `json:"returnedHome"`
}
