// internal/workers/agreement/accept-agreement/models.go
package acceptagreement

import (
	"loan-journey-workers/internal/journey/agreement"
	"loan-journey-workers/internal/journey/offers"
	"loan-journey-workers/internal/workers/journeyjob"
)

type Input struct {
	ApplicationID string `json:"applicationId"`
	Accepted      bool   `json:"accepted"`
}

type Output struct {
	journeyjob.Output
	AgreementStage agreement.Stage  `json:"agreementStage"`
	Documents      []string         `json:"documents"`
	LoanTerms      offers.LoanTerms `json:"loanTerms"`
	AcceptedAt     string           `json:"acceptedAt"`
}
