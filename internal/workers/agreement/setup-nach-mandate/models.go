// internal/workers/agreement/setup-nach-mandate/models.go
package setupnachmandate

import (
	"loan-journey-workers/internal/journey/agreement"
	"loan-journey-workers/internal/journey/fields"
	"loan-journey-workers/internal/workers/journeyjob"
)

type Input struct {
	ApplicationID string                  `json:"applicationId"`
	Method        agreement.MandateMethod `json:"method"`
	AccountNumber string                  `json:"accountNumber,omitempty"`
	IFSC          string                  `json:"ifsc,omitempty"`
	UPIID         string                  `json:"upiId,omitempty"`
}

// MandateView is the registered mandate with the account number masked.
type MandateView struct {
	Method        agreement.MandateMethod `json:"method"`
	AccountNumber string                  `json:"accountNumber,omitempty"`
	IFSC          string                  `json:"ifsc,omitempty"`
	UPIID         string                  `json:"upiId,omitempty"`
}

type Output struct {
	journeyjob.Output
	IsValid        bool            `json:"isValid"`
	FailedFields   []fields.Result `json:"failedFields,omitempty"`
	AgreementStage agreement.Stage `json:"agreementStage"`
	Mandate        *MandateView    `json:"mandate,omitempty"`
}
