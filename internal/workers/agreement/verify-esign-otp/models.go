// internal/workers/agreement/verify-esign-otp/models.go
package verifyesignotp

import (
	"loan-journey-workers/internal/journey/agreement"
	"loan-journey-workers/internal/workers/journeyjob"
)

type Input struct {
	ApplicationID string `json:"applicationId"`
	OTP           string `json:"otp"`
}

type Output struct {
	journeyjob.Output
	IsValid        bool            `json:"isValid"`
	Reason         string          `json:"reason,omitempty"`
	AgreementStage agreement.Stage `json:"agreementStage"`
}
