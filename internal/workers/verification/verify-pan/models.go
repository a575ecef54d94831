// internal/workers/verification/verify-pan/models.go
package verifypan

import "loan-journey-workers/internal/workers/journeyjob"

type Input struct {
	ApplicationID string `json:"applicationId"`
	PAN           string `json:"pan"`
}

type Output struct {
	journeyjob.Output
	IsValid bool   `json:"isValid"`
	Reason  string `json:"reason,omitempty"`
}
