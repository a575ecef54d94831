// internal/workers/onboarding/start-journey/models.go
package startjourney

import "loan-journey-workers/internal/workers/journeyjob"

// Input may carry a caller-chosen application id; one is generated otherwise.
type Input struct {
	ApplicationID string `json:"applicationId,omitempty"`
	CustomerID    string `json:"customerId,omitempty"`
}

type Output struct {
	journeyjob.Output
	PreQualifiedAmount     int64  `json:"preQualifiedAmount"`
	PreQualifiedAmountText string `json:"preQualifiedAmountText"`
	StartedAt              string `json:"startedAt"`
}
