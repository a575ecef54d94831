// internal/workers/onboarding/pre-qualify/models.go
package prequalify

import "loan-journey-workers/internal/workers/journeyjob"

type Input struct {
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	journeyjob.Output
}
