// internal/workers/offers/match-offers/models.go
package matchoffers

import (
	"loan-journey-workers/internal/journey/offers"
	"loan-journey-workers/internal/workers/journeyjob"
)

type Input struct {
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	journeyjob.Output
	Offers     []offers.OfferCard `json:"offers"`
	OfferCount int                `json:"offerCount"`
}
