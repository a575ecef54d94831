// internal/workers/offers/select-offer/models.go
package selectoffer

import (
	"loan-journey-workers/internal/journey/offers"
	"loan-journey-workers/internal/workers/journeyjob"
)

type Input struct {
	ApplicationID string `json:"applicationId"`
	OfferID       int    `json:"offerId"`
}

type Output struct {
	journeyjob.Output
	SelectedOffer offers.OfferCard `json:"selectedOffer"`
}
