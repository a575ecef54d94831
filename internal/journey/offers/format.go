package offers

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders whole rupees with Indian digit grouping, e.g. ₹3,00,000.
func FormatINR(amount int64) string {
	sign, rupees := "", uint64(amount)
	if amount < 0 {
		sign, rupees = "-", -rupees
	}
	return sign + "₹" + inr.Sprintf("%d", rupees)
}

// FormatRate renders an annual interest rate such as 10.5%.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}

// OfferCard is an offer with the strings shown on its card.
type OfferCard struct {
	Offer
	AmountText string `json:"amountText"`
	RateText   string `json:"rateText"`
	EMIText    string `json:"emiText"`
}

func (o Offer) Card() OfferCard {
	return OfferCard{
		Offer:      o,
		AmountText: FormatINR(o.Amount),
		RateText:   FormatRate(o.InterestRate),
		EMIText:    FormatINR(o.EMI),
	}
}
