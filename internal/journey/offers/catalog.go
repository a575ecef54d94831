// Package offers holds the display data of the journey: matched offers,
// pre-qualified amount, sanctioned loan terms, and the disbursement summary.
// Figures are fixed display values and are never recomputed.
package offers

import (
	"errors"
	"fmt"
)

var ErrOfferNotFound = errors.New("OFFER_NOT_FOUND")

type Offer struct {
	ID           int     `json:"id" mapstructure:"id"`
	Lender       string  `json:"lender" mapstructure:"lender"`
	Amount       int64   `json:"amount" mapstructure:"amount"`
	InterestRate float64 `json:"interestRate" mapstructure:"interest_rate"`
	TenureMonths int     `json:"tenure" mapstructure:"tenure"`
	EMI          int64   `json:"emi" mapstructure:"emi"`
}

// LoanTerms are the sanctioned terms shown after lender approval.
type LoanTerms struct {
	Amount       int64   `json:"amount" mapstructure:"amount"`
	InterestRate float64 `json:"interestRate" mapstructure:"interest_rate"`
	EMI          int64   `json:"emi" mapstructure:"emi"`
	TenureMonths int     `json:"tenure" mapstructure:"tenure"`
}

type LoanDetails struct {
	LoanID           string  `json:"loanId" mapstructure:"loan_id"`
	Amount           int64   `json:"amount" mapstructure:"amount"`
	TenureMonths     int     `json:"tenure" mapstructure:"tenure"`
	InterestRate     float64 `json:"interestRate" mapstructure:"interest_rate"`
	ProcessingFee    int64   `json:"processingFee" mapstructure:"processing_fee"`
	DisbursementDate string  `json:"disbursementDate" mapstructure:"disbursement_date"`
	AccountNumber    string  `json:"accountNumber" mapstructure:"account_number"`
	EMI              int64   `json:"emi" mapstructure:"emi"`
	TotalInterest    int64   `json:"totalInterest" mapstructure:"total_interest"`
	TotalRepayment   int64   `json:"totalRepayment" mapstructure:"total_repayment"`
}

// EMIEntry is one row of the repayment schedule.
type EMIEntry struct {
	Month     int    `json:"month" mapstructure:"month"`
	Date      string `json:"date" mapstructure:"date"`
	Principal int64  `json:"principal" mapstructure:"principal"`
	Interest  int64  `json:"interest" mapstructure:"interest"`
	Balance   int64  `json:"balance" mapstructure:"balance"`
}

type Catalog struct {
	PreQualifiedAmount int64       `json:"preQualifiedAmount" mapstructure:"pre_qualified_amount"`
	Offers             []Offer     `json:"offers" mapstructure:"offers"`
	Terms              LoanTerms   `json:"terms" mapstructure:"terms"`
	Disbursement       LoanDetails `json:"disbursement" mapstructure:"disbursement"`
	Schedule           []EMIEntry  `json:"schedule" mapstructure:"schedule"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		PreQualifiedAmount: 500000,
		Offers: []Offer{
			{ID: 1, Lender: "ABC Bank", Amount: 500000, InterestRate: 10.5, TenureMonths: 36, EMI: 16200},
			{ID: 2, Lender: "XYZ Finance", Amount: 450000, InterestRate: 11.0, TenureMonths: 36, EMI: 14700},
		},
		Terms: LoanTerms{Amount: 300000, InterestRate: 10.5, EMI: 6500, TenureMonths: 60},
		Disbursement: LoanDetails{
			LoanID:           "LN20240710001",
			Amount:           250000,
			TenureMonths:     24,
			InterestRate:     11.5,
			ProcessingFee:    5000,
			DisbursementDate: "2024-07-10",
			AccountNumber:    "XXXX XXXX 1234",
			EMI:              11689,
			TotalInterest:    30536,
			TotalRepayment:   280536,
		},
		Schedule: []EMIEntry{
			{Month: 1, Date: "2024-08-10", Principal: 9564, Interest: 2125, Balance: 240436},
			{Month: 2, Date: "2024-09-10", Principal: 9645, Interest: 2044, Balance: 230791},
			{Month: 3, Date: "2024-10-10", Principal: 9727, Interest: 1962, Balance: 221064},
			{Month: 4, Date: "2024-11-10", Principal: 9810, Interest: 1879, Balance: 211254},
			{Month: 5, Date: "2024-12-10", Principal: 9893, Interest: 1796, Balance: 201361},
			{Month: 6, Date: "2025-01-10", Principal: 9977, Interest: 1712, Balance: 191384},
		},
	}
}

// Merge fills every empty section of c from the default catalog.
func (c Catalog) Merge(def Catalog) Catalog {
	if c.PreQualifiedAmount == 0 {
		c.PreQualifiedAmount = def.PreQualifiedAmount
	}
	if len(c.Offers) == 0 {
		c.Offers = def.Offers
	}
	if c.Terms == (LoanTerms{}) {
		c.Terms = def.Terms
	}
	if c.Disbursement == (LoanDetails{}) {
		c.Disbursement = def.Disbursement
	}
	if len(c.Schedule) == 0 {
		c.Schedule = def.Schedule
	}
	return c
}

func (c Catalog) Offer(id int) (Offer, error) {
	for _, o := range c.Offers {
		if o.ID == id {
			return o, nil
		}
	}
	return Offer{}, fmt.Errorf("%w: %d", ErrOfferNotFound, id)
}
