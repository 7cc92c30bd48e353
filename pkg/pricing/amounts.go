package pricing

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// VATRate is the UK standard VAT rate applied to every invoice.
const VATRate = 0.2

// Amounts holds the tax breakdown for a price, in pounds.
type Amounts struct {
	AmountExVAT       float64 `json:"amountExVAT"`
	AmountVAT         float64 `json:"amountVAT"`
	AmountIncVAT      float64 `json:"amountIncVAT"`
	AmountIncVATPence float64 `json:"amountIncVATPence"`
}

// CalculateAmounts derives the VAT breakdown from a unit amount in pence.
// No rounding is applied beyond float division.
func CalculateAmounts(unitAmountPence int64) Amounts {
	exVATPence := float64(unitAmountPence)
	vatPence := exVATPence * VATRate
	incVATPence := exVATPence + vatPence

	return Amounts{
		AmountExVAT:       exVATPence / 100,
		AmountVAT:         vatPence / 100,
		AmountIncVAT:      incVATPence / 100,
		AmountIncVATPence: incVATPence,
	}
}

// Display formats the VAT-inclusive amount for UK customers.
func (a Amounts) Display() string {
	p := message.NewPrinter(language.BritishEnglish)
	return p.Sprint(currency.Symbol(currency.GBP.Amount(a.AmountIncVAT)))
}

// Quote is a resolved price with its VAT breakdown.
type Quote struct {
	PriceID string `json:"priceId"`
	Amounts
	Display string `json:"display"`
}

// NewQuote resolves a tier and computes its amounts in one step.
func NewQuote(tiers []Tier, employees int) (*Quote, error) {
	price, err := ResolveTier(tiers, employees)
	if err != nil {
		return nil, err
	}

	amounts := CalculateAmounts(price.UnitAmount)
	return &Quote{
		PriceID: price.ID,
		Amounts: amounts,
		Display: amounts.Display(),
	}, nil
}
