package models

// RegistrationDetails is the registration form submitted by a prospective customer.
// Field names follow the GraphQL input type.
type RegistrationDetails struct {
	NumberOfEmployees int    `json:"numberOfEmployees" validate:"gte=0"`
	FirstName         string `json:"firstName" validate:"required,max=100"`
	LastName          string `json:"lastName" validate:"required,max=100"`
	Email             string `json:"email" validate:"required,email"`
	MobileNumber      string `json:"mobileNumber" validate:"max=40"`

	CompanyName         string `json:"companyName" validate:"required,max=200"`
	CompanyAddressLine1 string `json:"companyAddressLine1" validate:"max=200"`
	CompanyAddressLine2 string `json:"companyAddressLine2" validate:"max=200"`
	CompanyTownCity     string `json:"companyTownCity" validate:"max=100"`
	CompanyCounty       string `json:"companyCounty" validate:"max=100"`
	CompanyPostcode     string `json:"companyPostcode" validate:"max=20"`

	IsDifferentAddress  bool    `json:"isDifferentAddress"`
	BillingName         *string `json:"billingName,omitempty"`
	BillingAddressLine1 *string `json:"billingAddressLine1,omitempty"`
	BillingAddressLine2 *string `json:"billingAddressLine2,omitempty"`
	BillingTownCity     *string `json:"billingTownCity,omitempty"`
	BillingCounty       *string `json:"billingCounty,omitempty"`
	BillingPostcode     *string `json:"billingPostcode,omitempty"`

	HasOptedForEmailContact bool `json:"hasOptedForEmailContact"`
	HasOptedForPhoneContact bool `json:"hasOptedForPhoneContact"`
	HasOptedForTextContact  bool `json:"hasOptedForTextContact"`
	HasOptedForPostContact  bool `json:"hasOptedForPostContact"`
	HasAcceptedTerms        bool `json:"hasAcceptedTerms"`

	ReferralCode    *string `json:"referralCode,omitempty"`
	PaymentMethodID *string `json:"paymentMethodId,omitempty"`
	Bacs            bool    `json:"bacs"`
	OriginPortal    string  `json:"originPortal"`

	HasPurchaseOrderNumber bool    `json:"hasPurchaseOrderNumber"`
	PurchaseOrderNumber    *string `json:"purchaseOrderNumber,omitempty"`

	StripeCustomerID *string `json:"stripeCustomerId,omitempty"`
	StripeInvoiceID  *string `json:"stripeInvoiceId,omitempty"`

	// Informational; echoed back by the frontend and never acted upon.
	StripeInvoicePaid     *string `json:"stripeInvoicePaid,omitempty"`
	StripeInvoiceStatus   *string `json:"stripeInvoiceStatus,omitempty"`
	StripeInvoiceSubtotal *int    `json:"stripeInvoiceSubtotal,omitempty"`
	StripeInvoiceTax      *int    `json:"stripeInvoiceTax,omitempty"`
	StripeInvoiceTotal    *int    `json:"stripeInvoiceTotal,omitempty"`
}

// Deref returns the value of an optional string field, or "" when unset.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PaymentIntentResult is returned when a new online-payment customer is set up.
type PaymentIntentResult struct {
	ClientSecret     string `json:"clientSecret"`
	StripeCustomerID string `json:"stripeCustomerId"`
}

// PaymentIntentForExistingCustomer is returned when an existing customer retries payment.
type PaymentIntentForExistingCustomer struct {
	ClientSecret string `json:"clientSecret"`
}

// PayingCustomer identifies the billing-provider customer.
type PayingCustomer struct {
	StripeCustomerID string `json:"stripeCustomerId"`
}

// BacsCustomer is returned by the BACS invoicing flow.
type BacsCustomer struct {
	StripeCustomerID string `json:"stripeCustomerId"`
	InvoiceID        string `json:"invoiceId"`
}

// PriceQuote is the VAT breakdown for a company size.
type PriceQuote struct {
	PriceID           string  `json:"priceId"`
	AmountExVAT       float64 `json:"amountExVAT"`
	AmountVAT         float64 `json:"amountVAT"`
	AmountIncVAT      float64 `json:"amountIncVAT"`
	AmountIncVATPence float64 `json:"amountIncVATPence"`
	Display           string  `json:"display"`
}

// RegisterRequest is the REST body for flows that only need registration details.
type RegisterRequest struct {
	RegistrationDetails RegistrationDetails `json:"registrationDetails"`
}

// CustomerRegisterRequest is the REST body for flows acting on an existing customer.
type CustomerRegisterRequest struct {
	CustomerID          string              `json:"customerId" validate:"required"`
	RegistrationDetails RegistrationDetails `json:"registrationDetails"`
}

// MotoPaymentRequest is the REST body for MOTO payment flows.
type MotoPaymentRequest struct {
	PaymentMethodID     string              `json:"paymentMethodId" validate:"required"`
	CustomerID          string              `json:"customerId" validate:"required"`
	RegistrationDetails RegistrationDetails `json:"registrationDetails"`
}
