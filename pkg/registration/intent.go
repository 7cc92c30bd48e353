package registration

import (
	"time"

	"github.com/jordanlanch/regbilling/pkg/models"
)

// Flow names, one per mutation.
const (
	FlowCreatePaymentCustomer             = "createPaymentCustomer"
	FlowUpdateExistingCustomer            = "updateExistingCustomer"
	FlowCreateMotoPaymentCustomer         = "createMotoPaymentCustomer"
	FlowMakeMotoPayment                   = "makeMotoPayment"
	FlowUpdateExistingMotoPaymentCustomer = "updateExistingMotoPaymentCustomer"
	FlowPayExistingMotoInvoice            = "payExistingMotoInvoice"
	FlowCreateBacsCustomerAndInvoice      = "createBacsCustomerAndInvoice"
)

// Flows lists every flow in mutation order.
var Flows = []string{
	FlowCreatePaymentCustomer,
	FlowUpdateExistingCustomer,
	FlowCreateMotoPaymentCustomer,
	FlowMakeMotoPayment,
	FlowUpdateExistingMotoPaymentCustomer,
	FlowPayExistingMotoInvoice,
	FlowCreateBacsCustomerAndInvoice,
}

// FlowTimeout bounds one flow, whichever surface started it.
const FlowTimeout = 30 * time.Second

// ReBacsInvoiceID is returned instead of an invoice id when an existing BACS
// customer re-registers; no invoice is raised on that path.
const ReBacsInvoiceID = "ReBacs"

// PurchaseOrder is the purchase order number quoted on a registration.
type PurchaseOrder struct {
	Number string
}

// Registration is the form plus the options decided from it at the boundary.
type Registration struct {
	Details       *models.RegistrationDetails
	PurchaseOrder *PurchaseOrder
}

// NewRegistration reads the optional purchase order from the form once.
func NewRegistration(details *models.RegistrationDetails) Registration {
	r := Registration{Details: details}
	if details.HasPurchaseOrderNumber {
		r.PurchaseOrder = &PurchaseOrder{Number: models.Deref(details.PurchaseOrderNumber)}
	}
	return r
}

// Intent is one registration request, tagged with the flow that serves it.
type Intent interface {
	Flow() string
	registration() Registration
}

// NewOnlineCustomer pays online for a first registration.
type NewOnlineCustomer struct {
	Registration
}

// ExistingOnlineCustomer retries an online payment against an issued invoice.
type ExistingOnlineCustomer struct {
	Registration
	CustomerID string
	InvoiceID  string
}

// NewMotoCustomer sets up a customer before a card is taken over the phone.
type NewMotoCustomer struct {
	Registration
}

// ExistingMotoCustomer refreshes a customer before a card is taken over the phone.
type ExistingMotoCustomer struct {
	Registration
	CustomerID string
}

// MotoPayment invoices and charges a card taken over the phone.
type MotoPayment struct {
	Registration
	PaymentMethodID string
	CustomerID      string
}

// ExistingMotoInvoicePayment charges a card taken over the phone against an issued invoice.
type ExistingMotoInvoicePayment struct {
	Registration
	PaymentMethodID string
	CustomerID      string
	InvoiceID       string
}

// NewBacsCustomer is invoiced for payment by bank transfer.
type NewBacsCustomer struct {
	Registration
}

// ExistingBacsCustomer updates a customer that already has a BACS invoice.
type ExistingBacsCustomer struct {
	Registration
	CustomerID string
	InvoiceID  string
}

func (NewOnlineCustomer) Flow() string          { return FlowCreatePaymentCustomer }
func (ExistingOnlineCustomer) Flow() string     { return FlowUpdateExistingCustomer }
func (NewMotoCustomer) Flow() string            { return FlowCreateMotoPaymentCustomer }
func (ExistingMotoCustomer) Flow() string       { return FlowUpdateExistingMotoPaymentCustomer }
func (MotoPayment) Flow() string                { return FlowMakeMotoPayment }
func (ExistingMotoInvoicePayment) Flow() string { return FlowPayExistingMotoInvoice }
func (NewBacsCustomer) Flow() string            { return FlowCreateBacsCustomerAndInvoice }
func (ExistingBacsCustomer) Flow() string       { return FlowCreateBacsCustomerAndInvoice }

func (r Registration) registration() Registration { return r }

// BacsIntent picks the BACS path from the form: a known customer id means the
// customer is updated rather than invoiced again.
func BacsIntent(details *models.RegistrationDetails) Intent {
	reg := NewRegistration(details)
	if id := models.Deref(details.StripeCustomerID); id != "" {
		return ExistingBacsCustomer{
			Registration: reg,
			CustomerID:   id,
			InvoiceID:    models.Deref(details.StripeInvoiceID),
		}
	}

	bacs := *details
	bacs.Bacs = true
	reg.Details = &bacs
	return NewBacsCustomer{Registration: reg}
}
