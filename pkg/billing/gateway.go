package billing

import (
	"context"

	"github.com/stripe/stripe-go/v76"
)

// Gateway is the subset of the payment provider API the registration flows use.
// Every call is a single provider request; no retries are performed.
type Gateway interface {
	SearchCustomers(ctx context.Context, query string) ([]*stripe.Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*stripe.Customer, error)
	CreateCustomer(ctx context.Context, fields *CustomerFields) (*stripe.Customer, error)
	UpdateCustomer(ctx context.Context, customerID string, fields *CustomerFields) (*stripe.Customer, error)
	SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (*stripe.Customer, error)

	ListCardPaymentMethods(ctx context.Context, customerID string) ([]*stripe.PaymentMethod, error)
	DetachPaymentMethod(ctx context.Context, paymentMethodID string) error

	ListPrices(ctx context.Context, productID string) ([]*stripe.Price, error)

	CreateInvoiceItem(ctx context.Context, customerID, priceID string) (*stripe.InvoiceItem, error)
	CreateInvoice(ctx context.Context, fields InvoiceFields) (*stripe.Invoice, error)
	FinalizeInvoice(ctx context.Context, invoiceID string) (*stripe.Invoice, error)
	GetInvoice(ctx context.Context, invoiceID string) (*stripe.Invoice, error)
	PayInvoice(ctx context.Context, invoiceID string) (*stripe.Invoice, error)

	EnableFutureUsage(ctx context.Context, paymentIntentID string) (*stripe.PaymentIntent, error)
	CreateMotoSetupIntent(ctx context.Context, paymentMethodID, customerID string) (*stripe.SetupIntent, error)
}

// Address is a postal address; empty lines are sent as empty strings.
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
}

// Shipping is the delivery block attached to a customer.
type Shipping struct {
	Address Address
	Name    string
	Phone   string
}

// CustomField is an invoice custom field rendered on every invoice.
type CustomField struct {
	Name  string
	Value string
}

// CustomerFields is the shaped customer record written on create or update.
// Nil or empty members are left out of the request.
type CustomerFields struct {
	Name         string
	Address      *Address
	Shipping     *Shipping
	CustomFields []CustomField
	Metadata     map[string]string
}

// InvoiceFields describes a one-off invoice.
type InvoiceFields struct {
	CustomerID string
	Metadata   map[string]string
	TaxRateIDs []string
}
