// Package billingtest provides an in-memory billing.Gateway for tests.
package billingtest

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/jordanlanch/regbilling/pkg/billing"
	"github.com/stripe/stripe-go/v76"
)

// Operation names, matching the labels the Stripe gateway reports.
const (
	OpSearchCustomers   = "customers.search"
	OpGetCustomer       = "customers.retrieve"
	OpCreateCustomer    = "customers.create"
	OpUpdateCustomer    = "customers.update"
	OpSetDefaultMethod  = "customers.set_default_payment_method"
	OpListCardMethods   = "customers.list_payment_methods"
	OpDetachMethod      = "payment_methods.detach"
	OpListPrices        = "prices.list"
	OpCreateInvoiceItem = "invoice_items.create"
	OpCreateInvoice     = "invoices.create"
	OpFinalizeInvoice   = "invoices.finalize"
	OpGetInvoice        = "invoices.retrieve"
	OpPayInvoice        = "invoices.pay"
	OpUpdateIntent      = "payment_intents.update"
	OpCreateSetupIntent = "setup_intents.create"
)

var quotedValue = regexp.MustCompile(`:"([^"]*)"`)

// Gateway is a concurrency-safe fake of billing.Gateway.
//
// Errors makes an operation fail; Empty makes it succeed with an object that
// has no id, the way a half-successful provider response looks.
type Gateway struct {
	mu sync.Mutex

	Customers      map[string]*stripe.Customer
	Invoices       map[string]*stripe.Invoice
	PaymentMethods map[string][]*stripe.PaymentMethod
	Prices         []*stripe.Price

	Errors       map[string]error
	DetachErrors map[string]error
	Empty        map[string]bool

	// NewInvoiceStatus is the status given to created invoices (default draft).
	NewInvoiceStatus stripe.InvoiceStatus

	Calls          []string
	Created        []*billing.CustomerFields
	Updated        map[string][]*billing.CustomerFields
	InvoiceItems   []InvoiceItem
	CreatedInvoice []billing.InvoiceFields
	Detached       []string
	SetupIntents   []SetupIntent
	Queries        []string

	seq int
}

// InvoiceItem records a pending invoice line.
type InvoiceItem struct {
	CustomerID string
	PriceID    string
}

// SetupIntent records a MOTO setup intent request.
type SetupIntent struct {
	PaymentMethodID string
	CustomerID      string
}

// New returns an empty fake gateway.
func New() *Gateway {
	return &Gateway{
		Customers:      map[string]*stripe.Customer{},
		Invoices:       map[string]*stripe.Invoice{},
		PaymentMethods: map[string][]*stripe.PaymentMethod{},
		Errors:         map[string]error{},
		DetachErrors:   map[string]error{},
		Empty:          map[string]bool{},
		Updated:        map[string][]*billing.CustomerFields{},
	}
}

var _ billing.Gateway = (*Gateway)(nil)

// NotFound builds the error Stripe returns for a missing object.
func NotFound(operation, id string) error {
	return &billing.ProviderError{
		Operation:  operation,
		Message:    fmt.Sprintf("No such object: '%s'", id),
		Code:       string(stripe.ErrorCodeResourceMissing),
		Type:       string(stripe.ErrorTypeInvalidRequest),
		StatusCode: 404,
	}
}

// AddCustomer stores a customer and returns it.
func (g *Gateway) AddCustomer(id string, metadata map[string]string) *stripe.Customer {
	g.mu.Lock()
	defer g.mu.Unlock()

	if metadata == nil {
		metadata = map[string]string{}
	}
	c := &stripe.Customer{ID: id, Metadata: metadata}
	g.Customers[id] = c
	return c
}

// AddInvoice stores an invoice with the given status and payment intent.
func (g *Gateway) AddInvoice(id string, status stripe.InvoiceStatus, paymentIntentID string) *stripe.Invoice {
	g.mu.Lock()
	defer g.mu.Unlock()

	inv := &stripe.Invoice{ID: id, Status: status, Metadata: map[string]string{}}
	if paymentIntentID != "" {
		inv.PaymentIntent = &stripe.PaymentIntent{ID: paymentIntentID}
	}
	g.Invoices[id] = inv
	return inv
}

// AddCard attaches a card payment method to a customer.
func (g *Gateway) AddCard(customerID, paymentMethodID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.PaymentMethods[customerID] = append(g.PaymentMethods[customerID], &stripe.PaymentMethod{
		ID:   paymentMethodID,
		Type: stripe.PaymentMethodTypeCard,
	})
}

// Called reports whether an operation was invoked.
func (g *Gateway) Called(op string) bool {
	return g.Count(op) > 0
}

// Count returns how many times an operation was invoked.
func (g *Gateway) Count(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for _, c := range g.Calls {
		if c == op {
			n++
		}
	}
	return n
}

// CallLog returns a copy of the ordered call log.
func (g *Gateway) CallLog() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]string, len(g.Calls))
	copy(out, g.Calls)
	return out
}

// Customer returns a stored customer.
func (g *Gateway) Customer(id string) *stripe.Customer {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Customers[id]
}

// begin records the call and returns the injected error and empty flag.
func (g *Gateway) begin(op string) (error, bool) {
	g.Calls = append(g.Calls, op)
	return g.Errors[op], g.Empty[op]
}

func (g *Gateway) nextID(prefix string) string {
	g.seq++
	return fmt.Sprintf("%s_%d", prefix, g.seq)
}

func (g *Gateway) SearchCustomers(ctx context.Context, query string) ([]*stripe.Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Queries = append(g.Queries, query)
	if err, _ := g.begin(OpSearchCustomers); err != nil {
		return nil, err
	}

	m := quotedValue.FindStringSubmatch(query)
	if m == nil {
		return nil, nil
	}

	var found []*stripe.Customer
	for _, c := range g.Customers {
		if c.Metadata["referral_code"] == m[1] {
			found = append(found, c)
		}
	}
	return found, nil
}

func (g *Gateway) GetCustomer(ctx context.Context, customerID string) (*stripe.Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err, _ := g.begin(OpGetCustomer); err != nil {
		return nil, err
	}
	c, ok := g.Customers[customerID]
	if !ok || c.Deleted {
		return nil, billing.ErrCustomerNotFound
	}
	return c, nil
}

func (g *Gateway) CreateCustomer(ctx context.Context, fields *billing.CustomerFields) (*stripe.Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Created = append(g.Created, fields)
	err, empty := g.begin(OpCreateCustomer)
	if err != nil {
		return nil, err
	}
	if empty {
		return &stripe.Customer{}, nil
	}

	c := &stripe.Customer{ID: g.nextID("cus"), Name: fields.Name, Metadata: map[string]string{}}
	applyFields(c, fields)
	g.Customers[c.ID] = c
	return c, nil
}

func (g *Gateway) UpdateCustomer(ctx context.Context, customerID string, fields *billing.CustomerFields) (*stripe.Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Updated[customerID] = append(g.Updated[customerID], fields)
	err, empty := g.begin(OpUpdateCustomer)
	if err != nil {
		return nil, err
	}
	if empty {
		return &stripe.Customer{}, nil
	}

	c, ok := g.Customers[customerID]
	if !ok {
		return nil, NotFound(OpUpdateCustomer, customerID)
	}
	applyFields(c, fields)
	return c, nil
}

func (g *Gateway) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (*stripe.Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	err, empty := g.begin(OpSetDefaultMethod)
	if err != nil {
		return nil, err
	}
	if empty {
		return &stripe.Customer{}, nil
	}

	c, ok := g.Customers[customerID]
	if !ok {
		return nil, NotFound(OpSetDefaultMethod, customerID)
	}
	if c.InvoiceSettings == nil {
		c.InvoiceSettings = &stripe.CustomerInvoiceSettings{}
	}
	c.InvoiceSettings.DefaultPaymentMethod = &stripe.PaymentMethod{ID: paymentMethodID}
	return c, nil
}

func (g *Gateway) ListCardPaymentMethods(ctx context.Context, customerID string) ([]*stripe.PaymentMethod, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err, _ := g.begin(OpListCardMethods); err != nil {
		return nil, err
	}
	methods := make([]*stripe.PaymentMethod, len(g.PaymentMethods[customerID]))
	copy(methods, g.PaymentMethods[customerID])
	return methods, nil
}

func (g *Gateway) DetachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err, _ := g.begin(OpDetachMethod); err != nil {
		return err
	}
	if err := g.DetachErrors[paymentMethodID]; err != nil {
		return err
	}
	g.Detached = append(g.Detached, paymentMethodID)
	return nil
}

func (g *Gateway) ListPrices(ctx context.Context, productID string) ([]*stripe.Price, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err, _ := g.begin(OpListPrices); err != nil {
		return nil, err
	}
	return g.Prices, nil
}

func (g *Gateway) CreateInvoiceItem(ctx context.Context, customerID, priceID string) (*stripe.InvoiceItem, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	err, empty := g.begin(OpCreateInvoiceItem)
	if err != nil {
		return nil, err
	}
	if empty {
		return &stripe.InvoiceItem{}, nil
	}

	g.InvoiceItems = append(g.InvoiceItems, InvoiceItem{CustomerID: customerID, PriceID: priceID})
	return &stripe.InvoiceItem{ID: g.nextID("ii")}, nil
}

func (g *Gateway) CreateInvoice(ctx context.Context, fields billing.InvoiceFields) (*stripe.Invoice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.CreatedInvoice = append(g.CreatedInvoice, fields)
	err, empty := g.begin(OpCreateInvoice)
	if err != nil {
		return nil, err
	}
	if empty {
		return &stripe.Invoice{}, nil
	}

	status := g.NewInvoiceStatus
	if status == "" {
		status = stripe.InvoiceStatusDraft
	}

	inv := &stripe.Invoice{
		ID:       g.nextID("in"),
		Status:   status,
		Customer: &stripe.Customer{ID: fields.CustomerID},
		Metadata: fields.Metadata,
	}
	if status != stripe.InvoiceStatusDraft {
		inv.PaymentIntent = &stripe.PaymentIntent{ID: "pi_" + inv.ID}
	}
	g.Invoices[inv.ID] = inv
	return inv, nil
}

func (g *Gateway) FinalizeInvoice(ctx context.Context, invoiceID string) (*stripe.Invoice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	err, empty := g.begin(OpFinalizeInvoice)
	if err != nil {
		return nil, err
	}
	if empty {
		return &stripe.Invoice{ID: invoiceID}, nil
	}

	inv, ok := g.Invoices[invoiceID]
	if !ok {
		return nil, NotFound(OpFinalizeInvoice, invoiceID)
	}
	if inv.Status != stripe.InvoiceStatusDraft {
		return nil, &billing.ProviderError{
			Operation: OpFinalizeInvoice,
			Message:   "This invoice is already finalized",
			Code:      string(stripe.ErrorCodeInvoiceNotEditable),
		}
	}
	inv.Status = stripe.InvoiceStatusOpen
	inv.PaymentIntent = &stripe.PaymentIntent{ID: "pi_" + inv.ID}
	return inv, nil
}

func (g *Gateway) GetInvoice(ctx context.Context, invoiceID string) (*stripe.Invoice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	err, empty := g.begin(OpGetInvoice)
	if err != nil {
		return nil, err
	}
	if empty {
		return &stripe.Invoice{}, nil
	}

	inv, ok := g.Invoices[invoiceID]
	if !ok {
		return nil, NotFound(OpGetInvoice, invoiceID)
	}
	return inv, nil
}

func (g *Gateway) PayInvoice(ctx context.Context, invoiceID string) (*stripe.Invoice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	err, empty := g.begin(OpPayInvoice)
	if err != nil {
		return nil, err
	}
	if empty {
		return &stripe.Invoice{}, nil
	}

	inv, ok := g.Invoices[invoiceID]
	if !ok {
		return nil, NotFound(OpPayInvoice, invoiceID)
	}
	inv.Status = stripe.InvoiceStatusPaid
	inv.Paid = true
	return inv, nil
}

func (g *Gateway) EnableFutureUsage(ctx context.Context, paymentIntentID string) (*stripe.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	err, empty := g.begin(OpUpdateIntent)
	if err != nil {
		return nil, err
	}
	if empty {
		return &stripe.PaymentIntent{ID: paymentIntentID}, nil
	}

	return &stripe.PaymentIntent{
		ID:               paymentIntentID,
		ClientSecret:     paymentIntentID + "_secret",
		SetupFutureUsage: stripe.PaymentIntentSetupFutureUsageOffSession,
	}, nil
}

func (g *Gateway) CreateMotoSetupIntent(ctx context.Context, paymentMethodID, customerID string) (*stripe.SetupIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.SetupIntents = append(g.SetupIntents, SetupIntent{PaymentMethodID: paymentMethodID, CustomerID: customerID})
	err, empty := g.begin(OpCreateSetupIntent)
	if err != nil {
		return nil, err
	}
	if empty {
		return &stripe.SetupIntent{}, nil
	}

	return &stripe.SetupIntent{ID: g.nextID("seti"), Status: stripe.SetupIntentStatusSucceeded}, nil
}

// applyFields merges shaped fields into a stored customer; metadata keys merge
// the way the provider merges them.
func applyFields(c *stripe.Customer, fields *billing.CustomerFields) {
	if fields == nil {
		return
	}
	if fields.Name != "" {
		c.Name = fields.Name
	}
	if fields.Address != nil {
		c.Address = &stripe.Address{
			Line1:      fields.Address.Line1,
			Line2:      fields.Address.Line2,
			City:       fields.Address.City,
			State:      fields.Address.State,
			PostalCode: fields.Address.PostalCode,
		}
	}
	if fields.Shipping != nil {
		c.Shipping = &stripe.ShippingDetails{
			Address: &stripe.Address{
				Line1:      fields.Shipping.Address.Line1,
				Line2:      fields.Shipping.Address.Line2,
				City:       fields.Shipping.Address.City,
				State:      fields.Shipping.Address.State,
				PostalCode: fields.Shipping.Address.PostalCode,
			},
			Name:  fields.Shipping.Name,
			Phone: fields.Shipping.Phone,
		}
	}
	if len(fields.CustomFields) > 0 {
		if c.InvoiceSettings == nil {
			c.InvoiceSettings = &stripe.CustomerInvoiceSettings{}
		}
		c.InvoiceSettings.CustomFields = nil
		for _, f := range fields.CustomFields {
			c.InvoiceSettings.CustomFields = append(c.InvoiceSettings.CustomFields, &stripe.CustomerInvoiceSettingsCustomField{
				Name:  f.Name,
				Value: f.Value,
			})
		}
	}
	if c.Metadata == nil {
		c.Metadata = map[string]string{}
	}
	for k, v := range fields.Metadata {
		c.Metadata[k] = v
	}
}
