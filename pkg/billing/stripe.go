package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jordanlanch/regbilling/pkg/logger"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const (
	searchLimit = 10
	priceLimit  = 20
)

// CallObserver receives the outcome of every provider call.
type CallObserver interface {
	ObserveStripeCall(operation string, duration time.Duration, err error)
}

// StripeConfig holds Stripe configuration
type StripeConfig struct {
	SecretKey string
	// APIVersion is the version the account is expected to run. The SDK pins
	// its own version; a mismatch is logged at startup.
	APIVersion string
	// BaseURL overrides the API endpoint (stripe-mock, tests).
	BaseURL    string
	MaxRetries int64
}

// StripeGateway implements Gateway on the Stripe API
type StripeGateway struct {
	*client.API
	observer CallObserver
	log      logger.Logger
}

// NewStripeGateway creates a Stripe-backed gateway with its own client.
// The global stripe.Key is left untouched.
func NewStripeGateway(cfg StripeConfig, observer CallObserver, log logger.Logger) *StripeGateway {
	if log == nil {
		log = logger.Default()
	}
	log = log.With("component", "stripe")

	// GetBackendWithConfig fills in defaults on the config it is given, so
	// each backend gets its own copy.
	backendCfg := func(url string) *stripe.BackendConfig {
		c := &stripe.BackendConfig{
			LeveledLogger:     &leveledLogger{log: log},
			MaxNetworkRetries: stripe.Int64(cfg.MaxRetries),
		}
		if url != "" {
			c.URL = stripe.String(url)
		}
		return c
	}

	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg(cfg.BaseURL)),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg("")),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg("")),
	}

	if cfg.APIVersion != "" && cfg.APIVersion != stripe.APIVersion {
		log.Warn("configured Stripe API version differs from SDK version",
			"configured", cfg.APIVersion, "sdk", stripe.APIVersion)
	}

	return &StripeGateway{
		API:      client.New(cfg.SecretKey, backends),
		observer: observer,
		log:      log,
	}
}

func (g *StripeGateway) observe(operation string, start time.Time, err error) {
	if g.observer != nil {
		g.observer.ObserveStripeCall(operation, time.Since(start), err)
	}
	if err != nil {
		g.log.Error("stripe call failed", "operation", operation, "error", err)
	}
}

// SearchCustomers runs a customer search query and returns the first page of matches
func (g *StripeGateway) SearchCustomers(ctx context.Context, query string) (customers []*stripe.Customer, err error) {
	defer func(start time.Time) { g.observe("customers.search", start, err) }(time.Now())

	params := &stripe.CustomerSearchParams{}
	params.Context = ctx
	params.Query = query
	params.Limit = stripe.Int64(searchLimit)

	iter := g.Customers.Search(params)
	for iter.Next() {
		customers = append(customers, iter.Customer())
		if len(customers) >= searchLimit {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, wrapStripeError("customers.search", err)
	}

	return customers, nil
}

// GetCustomer retrieves a customer, treating deleted customers as absent
func (g *StripeGateway) GetCustomer(ctx context.Context, customerID string) (cust *stripe.Customer, err error) {
	defer func(start time.Time) { g.observe("customers.retrieve", start, err) }(time.Now())

	if customerID == "" {
		return nil, ErrCustomerNotFound
	}

	params := &stripe.CustomerParams{}
	params.Context = ctx

	cust, err = g.Customers.Get(customerID, params)
	if err != nil {
		return nil, wrapStripeError("customers.retrieve", err)
	}
	if cust.Deleted {
		return nil, ErrCustomerNotFound
	}

	return cust, nil
}

// CreateCustomer creates a customer from shaped fields
func (g *StripeGateway) CreateCustomer(ctx context.Context, fields *CustomerFields) (cust *stripe.Customer, err error) {
	defer func(start time.Time) { g.observe("customers.create", start, err) }(time.Now())

	params := customerParams(fields)
	params.Context = ctx

	cust, err = g.Customers.New(params)
	if err != nil {
		return nil, wrapStripeError("customers.create", err)
	}
	return cust, nil
}

// UpdateCustomer applies shaped fields to an existing customer
func (g *StripeGateway) UpdateCustomer(ctx context.Context, customerID string, fields *CustomerFields) (cust *stripe.Customer, err error) {
	defer func(start time.Time) { g.observe("customers.update", start, err) }(time.Now())

	params := customerParams(fields)
	params.Context = ctx

	cust, err = g.Customers.Update(customerID, params)
	if err != nil {
		return nil, wrapStripeError("customers.update", err)
	}
	return cust, nil
}

// SetDefaultPaymentMethod makes a payment method the customer's invoice default
func (g *StripeGateway) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) (cust *stripe.Customer, err error) {
	defer func(start time.Time) { g.observe("customers.set_default_payment_method", start, err) }(time.Now())

	params := &stripe.CustomerParams{
		InvoiceSettings: &stripe.CustomerInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	params.Context = ctx

	cust, err = g.Customers.Update(customerID, params)
	if err != nil {
		return nil, wrapStripeError("customers.set_default_payment_method", err)
	}
	return cust, nil
}

// ListCardPaymentMethods lists every card attached to a customer
func (g *StripeGateway) ListCardPaymentMethods(ctx context.Context, customerID string) (methods []*stripe.PaymentMethod, err error) {
	defer func(start time.Time) { g.observe("customers.list_payment_methods", start, err) }(time.Now())

	params := &stripe.CustomerListPaymentMethodsParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(string(stripe.PaymentMethodTypeCard)),
	}
	params.Context = ctx

	iter := g.Customers.ListPaymentMethods(params)
	for iter.Next() {
		methods = append(methods, iter.PaymentMethod())
	}
	if err := iter.Err(); err != nil {
		return nil, wrapStripeError("customers.list_payment_methods", err)
	}

	return methods, nil
}

// DetachPaymentMethod detaches a payment method from its customer
func (g *StripeGateway) DetachPaymentMethod(ctx context.Context, paymentMethodID string) (err error) {
	defer func(start time.Time) { g.observe("payment_methods.detach", start, err) }(time.Now())

	params := &stripe.PaymentMethodDetachParams{}
	params.Context = ctx

	if _, err := g.PaymentMethods.Detach(paymentMethodID, params); err != nil {
		return wrapStripeError("payment_methods.detach", err)
	}
	return nil
}

// ListPrices lists the active prices of a product
func (g *StripeGateway) ListPrices(ctx context.Context, productID string) (prices []*stripe.Price, err error) {
	defer func(start time.Time) { g.observe("prices.list", start, err) }(time.Now())

	params := &stripe.PriceListParams{
		Product: stripe.String(productID),
		Active:  stripe.Bool(true),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(priceLimit)

	iter := g.Prices.List(params)
	for iter.Next() {
		prices = append(prices, iter.Price())
	}
	if err := iter.Err(); err != nil {
		return nil, wrapStripeError("prices.list", err)
	}

	return prices, nil
}

// CreateInvoiceItem adds a pending line for a price to the customer
func (g *StripeGateway) CreateInvoiceItem(ctx context.Context, customerID, priceID string) (item *stripe.InvoiceItem, err error) {
	defer func(start time.Time) { g.observe("invoice_items.create", start, err) }(time.Now())

	params := &stripe.InvoiceItemParams{
		Customer: stripe.String(customerID),
		Price:    stripe.String(priceID),
	}
	params.Context = ctx

	item, err = g.InvoiceItems.New(params)
	if err != nil {
		return nil, wrapStripeError("invoice_items.create", err)
	}
	return item, nil
}

// CreateInvoice creates a draft invoice collecting the customer's pending items
func (g *StripeGateway) CreateInvoice(ctx context.Context, fields InvoiceFields) (inv *stripe.Invoice, err error) {
	defer func(start time.Time) { g.observe("invoices.create", start, err) }(time.Now())

	params := &stripe.InvoiceParams{
		Customer:                    stripe.String(fields.CustomerID),
		PendingInvoiceItemsBehavior: stripe.String("include"),
		DefaultTaxRates:             stripe.StringSlice(fields.TaxRateIDs),
	}
	params.Context = ctx
	for k, v := range fields.Metadata {
		params.AddMetadata(k, v)
	}

	inv, err = g.Invoices.New(params)
	if err != nil {
		return nil, wrapStripeError("invoices.create", err)
	}
	return inv, nil
}

// FinalizeInvoice moves a draft invoice to open
func (g *StripeGateway) FinalizeInvoice(ctx context.Context, invoiceID string) (inv *stripe.Invoice, err error) {
	defer func(start time.Time) { g.observe("invoices.finalize", start, err) }(time.Now())

	params := &stripe.InvoiceFinalizeInvoiceParams{}
	params.Context = ctx

	inv, err = g.Invoices.FinalizeInvoice(invoiceID, params)
	if err != nil {
		return nil, wrapStripeError("invoices.finalize", err)
	}
	return inv, nil
}

// GetInvoice retrieves an invoice
func (g *StripeGateway) GetInvoice(ctx context.Context, invoiceID string) (inv *stripe.Invoice, err error) {
	defer func(start time.Time) { g.observe("invoices.retrieve", start, err) }(time.Now())

	params := &stripe.InvoiceParams{}
	params.Context = ctx

	inv, err = g.Invoices.Get(invoiceID, params)
	if err != nil {
		return nil, wrapStripeError("invoices.retrieve", err)
	}
	return inv, nil
}

// PayInvoice charges an open invoice with the customer's default payment method
func (g *StripeGateway) PayInvoice(ctx context.Context, invoiceID string) (inv *stripe.Invoice, err error) {
	defer func(start time.Time) { g.observe("invoices.pay", start, err) }(time.Now())

	params := &stripe.InvoicePayParams{}
	params.Context = ctx

	inv, err = g.Invoices.Pay(invoiceID, params)
	if err != nil {
		return nil, wrapStripeError("invoices.pay", err)
	}
	return inv, nil
}

// EnableFutureUsage marks a payment intent's method for off-session reuse
func (g *StripeGateway) EnableFutureUsage(ctx context.Context, paymentIntentID string) (pi *stripe.PaymentIntent, err error) {
	defer func(start time.Time) { g.observe("payment_intents.update", start, err) }(time.Now())

	params := &stripe.PaymentIntentParams{
		SetupFutureUsage: stripe.String(string(stripe.PaymentIntentSetupFutureUsageOffSession)),
	}
	params.Context = ctx

	pi, err = g.PaymentIntents.Update(paymentIntentID, params)
	if err != nil {
		return nil, wrapStripeError("payment_intents.update", err)
	}
	return pi, nil
}

// CreateMotoSetupIntent confirms a mail/telephone order card for off-session use
func (g *StripeGateway) CreateMotoSetupIntent(ctx context.Context, paymentMethodID, customerID string) (si *stripe.SetupIntent, err error) {
	defer func(start time.Time) { g.observe("setup_intents.create", start, err) }(time.Now())

	params := &stripe.SetupIntentParams{
		PaymentMethod: stripe.String(paymentMethodID),
		Customer:      stripe.String(customerID),
		Usage:         stripe.String(string(stripe.SetupIntentUsageOffSession)),
		Confirm:       stripe.Bool(true),
		PaymentMethodOptions: &stripe.SetupIntentPaymentMethodOptionsParams{
			Card: &stripe.SetupIntentPaymentMethodOptionsCardParams{
				MOTO: stripe.Bool(true),
			},
		},
	}
	params.Context = ctx

	si, err = g.SetupIntents.New(params)
	if err != nil {
		return nil, wrapStripeError("setup_intents.create", err)
	}
	return si, nil
}

func customerParams(fields *CustomerFields) *stripe.CustomerParams {
	params := &stripe.CustomerParams{}
	if fields == nil {
		return params
	}

	if fields.Name != "" {
		params.Name = stripe.String(fields.Name)
	}
	if fields.Address != nil {
		params.Address = addressParams(*fields.Address)
	}
	if fields.Shipping != nil {
		params.Shipping = &stripe.CustomerShippingParams{
			Address: addressParams(fields.Shipping.Address),
			Name:    stripe.String(fields.Shipping.Name),
			Phone:   stripe.String(fields.Shipping.Phone),
		}
	}
	if len(fields.CustomFields) > 0 {
		settings := &stripe.CustomerInvoiceSettingsParams{}
		for _, f := range fields.CustomFields {
			settings.CustomFields = append(settings.CustomFields, &stripe.CustomerInvoiceSettingsCustomFieldParams{
				Name:  stripe.String(f.Name),
				Value: stripe.String(f.Value),
			})
		}
		params.InvoiceSettings = settings
	}
	for k, v := range fields.Metadata {
		params.AddMetadata(k, v)
	}

	return params
}

func addressParams(a Address) *stripe.AddressParams {
	return &stripe.AddressParams{
		Line1:      stripe.String(a.Line1),
		Line2:      stripe.String(a.Line2),
		City:       stripe.String(a.City),
		State:      stripe.String(a.State),
		PostalCode: stripe.String(a.PostalCode),
	}
}

// leveledLogger routes SDK log lines through the service logger.
type leveledLogger struct {
	log logger.Logger
}

func (l *leveledLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...))
}

func (l *leveledLogger) Infof(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...))
}

func (l *leveledLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, v...))
}

func (l *leveledLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...))
}
