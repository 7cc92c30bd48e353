package billing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/jordanlanch/regbilling/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

type cannedResponse struct {
	status int
	body   string
}

// fakeStripe records request forms and answers with canned JSON keyed by "METHOD /path".
type fakeStripe struct {
	mu        sync.Mutex
	forms     map[string]url.Values
	responses map[string]cannedResponse
}

func newFakeStripe(t *testing.T) (*fakeStripe, *httptest.Server) {
	f := &fakeStripe{
		forms:     map[string]url.Values{},
		responses: map[string]cannedResponse{},
	}

	e := echo.New()
	e.Any("/*", func(c echo.Context) error {
		key := c.Request().Method + " " + c.Request().URL.Path
		form, err := c.FormParams()
		if err != nil {
			return err
		}

		f.mu.Lock()
		f.forms[key] = form
		resp, ok := f.responses[key]
		f.mu.Unlock()

		if !ok {
			return c.JSONBlob(http.StatusNotFound, []byte(`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"Unrecognized request URL"}}`))
		}
		return c.JSONBlob(resp.status, []byte(resp.body))
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeStripe) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+path] = cannedResponse{status: status, body: body}
}

func (f *fakeStripe) form(method, path string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forms[method+" "+path]
}

type recordingObserver struct {
	mu    sync.Mutex
	calls map[string][]error
}

func (o *recordingObserver) ObserveStripeCall(operation string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.calls == nil {
		o.calls = map[string][]error{}
	}
	o.calls[operation] = append(o.calls[operation], err)
}

func newTestGateway(t *testing.T) (*StripeGateway, *fakeStripe, *recordingObserver) {
	f, srv := newFakeStripe(t)
	obs := &recordingObserver{}
	g := NewStripeGateway(StripeConfig{
		SecretKey:  "sk_test_123",
		BaseURL:    srv.URL,
		MaxRetries: 0,
	}, obs, logger.Discard())
	return g, f, obs
}

func TestStripeGateway_CreateCustomer(t *testing.T) {
	g, f, obs := newTestGateway(t)
	f.on(http.MethodPost, "/v1/customers", http.StatusOK, `{"id":"cus_1","object":"customer","metadata":{"referral_code":"empty"}}`)

	cust, err := g.CreateCustomer(context.Background(), &CustomerFields{
		Name:    "Acme Ltd",
		Address: &Address{Line1: "1 High St", City: "Leeds", PostalCode: "LS1 1AA"},
		Shipping: &Shipping{
			Address: Address{Line1: "1 High St"},
			Name:    "Ada Lovelace",
			Phone:   "+447000000000",
		},
		CustomFields: []CustomField{{Name: "Purchase order no.", Value: "PO-1"}},
		Metadata:     map[string]string{"referral_code": "empty"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cus_1", cust.ID)

	form := f.form(http.MethodPost, "/v1/customers")
	assert.Equal(t, "Acme Ltd", form.Get("name"))
	assert.Equal(t, "1 High St", form.Get("address[line1]"))
	assert.Equal(t, "LS1 1AA", form.Get("address[postal_code]"))
	assert.Equal(t, "Ada Lovelace", form.Get("shipping[name]"))
	assert.Equal(t, "+447000000000", form.Get("shipping[phone]"))
	assert.Equal(t, "Purchase order no.", form.Get("invoice_settings[custom_fields][0][name]"))
	assert.Equal(t, "PO-1", form.Get("invoice_settings[custom_fields][0][value]"))
	assert.Equal(t, "empty", form.Get("metadata[referral_code]"))

	require.Len(t, obs.calls["customers.create"], 1)
	assert.NoError(t, obs.calls["customers.create"][0])
}

func TestStripeGateway_SearchCustomers(t *testing.T) {
	g, f, _ := newTestGateway(t)
	f.on(http.MethodGet, "/v1/customers/search", http.StatusOK,
		`{"object":"search_result","has_more":false,"data":[{"id":"cus_9","object":"customer","metadata":{"referral_code":"ABC"}}]}`)

	found, err := g.SearchCustomers(context.Background(), `metadata["referral_code"]:"ABC"`)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "cus_9", found[0].ID)
	assert.Equal(t, `metadata["referral_code"]:"ABC"`, f.form(http.MethodGet, "/v1/customers/search").Get("query"))
}

func TestStripeGateway_GetCustomer_Deleted(t *testing.T) {
	g, f, _ := newTestGateway(t)
	f.on(http.MethodGet, "/v1/customers/cus_gone", http.StatusOK, `{"id":"cus_gone","object":"customer","deleted":true}`)

	_, err := g.GetCustomer(context.Background(), "cus_gone")
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = g.GetCustomer(context.Background(), "")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestStripeGateway_ListPrices(t *testing.T) {
	g, f, _ := newTestGateway(t)
	f.on(http.MethodGet, "/v1/prices", http.StatusOK, `{"object":"list","has_more":false,"url":"/v1/prices","data":[
		{"id":"price_a","object":"price","type":"one_time","unit_amount":14900,"billing_scheme":"per_unit","metadata":{"lowerlimit":"1","upperlimit":"9"}},
		{"id":"price_b","object":"price","type":"recurring","unit_amount":999,"billing_scheme":"per_unit","metadata":{}}
	]}`)

	prices, err := g.ListPrices(context.Background(), "prod_1")
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, stripe.PriceTypeOneTime, prices[0].Type)

	form := f.form(http.MethodGet, "/v1/prices")
	assert.Equal(t, "prod_1", form.Get("product"))
	assert.Equal(t, "true", form.Get("active"))
	assert.Equal(t, "20", form.Get("limit"))
}

func TestStripeGateway_InvoiceLifecycle(t *testing.T) {
	g, f, _ := newTestGateway(t)
	ctx := context.Background()

	f.on(http.MethodPost, "/v1/invoiceitems", http.StatusOK, `{"id":"ii_1","object":"invoiceitem"}`)
	f.on(http.MethodPost, "/v1/invoices", http.StatusOK, `{"id":"in_1","object":"invoice","status":"draft","payment_intent":null}`)
	f.on(http.MethodPost, "/v1/invoices/in_1/finalize", http.StatusOK, `{"id":"in_1","object":"invoice","status":"open","payment_intent":"pi_1"}`)
	f.on(http.MethodPost, "/v1/payment_intents/pi_1", http.StatusOK, `{"id":"pi_1","object":"payment_intent","client_secret":"pi_1_secret_x","setup_future_usage":"off_session"}`)

	item, err := g.CreateInvoiceItem(ctx, "cus_1", "price_a")
	require.NoError(t, err)
	assert.Equal(t, "ii_1", item.ID)
	assert.Equal(t, "price_a", f.form(http.MethodPost, "/v1/invoiceitems").Get("price"))

	inv, err := g.CreateInvoice(ctx, InvoiceFields{
		CustomerID: "cus_1",
		Metadata:   map[string]string{"ENVIRONMENT_NAME": "staging", "PRICE_ID": "price_a"},
		TaxRateIDs: []string{"txr_vat"},
	})
	require.NoError(t, err)
	assert.Equal(t, stripe.InvoiceStatusDraft, inv.Status)

	form := f.form(http.MethodPost, "/v1/invoices")
	assert.Equal(t, "cus_1", form.Get("customer"))
	assert.Equal(t, "include", form.Get("pending_invoice_items_behavior"))
	assert.Equal(t, "txr_vat", form.Get("default_tax_rates[0]"))
	assert.Equal(t, "staging", form.Get("metadata[ENVIRONMENT_NAME]"))
	assert.Equal(t, "price_a", form.Get("metadata[PRICE_ID]"))

	finalized, err := g.FinalizeInvoice(ctx, "in_1")
	require.NoError(t, err)
	require.NotNil(t, finalized.PaymentIntent)
	assert.Equal(t, "pi_1", finalized.PaymentIntent.ID)

	pi, err := g.EnableFutureUsage(ctx, "pi_1")
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret_x", pi.ClientSecret)
	assert.Equal(t, "off_session", f.form(http.MethodPost, "/v1/payment_intents/pi_1").Get("setup_future_usage"))
}

func TestStripeGateway_CreateMotoSetupIntent(t *testing.T) {
	g, f, _ := newTestGateway(t)
	f.on(http.MethodPost, "/v1/setup_intents", http.StatusOK, `{"id":"seti_1","object":"setup_intent","status":"succeeded"}`)

	si, err := g.CreateMotoSetupIntent(context.Background(), "pm_1", "cus_1")
	require.NoError(t, err)
	assert.Equal(t, "seti_1", si.ID)

	form := f.form(http.MethodPost, "/v1/setup_intents")
	assert.Equal(t, "pm_1", form.Get("payment_method"))
	assert.Equal(t, "cus_1", form.Get("customer"))
	assert.Equal(t, "off_session", form.Get("usage"))
	assert.Equal(t, "true", form.Get("confirm"))
	assert.Equal(t, "true", form.Get("payment_method_options[card][moto]"))
}

func TestStripeGateway_PaymentMethods(t *testing.T) {
	g, f, _ := newTestGateway(t)
	ctx := context.Background()

	f.on(http.MethodGet, "/v1/customers/cus_1/payment_methods", http.StatusOK,
		`{"object":"list","has_more":false,"url":"/v1/customers/cus_1/payment_methods","data":[{"id":"pm_1","object":"payment_method","type":"card"}]}`)
	f.on(http.MethodPost, "/v1/payment_methods/pm_1/detach", http.StatusOK, `{"id":"pm_1","object":"payment_method","type":"card"}`)
	f.on(http.MethodPost, "/v1/customers/cus_1", http.StatusOK, `{"id":"cus_1","object":"customer","invoice_settings":{"default_payment_method":"pm_2"}}`)

	methods, err := g.ListCardPaymentMethods(ctx, "cus_1")
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, "card", f.form(http.MethodGet, "/v1/customers/cus_1/payment_methods").Get("type"))

	require.NoError(t, g.DetachPaymentMethod(ctx, "pm_1"))

	cust, err := g.SetDefaultPaymentMethod(ctx, "cus_1", "pm_2")
	require.NoError(t, err)
	assert.Equal(t, "cus_1", cust.ID)
	assert.Equal(t, "pm_2", f.form(http.MethodPost, "/v1/customers/cus_1").Get("invoice_settings[default_payment_method]"))
}

func TestStripeGateway_ErrorsAreWrapped(t *testing.T) {
	g, f, obs := newTestGateway(t)
	f.on(http.MethodGet, "/v1/invoices/in_missing", http.StatusNotFound,
		`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such invoice: 'in_missing'"}}`)

	_, err := g.GetInvoice(context.Background(), "in_missing")
	require.Error(t, err)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "invoices.retrieve", pe.Operation)
	assert.Equal(t, "resource_missing", pe.Code)
	assert.Equal(t, http.StatusNotFound, pe.StatusCode)
	assert.True(t, IsNotFound(err))

	var se *stripe.Error
	assert.ErrorAs(t, err, &se)

	require.Len(t, obs.calls["invoices.retrieve"], 1)
	assert.Error(t, obs.calls["invoices.retrieve"][0])
}
