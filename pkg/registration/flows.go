package registration

import (
	"context"
	"errors"

	"github.com/jordanlanch/regbilling/pkg/billing"
	"github.com/jordanlanch/regbilling/pkg/customer"
	"github.com/jordanlanch/regbilling/pkg/pricing"
	"github.com/jordanlanch/regbilling/pkg/purchaseorder"
	"github.com/stripe/stripe-go/v76"
)

func (s *Service) createPaymentCustomer(ctx context.Context, in NewOnlineCustomer) (*Outcome, *FlowError) {
	cust, err := s.customers.GetOrCreate(ctx, in.Details)
	if err != nil {
		return nil, fail(MsgCreateCustomer, err)
	}

	price, fe := s.resolvePrice(ctx, in.Details.NumberOfEmployees)
	if fe != nil {
		return nil, fe
	}

	invoice, fe := s.createInvoice(ctx, cust.ID, price.ID)
	if fe != nil {
		return nil, fe
	}

	secret, fe := s.preparePaymentIntent(ctx, invoice)
	if fe != nil {
		return nil, fe
	}

	if fe := s.mergePurchaseOrder(ctx, in.PurchaseOrder, cust, invoice.ID); fe != nil {
		return nil, fe
	}

	return &Outcome{StripeCustomerID: cust.ID, InvoiceID: invoice.ID, ClientSecret: secret}, nil
}

func (s *Service) updateExistingCustomer(ctx context.Context, in ExistingOnlineCustomer) (*Outcome, *FlowError) {
	detached := s.detachCardPaymentMethods(ctx, in.CustomerID)

	cust, err := s.customers.Update(ctx, in.CustomerID, in.Details)
	if err != nil {
		return nil, fail(MsgUpdateCustomer, err)
	}

	if in.InvoiceID == "" {
		return nil, fail(MsgInvoiceDoesNotExist, missing("stripeInvoiceId"))
	}
	invoice, err := s.gateway.GetInvoice(ctx, in.InvoiceID)
	if err != nil {
		return nil, fail(MsgInvoiceDoesNotExist, err)
	}
	if invoice == nil || invoice.ID == "" {
		return nil, fail(MsgInvoiceDoesNotExist, missing("invoice.id"))
	}

	secret, fe := s.preparePaymentIntent(ctx, invoice)
	if fe != nil {
		return nil, fe
	}

	if fe := s.mergePurchaseOrder(ctx, in.PurchaseOrder, cust, invoice.ID); fe != nil {
		return nil, fe
	}

	return &Outcome{StripeCustomerID: cust.ID, InvoiceID: invoice.ID, ClientSecret: secret, Detached: detached}, nil
}

func (s *Service) createMotoPaymentCustomer(ctx context.Context, in NewMotoCustomer) (*Outcome, *FlowError) {
	cust, err := s.customers.GetOrCreate(ctx, in.Details)
	if err != nil {
		return nil, fail(MsgCreateCustomer, err)
	}
	return &Outcome{StripeCustomerID: cust.ID}, nil
}

func (s *Service) updateExistingMotoPaymentCustomer(ctx context.Context, in ExistingMotoCustomer) (*Outcome, *FlowError) {
	cust, err := s.customers.Update(ctx, in.CustomerID, in.Details)
	if err != nil {
		return nil, fail(MsgUpdateCustomer, err)
	}
	return &Outcome{StripeCustomerID: cust.ID}, nil
}

func (s *Service) makeMotoPayment(ctx context.Context, in MotoPayment) (*Outcome, *FlowError) {
	cust, fe := s.attachMotoCard(ctx, in.PaymentMethodID, in.CustomerID)
	if fe != nil {
		return nil, fe
	}

	price, fe := s.resolvePrice(ctx, in.Details.NumberOfEmployees)
	if fe != nil {
		return nil, fe
	}

	invoice, fe := s.createInvoice(ctx, in.CustomerID, price.ID)
	if fe != nil {
		return nil, fe
	}

	if fe := s.mergePurchaseOrder(ctx, in.PurchaseOrder, cust, invoice.ID); fe != nil {
		return nil, fe
	}

	if fe := s.payInvoice(ctx, invoice.ID); fe != nil {
		return nil, fe
	}

	return &Outcome{StripeCustomerID: cust.ID, InvoiceID: invoice.ID, Paid: true}, nil
}

func (s *Service) payExistingMotoInvoice(ctx context.Context, in ExistingMotoInvoicePayment) (*Outcome, *FlowError) {
	cust, fe := s.attachMotoCard(ctx, in.PaymentMethodID, in.CustomerID)
	if fe != nil {
		return nil, fe
	}

	if in.InvoiceID == "" {
		return nil, fail(MsgPayExistingInvoice, missing("stripeInvoiceId"))
	}
	if fe := s.payInvoice(ctx, in.InvoiceID); fe != nil {
		return nil, fe
	}

	if fe := s.mergePurchaseOrder(ctx, in.PurchaseOrder, cust, in.InvoiceID); fe != nil {
		return nil, fe
	}

	return &Outcome{StripeCustomerID: cust.ID, InvoiceID: in.InvoiceID, Paid: true}, nil
}

func (s *Service) createBacsCustomer(ctx context.Context, in NewBacsCustomer) (*Outcome, *FlowError) {
	cust, err := s.customers.GetOrCreate(ctx, in.Details)
	if err != nil {
		return nil, fail(MsgCreateCustomer, err)
	}

	priceID := cust.Metadata[customer.MetaBacsPriceID]
	if priceID == "" || cust.Metadata[customer.MetaIsBacsPayment] == "" {
		return nil, fail(MsgBacsMetadataNotFound, missing(customer.MetaBacsPriceID))
	}

	invoice, fe := s.createInvoice(ctx, cust.ID, priceID)
	if fe != nil {
		return nil, fe
	}

	if fe := s.mergePurchaseOrder(ctx, in.PurchaseOrder, cust, invoice.ID); fe != nil {
		return nil, fe
	}

	return &Outcome{StripeCustomerID: cust.ID, InvoiceID: invoice.ID}, nil
}

func (s *Service) updateBacsCustomer(ctx context.Context, in ExistingBacsCustomer) (*Outcome, *FlowError) {
	if _, err := s.customers.GetByID(ctx, in.CustomerID); err != nil {
		return nil, fail(MsgUpdateCustomer, err)
	}

	cust, err := s.customers.Update(ctx, in.CustomerID, in.Details)
	if err != nil {
		return nil, fail(MsgUpdateCustomer, err)
	}

	if fe := s.mergePurchaseOrder(ctx, in.PurchaseOrder, cust, in.InvoiceID); fe != nil {
		return nil, fe
	}

	return &Outcome{StripeCustomerID: in.CustomerID, InvoiceID: ReBacsInvoiceID}, nil
}

// attachMotoCard confirms the card for off-session use and makes it the default.
func (s *Service) attachMotoCard(ctx context.Context, paymentMethodID, customerID string) (*stripe.Customer, *FlowError) {
	si, err := s.gateway.CreateMotoSetupIntent(ctx, paymentMethodID, customerID)
	if err != nil {
		return nil, fail(MsgCreateSetupIntent, err)
	}
	if si == nil || si.ID == "" {
		return nil, fail(MsgCreateSetupIntent, missing("setup_intent.id"))
	}

	cust, err := s.gateway.SetDefaultPaymentMethod(ctx, customerID, paymentMethodID)
	if err != nil {
		return nil, fail(MsgAddPaymentMethod, err)
	}
	if cust == nil || cust.ID == "" {
		return nil, fail(MsgAddPaymentMethod, missing("customer.id"))
	}
	return cust, nil
}

func (s *Service) resolvePrice(ctx context.Context, employees int) (pricing.SelectedPrice, *FlowError) {
	price, err := s.prices.ResolvePrice(ctx, employees)
	if err != nil {
		return pricing.SelectedPrice{}, priceFailure(err)
	}
	return price, nil
}

// priceFailure keeps the pricing error codes as the caller-visible message.
func priceFailure(err error) *FlowError {
	if errors.Is(err, pricing.ErrNoPriceDetermined) {
		return fail(pricing.ErrNoPriceDetermined.Error(), err)
	}
	return fail(pricing.ErrNoPricesAvailable.Error(), err)
}

// createInvoice adds the tier price as a pending item and raises an invoice that includes it.
func (s *Service) createInvoice(ctx context.Context, customerID, priceID string) (*stripe.Invoice, *FlowError) {
	item, err := s.gateway.CreateInvoiceItem(ctx, customerID, priceID)
	if err != nil {
		return nil, fail(MsgCreateInvoice, err)
	}
	if item == nil || item.ID == "" {
		return nil, fail(MsgCreateInvoice, missing("invoice_item.id"))
	}

	fields := billing.InvoiceFields{
		CustomerID: customerID,
		Metadata: map[string]string{
			"ENVIRONMENT_NAME": s.cfg.EnvironmentName,
			"PRICE_ID":         priceID,
		},
	}
	if s.cfg.VATTaxRateID != "" {
		fields.TaxRateIDs = []string{s.cfg.VATTaxRateID}
	}

	invoice, err := s.gateway.CreateInvoice(ctx, fields)
	if err != nil {
		return nil, fail(MsgCreateInvoice, err)
	}
	if invoice == nil || invoice.ID == "" {
		return nil, fail(MsgCreateInvoice, missing("invoice.id"))
	}

	s.log.Info("invoice created", "customer_id", customerID, "invoice_id", invoice.ID, "status", invoice.Status)
	return invoice, nil
}

// preparePaymentIntent finalizes a draft invoice and marks its payment intent
// for off-session reuse. Finalize is never called on a non-draft invoice.
func (s *Service) preparePaymentIntent(ctx context.Context, invoice *stripe.Invoice) (string, *FlowError) {
	paymentIntentID := paymentIntentOf(invoice)

	if invoice.Status == stripe.InvoiceStatusDraft {
		finalized, err := s.gateway.FinalizeInvoice(ctx, invoice.ID)
		if err != nil {
			return "", fail(MsgFinalizeInvoice, err)
		}
		paymentIntentID = paymentIntentOf(finalized)
		if paymentIntentID == "" {
			return "", fail(MsgFinalizeInvoice, missing("invoice.payment_intent"))
		}
	}

	if paymentIntentID == "" {
		return "", fail(MsgUpdatePaymentIntent, missing("invoice.payment_intent"))
	}

	pi, err := s.gateway.EnableFutureUsage(ctx, paymentIntentID)
	if err != nil {
		return "", fail(MsgUpdatePaymentIntent, err)
	}
	if pi == nil || pi.ClientSecret == "" {
		return "", fail(MsgUpdatePaymentIntent, missing("payment_intent.client_secret"))
	}
	return pi.ClientSecret, nil
}

func paymentIntentOf(invoice *stripe.Invoice) string {
	if invoice == nil || invoice.PaymentIntent == nil {
		return ""
	}
	return invoice.PaymentIntent.ID
}

func (s *Service) payInvoice(ctx context.Context, invoiceID string) *FlowError {
	paid, err := s.gateway.PayInvoice(ctx, invoiceID)
	if err != nil {
		return fail(MsgPayExistingInvoice, err)
	}
	if paid == nil || paid.ID == "" {
		return fail(MsgPayExistingInvoice, missing("invoice.id"))
	}
	return nil
}

// mergePurchaseOrder records the purchase order against invoiceID on the
// customer's ledger. A registration without a purchase order is a no-op.
func (s *Service) mergePurchaseOrder(ctx context.Context, po *PurchaseOrder, cust *stripe.Customer, invoiceID string) *FlowError {
	if po == nil {
		return nil
	}
	if invoiceID == "" {
		s.log.Warn("purchase order given without an invoice, not recorded", "customer_id", cust.ID)
		return nil
	}

	if _, err := s.ledger.Merge(ctx, cust.ID, purchaseorder.Existing(cust), invoiceID, po.Number); err != nil {
		return fail(MsgUpdateMetadata, err)
	}
	return nil
}
