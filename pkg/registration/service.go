package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/jordanlanch/regbilling/pkg/billing"
	"github.com/jordanlanch/regbilling/pkg/customer"
	"github.com/jordanlanch/regbilling/pkg/logger"
	"github.com/jordanlanch/regbilling/pkg/models"
	"github.com/jordanlanch/regbilling/pkg/pricing"
	"github.com/jordanlanch/regbilling/pkg/purchaseorder"
)

// Pricer resolves tier prices and quotes for a company size.
type Pricer interface {
	ResolvePrice(ctx context.Context, employees int) (pricing.SelectedPrice, error)
	Quote(ctx context.Context, employees int) (*pricing.Quote, error)
}

// Config holds the per-environment settings stamped on invoices.
type Config struct {
	EnvironmentName   string
	VATTaxRateID      string
	DetachConcurrency int
}

// Outcome is what a flow produced. Fields a flow does not set stay empty.
type Outcome struct {
	StripeCustomerID string
	InvoiceID        string
	ClientSecret     string
	Paid             bool
	Detached         []DetachOutcome
}

// Service orchestrates the registration billing flows.
type Service struct {
	gateway   billing.Gateway
	prices    Pricer
	customers *customer.Service
	ledger    *purchaseorder.Service
	cfg       Config

	metrics   Metrics
	recorder  Recorder
	notifiers []Notifier
	log       logger.Logger
}

// NewService creates a new registration service
func NewService(gateway billing.Gateway, prices Pricer, cfg Config, log logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		gateway:   gateway,
		prices:    prices,
		customers: customer.NewService(gateway, prices, log),
		ledger:    purchaseorder.NewService(gateway, log),
		cfg:       cfg,
		log:       log.With("component", "registration"),
	}
}

// SetMetrics sets the metrics sink for flows, detaches and ledger resets.
func (s *Service) SetMetrics(m Metrics) {
	s.metrics = m
	s.ledger.SetObserver(m)
}

// SetRecorder sets the audit trail.
func (s *Service) SetRecorder(r Recorder) {
	s.recorder = r
}

// AddNotifier registers a notifier for finished flows.
func (s *Service) AddNotifier(n Notifier) {
	s.notifiers = append(s.notifiers, n)
}

// Execute runs the flow for intent. Every failure is a *FlowError.
func (s *Service) Execute(ctx context.Context, intent Intent) (*Outcome, error) {
	started := time.Now()
	s.log.Info("registration flow started", "flow", intent.Flow())

	var (
		out *Outcome
		fe  *FlowError
	)
	switch in := intent.(type) {
	case NewOnlineCustomer:
		out, fe = s.createPaymentCustomer(ctx, in)
	case ExistingOnlineCustomer:
		out, fe = s.updateExistingCustomer(ctx, in)
	case NewMotoCustomer:
		out, fe = s.createMotoPaymentCustomer(ctx, in)
	case ExistingMotoCustomer:
		out, fe = s.updateExistingMotoPaymentCustomer(ctx, in)
	case MotoPayment:
		out, fe = s.makeMotoPayment(ctx, in)
	case ExistingMotoInvoicePayment:
		out, fe = s.payExistingMotoInvoice(ctx, in)
	case NewBacsCustomer:
		out, fe = s.createBacsCustomer(ctx, in)
	case ExistingBacsCustomer:
		out, fe = s.updateBacsCustomer(ctx, in)
	default:
		fe = fail("Unsupported registration request", fmt.Errorf("unknown intent %T", intent))
	}

	if fe != nil {
		fe.Flow = intent.Flow()
		s.finishFailed(ctx, intent, fe, time.Since(started))
		return nil, fe
	}
	s.finishSucceeded(ctx, intent, out, time.Since(started))
	return out, nil
}

// CreatePaymentCustomer sets up a new online-payment customer and returns the payment intent secret.
func (s *Service) CreatePaymentCustomer(ctx context.Context, details *models.RegistrationDetails) (*models.PaymentIntentResult, error) {
	out, err := s.Execute(ctx, NewOnlineCustomer{Registration: NewRegistration(details)})
	if err != nil {
		return nil, err
	}
	return &models.PaymentIntentResult{ClientSecret: out.ClientSecret, StripeCustomerID: out.StripeCustomerID}, nil
}

// UpdateExistingCustomer refreshes a customer and re-issues the payment intent of their invoice.
func (s *Service) UpdateExistingCustomer(ctx context.Context, customerID string, details *models.RegistrationDetails) (*models.PaymentIntentForExistingCustomer, error) {
	out, err := s.Execute(ctx, ExistingOnlineCustomer{
		Registration: NewRegistration(details),
		CustomerID:   customerID,
		InvoiceID:    models.Deref(details.StripeInvoiceID),
	})
	if err != nil {
		return nil, err
	}
	return &models.PaymentIntentForExistingCustomer{ClientSecret: out.ClientSecret}, nil
}

// CreateMotoPaymentCustomer finds or creates the customer for a phone payment.
func (s *Service) CreateMotoPaymentCustomer(ctx context.Context, details *models.RegistrationDetails) (*models.PayingCustomer, error) {
	out, err := s.Execute(ctx, NewMotoCustomer{Registration: NewRegistration(details)})
	if err != nil {
		return nil, err
	}
	return &models.PayingCustomer{StripeCustomerID: out.StripeCustomerID}, nil
}

// MakeMotoPayment invoices the customer and charges the card taken over the phone.
func (s *Service) MakeMotoPayment(ctx context.Context, paymentMethodID, customerID string, details *models.RegistrationDetails) (bool, error) {
	out, err := s.Execute(ctx, MotoPayment{
		Registration:    NewRegistration(details),
		PaymentMethodID: paymentMethodID,
		CustomerID:      customerID,
	})
	if err != nil {
		return false, err
	}
	return out.Paid, nil
}

// CreateBacsCustomerAndInvoice invoices a new customer for bank transfer, or updates a known one.
func (s *Service) CreateBacsCustomerAndInvoice(ctx context.Context, details *models.RegistrationDetails) (*models.BacsCustomer, error) {
	out, err := s.Execute(ctx, BacsIntent(details))
	if err != nil {
		return nil, err
	}
	return &models.BacsCustomer{StripeCustomerID: out.StripeCustomerID, InvoiceID: out.InvoiceID}, nil
}

// UpdateExistingMotoPaymentCustomer refreshes a customer before a phone payment.
func (s *Service) UpdateExistingMotoPaymentCustomer(ctx context.Context, customerID string, details *models.RegistrationDetails) (*models.PayingCustomer, error) {
	out, err := s.Execute(ctx, ExistingMotoCustomer{
		Registration: NewRegistration(details),
		CustomerID:   customerID,
	})
	if err != nil {
		return nil, err
	}
	return &models.PayingCustomer{StripeCustomerID: out.StripeCustomerID}, nil
}

// PayExistingMotoInvoice charges the card taken over the phone against an issued invoice.
func (s *Service) PayExistingMotoInvoice(ctx context.Context, paymentMethodID, customerID string, details *models.RegistrationDetails) (bool, error) {
	out, err := s.Execute(ctx, ExistingMotoInvoicePayment{
		Registration:    NewRegistration(details),
		PaymentMethodID: paymentMethodID,
		CustomerID:      customerID,
		InvoiceID:       models.Deref(details.StripeInvoiceID),
	})
	if err != nil {
		return false, err
	}
	return out.Paid, nil
}

// PriceQuote returns the tier price and VAT breakdown for a company size.
func (s *Service) PriceQuote(ctx context.Context, employees int) (*models.PriceQuote, error) {
	q, err := s.prices.Quote(ctx, employees)
	if err != nil {
		return nil, priceFailure(err)
	}
	return &models.PriceQuote{
		PriceID:           q.PriceID,
		AmountExVAT:       q.AmountExVAT,
		AmountVAT:         q.AmountVAT,
		AmountIncVAT:      q.AmountIncVAT,
		AmountIncVATPence: q.AmountIncVATPence,
		Display:           q.Display,
	}, nil
}

func (s *Service) finishSucceeded(ctx context.Context, intent Intent, out *Outcome, took time.Duration) {
	reg := intent.registration()
	s.log.Info("registration flow completed", "flow", intent.Flow(), "customer_id", out.StripeCustomerID,
		"invoice_id", out.InvoiceID, "duration_ms", took.Milliseconds())

	if s.metrics != nil {
		s.metrics.RecordFlow(intent.Flow(), true)
	}
	s.record(ctx, Event{
		Flow:       intent.Flow(),
		CustomerID: out.StripeCustomerID,
		InvoiceID:  out.InvoiceID,
		Outcome:    OutcomeSuccess,
		Duration:   took,
	})

	c := Completion{
		Flow:       intent.Flow(),
		Details:    reg.Details,
		CustomerID: out.StripeCustomerID,
		InvoiceID:  out.InvoiceID,
		Paid:       out.Paid,
	}
	if reg.PurchaseOrder != nil {
		c.PurchaseOrder = reg.PurchaseOrder.Number
	}
	if _, ok := intent.(NewBacsCustomer); ok {
		c.NewInvoice = true
	}
	for _, n := range s.notifiers {
		if err := n.Completed(ctx, c); err != nil {
			s.log.Warn("registration notification failed", "flow", intent.Flow(), "error", err)
		}
	}
}

func (s *Service) finishFailed(ctx context.Context, intent Intent, fe *FlowError, took time.Duration) {
	reg := intent.registration()
	s.log.Error("registration flow failed", "flow", intent.Flow(), "message", fe.Message, "error", fe.Err,
		"duration_ms", took.Milliseconds())

	if s.metrics != nil {
		s.metrics.RecordFlow(intent.Flow(), false)
	}
	s.record(ctx, Event{
		Flow:       intent.Flow(),
		CustomerID: customerIDOf(intent),
		Outcome:    OutcomeFailure,
		Message:    fe.Message,
		Duration:   took,
	})

	for _, n := range s.notifiers {
		if err := n.Failed(ctx, Failure{Flow: intent.Flow(), Details: reg.Details, Message: fe.Message}); err != nil {
			s.log.Warn("registration notification failed", "flow", intent.Flow(), "error", err)
		}
	}
}

func (s *Service) record(ctx context.Context, e Event) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, e); err != nil {
		s.log.Warn("failed to record billing event", "flow", e.Flow, "error", err)
	}
}

func customerIDOf(intent Intent) string {
	switch in := intent.(type) {
	case ExistingOnlineCustomer:
		return in.CustomerID
	case ExistingMotoCustomer:
		return in.CustomerID
	case MotoPayment:
		return in.CustomerID
	case ExistingMotoInvoicePayment:
		return in.CustomerID
	case ExistingBacsCustomer:
		return in.CustomerID
	}
	return ""
}
