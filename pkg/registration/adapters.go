package registration

import (
	"context"
	"strings"

	"github.com/jordanlanch/regbilling/pkg/audit"
	"github.com/jordanlanch/regbilling/pkg/email"
	"github.com/jordanlanch/regbilling/pkg/slack"
)

// AuditRecorder adapts the audit.Store to the Recorder interface.
type AuditRecorder struct {
	store *audit.Store
}

// NewAuditRecorder creates a new adapter wrapping the audit store.
func NewAuditRecorder(store *audit.Store) *AuditRecorder {
	return &AuditRecorder{store: store}
}

// Record writes the event to the billing_events table.
func (a *AuditRecorder) Record(ctx context.Context, e Event) error {
	return a.store.Log(ctx, audit.Entry{
		Flow:       e.Flow,
		CustomerID: e.CustomerID,
		InvoiceID:  e.InvoiceID,
		Outcome:    e.Outcome,
		Message:    e.Message,
		DurationMS: e.Duration.Milliseconds(),
	})
}

// SlackNotifier adapts the slack.Service to the Notifier interface.
type SlackNotifier struct {
	service     *slack.Service
	environment string
}

// NewSlackNotifier creates a new adapter wrapping the Slack service.
func NewSlackNotifier(s *slack.Service, environment string) *SlackNotifier {
	return &SlackNotifier{service: s, environment: environment}
}

// Completed posts the registration to the sales channel.
func (a *SlackNotifier) Completed(ctx context.Context, c Completion) error {
	r := slack.Registration{
		Flow:                c.Flow,
		StripeCustomerID:    c.CustomerID,
		InvoiceID:           c.InvoiceID,
		PurchaseOrderNumber: c.PurchaseOrder,
		Environment:         a.environment,
	}
	if c.Details != nil {
		r.CompanyName = c.Details.CompanyName
		r.ContactEmail = c.Details.Email
		r.NumberOfEmployees = c.Details.NumberOfEmployees
		r.OriginPortal = c.Details.OriginPortal
	}
	return a.service.NotifyRegistration(ctx, r)
}

// Failed posts the failed step so sales can follow up.
func (a *SlackNotifier) Failed(ctx context.Context, f Failure) error {
	company := ""
	if f.Details != nil {
		company = f.Details.CompanyName
	}
	return a.service.NotifyFlowFailed(ctx, f.Flow, company, f.Message)
}

// EmailNotifier adapts the email.Service to the Notifier interface.
type EmailNotifier struct {
	service *email.Service
	prices  Pricer
}

// NewEmailNotifier creates a new adapter wrapping the email service. prices
// may be nil, in which case invoice emails carry no amount.
func NewEmailNotifier(s *email.Service, prices Pricer) *EmailNotifier {
	return &EmailNotifier{service: s, prices: prices}
}

// Completed emails the contact about a new BACS invoice or a phone payment.
func (a *EmailNotifier) Completed(ctx context.Context, c Completion) error {
	if c.Details == nil || c.Details.Email == "" {
		return nil
	}
	name := strings.TrimSpace(c.Details.FirstName + " " + c.Details.LastName)

	switch {
	case c.NewInvoice:
		inv := email.BacsInvoice{
			ContactEmail:        c.Details.Email,
			ContactName:         name,
			CompanyName:         c.Details.CompanyName,
			InvoiceID:           c.InvoiceID,
			PurchaseOrderNumber: c.PurchaseOrder,
		}
		if a.prices != nil {
			if q, err := a.prices.Quote(ctx, c.Details.NumberOfEmployees); err == nil {
				inv.AmountDisplay = q.Display
			}
		}
		return a.service.SendBacsInvoiceEmail(ctx, inv)
	case c.Paid:
		return a.service.SendPaymentConfirmationEmail(ctx, email.MotoPayment{
			ContactEmail: c.Details.Email,
			ContactName:  name,
			CompanyName:  c.Details.CompanyName,
			InvoiceID:    c.InvoiceID,
		})
	}
	return nil
}

// Failed sends nothing; failures are handled by the sales team.
func (a *EmailNotifier) Failed(ctx context.Context, f Failure) error {
	return nil
}
