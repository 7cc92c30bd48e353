package purchaseorder

import (
	"context"
	"errors"
	"fmt"

	"github.com/jordanlanch/regbilling/pkg/billing"
	"github.com/jordanlanch/regbilling/pkg/logger"
	"github.com/stripe/stripe-go/v76"
)

var (
	// ErrMissingInvoiceID is returned when there is no invoice to key the entry on.
	ErrMissingInvoiceID = errors.New("purchase order merge needs an invoice id")
	// ErrUpdateFailed is returned when the customer metadata could not be written.
	ErrUpdateFailed = errors.New("failed to update customer metadata")
)

// MalformedObserver is told when a stored ledger had to be discarded.
type MalformedObserver interface {
	RecordLedgerMalformed()
}

// Service merges purchase order numbers into a customer's ledger.
type Service struct {
	gateway  billing.Gateway
	observer MalformedObserver
	log      logger.Logger
}

// NewService creates a new purchase order ledger service
func NewService(gateway billing.Gateway, log logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		gateway: gateway,
		log:     log.With("component", "purchaseorder"),
	}
}

// SetObserver sets the malformed-ledger metrics sink.
func (s *Service) SetObserver(o MalformedObserver) {
	s.observer = o
}

// Merge adds invoiceID -> poNumber to the ledger in existing and writes it back
// to the customer. Only the ledger metadata key is sent. A malformed existing
// ledger is logged and replaced.
func (s *Service) Merge(ctx context.Context, customerID, existing, invoiceID, poNumber string) (*stripe.Customer, error) {
	if invoiceID == "" {
		return nil, ErrMissingInvoiceID
	}

	ledger, err := Parse(existing)
	if err != nil {
		s.log.Warn("discarding malformed purchase order ledger", "customer_id", customerID, "error", err)
		if s.observer != nil {
			s.observer.RecordLedgerMalformed()
		}
		ledger = Ledger{}
	}
	ledger.Set(invoiceID, poNumber)

	c, err := s.gateway.UpdateCustomer(ctx, customerID, &billing.CustomerFields{
		Metadata: map[string]string{MetadataKey: ledger.Encode()},
	})
	if err != nil {
		s.log.Error("purchase order ledger update failed", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}
	if c == nil || c.ID == "" {
		return nil, fmt.Errorf("%w: %w", ErrUpdateFailed, billing.ErrInvalidResponse)
	}

	s.log.Info("purchase order recorded", "customer_id", customerID, "invoice_id", invoiceID)
	return c, nil
}

// Existing returns the encoded ledger currently stored on a customer.
func Existing(c *stripe.Customer) string {
	if c == nil || c.Metadata == nil {
		return ""
	}
	return c.Metadata[MetadataKey]
}
