package registration

import (
	"context"
	"time"

	"github.com/jordanlanch/regbilling/pkg/models"
)

// Outcome values recorded for a flow.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics receives flow-level counters.
type Metrics interface {
	RecordFlow(flow string, success bool)
	RecordDetach(success bool)
	RecordLedgerMalformed()
}

// Event is the audit record of one flow execution.
type Event struct {
	Flow       string
	CustomerID string
	InvoiceID  string
	Outcome    string
	Message    string
	Duration   time.Duration
}

// Recorder stores audit events. Failures are logged and never fail the flow.
type Recorder interface {
	Record(ctx context.Context, event Event) error
}

// Completion describes a flow that finished successfully.
type Completion struct {
	Flow          string
	Details       *models.RegistrationDetails
	CustomerID    string
	InvoiceID     string
	PurchaseOrder string
	// NewInvoice is set when the flow raised an invoice the customer must pay by transfer.
	NewInvoice bool
	Paid       bool
}

// Failure describes a flow that stopped at a step.
type Failure struct {
	Flow    string
	Details *models.RegistrationDetails
	Message string
}

// Notifier is told about finished flows, best effort.
type Notifier interface {
	Completed(ctx context.Context, c Completion) error
	Failed(ctx context.Context, f Failure) error
}
