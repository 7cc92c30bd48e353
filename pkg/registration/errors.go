package registration

import (
	"errors"
	"fmt"
)

// Messages reported to the caller when a flow step fails.
const (
	MsgCreateCustomer       = "Failed to create Stripe customer"
	MsgUpdateCustomer       = "Failed to update Stripe customer"
	MsgCreateInvoice        = "Failed to create a Stripe invoice"
	MsgFinalizeInvoice      = "Failed to finalize Stripe invoice"
	MsgUpdatePaymentIntent  = "Failed to update payment intent"
	MsgInvoiceDoesNotExist  = "Invoice does not exist"
	MsgCreateSetupIntent    = "Failed to create Stripe setup intent"
	MsgAddPaymentMethod     = "Failed to add payment method to Stripe customer"
	MsgPayExistingInvoice   = "Failed to pay Existing invoice"
	MsgUpdateMetadata       = "Failed to update Stripe customer metadata"
	MsgBacsMetadataNotFound = "Failed to retrieve BACS information from customer metadata"
)

// ErrMissingField is the cause when the provider answered without the field a step needs.
var ErrMissingField = errors.New("provider response is missing a required field")

// FlowError is the single failure a registration flow reports. Message is safe
// to show to the caller; Err keeps the cause for logs.
type FlowError struct {
	Flow    string
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	return e.Message
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

func fail(message string, err error) *FlowError {
	return &FlowError{Message: message, Err: err}
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

// AsFlowError returns the FlowError in err's chain, if any.
func AsFlowError(err error) (*FlowError, bool) {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
