package billing

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
)

var (
	// ErrCustomerNotFound is returned when a customer is missing or deleted.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrInvalidResponse is returned when the provider answers without an id.
	ErrInvalidResponse = errors.New("provider returned an incomplete object")
)

// ProviderError is a Stripe API error reduced to the fields worth logging.
type ProviderError struct {
	Operation   string
	Message     string
	Code        string
	DeclineCode string
	Type        string
	StatusCode  int
	RequestID   string
	Err         error
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("stripe %s: %s (%s)", e.Operation, e.Message, e.Code)
	}
	return fmt.Sprintf("stripe %s: %s", e.Operation, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether the provider rejected the call because the object does not exist.
func IsNotFound(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code == string(stripe.ErrorCodeResourceMissing)
	}
	return errors.Is(err, ErrCustomerNotFound)
}

func wrapStripeError(operation string, err error) error {
	if err == nil {
		return nil
	}

	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return fmt.Errorf("stripe %s: %w", operation, err)
	}

	return &ProviderError{
		Operation:   operation,
		Message:     stripeErr.Msg,
		Code:        string(stripeErr.Code),
		DeclineCode: string(stripeErr.DeclineCode),
		Type:        string(stripeErr.Type),
		StatusCode:  stripeErr.HTTPStatusCode,
		RequestID:   stripeErr.RequestID,
		Err:         err,
	}
}
