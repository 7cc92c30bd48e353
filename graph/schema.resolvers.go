package graph

import (
	"context"

	"github.com/jordanlanch/regbilling/pkg/models"
	"github.com/jordanlanch/regbilling/pkg/registration"
)

// CreateBacsCustomerAndInvoice is the resolver for the createBacsCustomerAndInvoice field.
func (r *mutationResolver) CreateBacsCustomerAndInvoice(ctx context.Context, registrationDetails models.RegistrationDetails) (*models.BacsCustomer, error) {
	if err := validateInput(models.RegisterRequest{RegistrationDetails: registrationDetails}); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, registration.FlowTimeout)
	defer cancel()
	return r.Registrations.CreateBacsCustomerAndInvoice(ctx, &registrationDetails)
}

// CreatePaymentCustomer is the resolver for the createPaymentCustomer field.
func (r *mutationResolver) CreatePaymentCustomer(ctx context.Context, registrationDetails models.RegistrationDetails) (*models.PaymentIntentResult, error) {
	if err := validateInput(models.RegisterRequest{RegistrationDetails: registrationDetails}); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, registration.FlowTimeout)
	defer cancel()
	return r.Registrations.CreatePaymentCustomer(ctx, &registrationDetails)
}

// UpdateExistingCustomer is the resolver for the updateExistingCustomer field.
func (r *mutationResolver) UpdateExistingCustomer(ctx context.Context, customerID string, registrationDetails models.RegistrationDetails) (*models.PaymentIntentForExistingCustomer, error) {
	if err := validateInput(models.CustomerRegisterRequest{CustomerID: customerID, RegistrationDetails: registrationDetails}); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, registration.FlowTimeout)
	defer cancel()
	return r.Registrations.UpdateExistingCustomer(ctx, customerID, &registrationDetails)
}

// CreateMotoPaymentCustomer is the resolver for the createMotoPaymentCustomer field.
func (r *mutationResolver) CreateMotoPaymentCustomer(ctx context.Context, registrationDetails models.RegistrationDetails) (*models.PayingCustomer, error) {
	if err := validateInput(models.RegisterRequest{RegistrationDetails: registrationDetails}); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, registration.FlowTimeout)
	defer cancel()
	return r.Registrations.CreateMotoPaymentCustomer(ctx, &registrationDetails)
}

// MakeMotoPayment is the resolver for the makeMotoPayment field.
func (r *mutationResolver) MakeMotoPayment(ctx context.Context, paymentMethodID string, customerID string, registrationDetails models.RegistrationDetails) (bool, error) {
	if err := validateInput(models.MotoPaymentRequest{PaymentMethodID: paymentMethodID, CustomerID: customerID, RegistrationDetails: registrationDetails}); err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(ctx, registration.FlowTimeout)
	defer cancel()
	return r.Registrations.MakeMotoPayment(ctx, paymentMethodID, customerID, &registrationDetails)
}

// UpdateExistingMotoPaymentCustomer is the resolver for the updateExistingMotoPaymentCustomer field.
func (r *mutationResolver) UpdateExistingMotoPaymentCustomer(ctx context.Context, customerID string, registrationDetails models.RegistrationDetails) (*models.PayingCustomer, error) {
	if err := validateInput(models.CustomerRegisterRequest{CustomerID: customerID, RegistrationDetails: registrationDetails}); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, registration.FlowTimeout)
	defer cancel()
	return r.Registrations.UpdateExistingMotoPaymentCustomer(ctx, customerID, &registrationDetails)
}

// PayExistingMotoInvoice is the resolver for the payExistingMotoInvoice field.
func (r *mutationResolver) PayExistingMotoInvoice(ctx context.Context, paymentMethodID string, customerID string, registrationDetails models.RegistrationDetails) (bool, error) {
	if err := validateInput(models.MotoPaymentRequest{PaymentMethodID: paymentMethodID, CustomerID: customerID, RegistrationDetails: registrationDetails}); err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(ctx, registration.FlowTimeout)
	defer cancel()
	return r.Registrations.PayExistingMotoInvoice(ctx, paymentMethodID, customerID, &registrationDetails)
}

// PriceQuote is the resolver for the priceQuote field.
func (r *queryResolver) PriceQuote(ctx context.Context, numberOfEmployees int) (*models.PriceQuote, error) {
	return r.Registrations.PriceQuote(ctx, numberOfEmployees)
}
