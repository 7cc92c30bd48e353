package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jordanlanch/regbilling/pkg/billing"
	"github.com/jordanlanch/regbilling/pkg/logger"
	"github.com/jordanlanch/regbilling/pkg/models"
	"github.com/jordanlanch/regbilling/pkg/phone"
	"github.com/jordanlanch/regbilling/pkg/pricing"
	"github.com/stripe/stripe-go/v76"
)

var (
	// ErrCreateFailed is returned when the provider did not create a usable customer.
	ErrCreateFailed = errors.New("failed to create customer")
	// ErrUpdateFailed is returned when the provider did not return the updated customer.
	ErrUpdateFailed = errors.New("failed to update customer")
)

// PriceResolver picks the tier price for a company size.
type PriceResolver interface {
	ResolvePrice(ctx context.Context, employees int) (pricing.SelectedPrice, error)
}

// Service is the customer directory backed by the payment provider.
type Service struct {
	gateway billing.Gateway
	prices  PriceResolver
	log     logger.Logger
}

// NewService creates a new customer directory
func NewService(gateway billing.Gateway, prices PriceResolver, log logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{
		gateway: gateway,
		prices:  prices,
		log:     log.With("component", "customer"),
	}
}

// FindByReferralCode returns the first customer whose referral_code metadata
// matches exactly, or nil. Search failures are logged and reported as not found.
func (s *Service) FindByReferralCode(ctx context.Context, code string) *stripe.Customer {
	if code == "" || code == EmptyReferralCode {
		return nil
	}

	query := fmt.Sprintf(referralSearchPattern, escapeSearchValue(code))
	customers, err := s.gateway.SearchCustomers(ctx, query)
	if err != nil {
		s.log.Warn("customer search failed", "error", err)
		return nil
	}
	for _, c := range customers {
		if c != nil && c.ID != "" {
			return c
		}
	}
	return nil
}

// GetByID returns a live customer; deleted customers are reported as not found.
func (s *Service) GetByID(ctx context.Context, customerID string) (*stripe.Customer, error) {
	return s.gateway.GetCustomer(ctx, customerID)
}

// GetOrCreate returns the customer registered under the referral code, or creates one.
func (s *Service) GetOrCreate(ctx context.Context, details *models.RegistrationDetails) (*stripe.Customer, error) {
	if existing := s.FindByReferralCode(ctx, ReferralCode(details)); existing != nil {
		s.log.Info("reusing customer for referral code", "customer_id", existing.ID)
		return existing, nil
	}
	return s.Create(ctx, details)
}

// Create registers a new customer. BACS registrations are stamped with the
// price of their tier so the invoice can be raised later.
func (s *Service) Create(ctx context.Context, details *models.RegistrationDetails) (*stripe.Customer, error) {
	var priceID string
	if details.Bacs {
		price, err := s.prices.ResolvePrice(ctx, details.NumberOfEmployees)
		if err != nil {
			s.log.Error("price lookup failed for BACS customer", "error", err)
			return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
		}
		priceID = price.ID
	}

	fields := NewCustomerFields(details, priceID)
	s.checkPhone(details.MobileNumber)

	c, err := s.gateway.CreateCustomer(ctx, fields)
	if err != nil {
		s.log.Error("customer create failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	if c == nil || c.ID == "" {
		s.log.Error("customer create returned no id")
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, billing.ErrInvalidResponse)
	}

	s.log.Info("customer created", "customer_id", c.ID, "bacs", details.Bacs)
	return c, nil
}

// Update rewrites the address, invoice settings and contact metadata of an existing customer.
func (s *Service) Update(ctx context.Context, customerID string, details *models.RegistrationDetails) (*stripe.Customer, error) {
	s.checkPhone(details.MobileNumber)

	c, err := s.gateway.UpdateCustomer(ctx, customerID, UpdateCustomerFields(details))
	if err != nil {
		s.log.Error("customer update failed", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}
	if c == nil || c.ID == "" {
		s.log.Error("customer update returned no id", "customer_id", customerID)
		return nil, fmt.Errorf("%w: %w", ErrUpdateFailed, billing.ErrInvalidResponse)
	}

	return c, nil
}

// checkPhone only warns; the normalized number is stored either way.
func (s *Service) checkPhone(raw string) {
	normalized := phone.NormalizeUKMobile(raw)
	if normalized == "" {
		return
	}
	if !phone.IsValidUKMobile(normalized) {
		s.log.Warn("contact phone is not a valid UK number", "phone", "+"+normalized)
	}
}

func escapeSearchValue(v string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(v)
}
