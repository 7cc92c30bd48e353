package registration

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const defaultDetachConcurrency = 4

// DetachOutcome is the result of removing one saved card.
type DetachOutcome struct {
	PaymentMethodID string
	Err             error
}

// detachCardPaymentMethods removes every saved card from the customer
// concurrently. Individual failures are reported in the outcomes and never
// returned as an error.
func (s *Service) detachCardPaymentMethods(ctx context.Context, customerID string) []DetachOutcome {
	methods, err := s.gateway.ListCardPaymentMethods(ctx, customerID)
	if err != nil {
		s.log.Warn("failed to list payment methods, skipping removal", "customer_id", customerID, "error", err)
		return nil
	}
	if len(methods) == 0 {
		return nil
	}

	outcomes := make([]DetachOutcome, len(methods))

	var g errgroup.Group
	g.SetLimit(s.detachConcurrency())
	for i, pm := range methods {
		i, id := i, pm.ID
		g.Go(func() error {
			outcomes[i] = DetachOutcome{
				PaymentMethodID: id,
				Err:             s.gateway.DetachPaymentMethod(ctx, id),
			}
			return nil
		})
	}
	_ = g.Wait()

	removed := 0
	for _, o := range outcomes {
		if s.metrics != nil {
			s.metrics.RecordDetach(o.Err == nil)
		}
		if o.Err != nil {
			s.log.Warn("failed to remove payment method", "customer_id", customerID, "payment_method_id", o.PaymentMethodID, "error", o.Err)
			continue
		}
		removed++
	}
	s.log.Info("removed payment methods", "customer_id", customerID, "removed", removed, "total", len(outcomes))

	return outcomes
}

func (s *Service) detachConcurrency() int {
	if s.cfg.DetachConcurrency > 0 {
		return s.cfg.DetachConcurrency
	}
	return defaultDetachConcurrency
}
