package graph

import (
	"context"
	"encoding/json"

	"github.com/jordanlanch/regbilling/pkg/models"
)

// fieldFunc resolves one root field from its coerced arguments.
type fieldFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

type registrationArgs struct {
	RegistrationDetails models.RegistrationDetails `json:"registrationDetails"`
	CustomerID          string                     `json:"customerId"`
	PaymentMethodID     string                     `json:"paymentMethodId"`
}

type priceQuoteArgs struct {
	NumberOfEmployees int `json:"numberOfEmployees"`
}

// decodeArgs maps coerced argument values onto the resolver's Go types. Field
// names in the schema match the json tags of the models package.
func decodeArgs(raw map[string]interface{}, dst interface{}) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

func (r *Resolver) mutationFields() map[string]fieldFunc {
	m := r.Mutation()
	return map[string]fieldFunc{
		"createBacsCustomerAndInvoice": func(ctx context.Context, raw map[string]interface{}) (interface{}, error) {
			var args registrationArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return m.CreateBacsCustomerAndInvoice(ctx, args.RegistrationDetails)
		},
		"createPaymentCustomer": func(ctx context.Context, raw map[string]interface{}) (interface{}, error) {
			var args registrationArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return m.CreatePaymentCustomer(ctx, args.RegistrationDetails)
		},
		"updateExistingCustomer": func(ctx context.Context, raw map[string]interface{}) (interface{}, error) {
			var args registrationArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return m.UpdateExistingCustomer(ctx, args.CustomerID, args.RegistrationDetails)
		},
		"createMotoPaymentCustomer": func(ctx context.Context, raw map[string]interface{}) (interface{}, error) {
			var args registrationArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return m.CreateMotoPaymentCustomer(ctx, args.RegistrationDetails)
		},
		"makeMotoPayment": func(ctx context.Context, raw map[string]interface{}) (interface{}, error) {
			var args registrationArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return m.MakeMotoPayment(ctx, args.PaymentMethodID, args.CustomerID, args.RegistrationDetails)
		},
		"updateExistingMotoPaymentCustomer": func(ctx context.Context, raw map[string]interface{}) (interface{}, error) {
			var args registrationArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return m.UpdateExistingMotoPaymentCustomer(ctx, args.CustomerID, args.RegistrationDetails)
		},
		"payExistingMotoInvoice": func(ctx context.Context, raw map[string]interface{}) (interface{}, error) {
			var args registrationArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return m.PayExistingMotoInvoice(ctx, args.PaymentMethodID, args.CustomerID, args.RegistrationDetails)
		},
	}
}

func (r *Resolver) queryFields() map[string]fieldFunc {
	q := r.Query()
	return map[string]fieldFunc{
		"priceQuote": func(ctx context.Context, raw map[string]interface{}) (interface{}, error) {
			var args priceQuoteArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return q.PriceQuote(ctx, args.NumberOfEmployees)
		},
	}
}
