package graph

import (
	"github.com/go-playground/validator/v10"
	"github.com/jordanlanch/regbilling/pkg/registration"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// This file serves as dependency injection for the app, add any dependencies
// the resolvers require here.

type Resolver struct {
	Registrations *registration.Service
}

// Mutation returns the mutation resolver.
func (r *Resolver) Mutation() *mutationResolver { return &mutationResolver{r} }

// Query returns the query resolver.
func (r *Resolver) Query() *queryResolver { return &queryResolver{r} }

type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }

var validate = validator.New()

// validateInput applies the same struct rules as the REST bodies.
func validateInput(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return &gqlerror.Error{
			Message:    "The registration details are invalid",
			Extensions: map[string]interface{}{"code": "validation_error"},
		}
	}
	return nil
}
