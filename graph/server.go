package graph

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/jordanlanch/regbilling/pkg/logger"
	"github.com/jordanlanch/regbilling/pkg/registration"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// ErrorHandler observes resolver errors before they are presented.
type ErrorHandler func(ctx context.Context, err error)

// NewServer serves the registration schema over GET and POST.
func NewServer(r *Resolver, log logger.Logger, onError ErrorHandler) *handler.Server {
	if log == nil {
		log = logger.Default()
	}
	log = log.With("component", "graphql")

	srv := handler.New(NewExecutableSchema(Config{Resolvers: r}))
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})
	srv.SetQueryCache(lru.New[*ast.QueryDocument](1000))
	srv.SetErrorPresenter(ErrorPresenter(onError))
	srv.SetRecoverFunc(func(ctx context.Context, err any) error {
		log.Error("graphql resolver panic", "panic", fmt.Sprint(err), "stack", string(debug.Stack()))
		return errors.New("internal system error")
	})
	return srv
}

// ErrorPresenter reports a failed flow by its user-facing message and tags it
// with the flow name. Errors raised by a resolver are passed to onError.
func ErrorPresenter(onError ErrorHandler) graphql.ErrorPresenterFunc {
	return func(ctx context.Context, err error) *gqlerror.Error {
		gerr := graphql.DefaultErrorPresenter(ctx, err)
		if gerr == nil {
			return nil
		}

		if fe, ok := registration.AsFlowError(err); ok {
			gerr.Message = fe.Message
			if gerr.Extensions == nil {
				gerr.Extensions = map[string]interface{}{}
			}
			gerr.Extensions["flow"] = fe.Flow
		}

		if onError != nil && gerr.Err != nil {
			onError(ctx, gerr.Err)
		}
		return gerr
	}
}
