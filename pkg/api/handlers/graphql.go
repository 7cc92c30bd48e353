package handlers

import (
	"context"
	"net/http"

	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/jordanlanch/regbilling/graph"
	"github.com/jordanlanch/regbilling/pkg/logger"
	"github.com/jordanlanch/regbilling/pkg/registration"
	"github.com/labstack/echo/v4"
)

// GraphQLHandler creates GraphQL server handler
type GraphQLHandler struct {
	server     *handler.Server
	playground http.HandlerFunc
}

// NewGraphQLHandler creates a new GraphQL handler
func NewGraphQLHandler(service *registration.Service, log logger.Logger) *GraphQLHandler {
	return &GraphQLHandler{
		server:     graph.NewServer(&graph.Resolver{Registrations: service}, log, captureGraphQLError),
		playground: playground.Handler("Registration GraphQL", "/graphql"),
	}
}

func captureGraphQLError(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if fe, ok := registration.AsFlowError(err); ok {
			scope.SetTag("flow", fe.Flow)
		}
		hub.CaptureException(err)
	})
}

// GraphQLEndpoint handles GraphQL queries
func (h *GraphQLHandler) GraphQLEndpoint(c echo.Context) error {
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		c.SetRequest(c.Request().WithContext(sentry.SetHubOnContext(c.Request().Context(), hub)))
	}
	h.server.ServeHTTP(c.Response(), c.Request())
	return nil
}

// Playground serves the GraphQL Playground interface
func (h *GraphQLHandler) Playground(c echo.Context) error {
	h.playground.ServeHTTP(c.Response(), c.Request())
	return nil
}
