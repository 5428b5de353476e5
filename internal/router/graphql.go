package router

import (
	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/labstack/echo/v4"
)

type GraphQLRouter struct {
	e      *echo.Echo
	schema *graphql.Schema
}

func NewGraphQLRouter(e *echo.Echo, schema *graphql.Schema) *GraphQLRouter {
	return &GraphQLRouter{
		e:      e,
		schema: schema,
	}
}

func (r *GraphQLRouter) Bind() {
	r.e.POST("/graphql", echo.WrapHandler(&relay.Handler{Schema: r.schema}))
}
