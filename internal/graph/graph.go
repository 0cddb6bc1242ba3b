// Package graph binds the services to a graphql-go schema. Every root
// field is gated by the authorization policy under its own name.
package graph

import (
	"context"

	"github.com/graphql-go/graphql"

	"github.com/Skotchmaster/foodmarket/internal/authz"
	"github.com/Skotchmaster/foodmarket/internal/service"
)

type Resolver struct {
	Identity *service.IdentityService
	Catalog  *service.CatalogService
	Carts    *service.CartService
	Orders   *service.OrderService
	Policy   *authz.Policy
}

type resolveFn func(ctx context.Context, a args) (interface{}, error)

// op builds a root field whose resolver runs only after the policy
// admits the caller for name.
func (r *Resolver) op(name string, typ graphql.Output, params graphql.FieldConfigArgument, fn resolveFn) *graphql.Field {
	guarded := authz.Guard(r.Policy, name, func(ctx context.Context, a args) (interface{}, error) {
		return fn(ctx, a)
	})
	return &graphql.Field{
		Name: name,
		Type: typ,
		Args: params,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			out, err := guarded(p.Context, args(p.Args))
			if err != nil {
				return nil, present(p.Context, name, err)
			}
			return out, nil
		},
	}
}

func callerID(ctx context.Context) uint {
	c, _ := authz.CallerFrom(ctx)
	return c.UserID
}

func NewSchema(r *Resolver) (graphql.Schema, error) {
	if r.Policy == nil {
		r.Policy = authz.DefaultPolicy()
	}
	t := r.newTypes()

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: r.queryFields(t),
		}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Mutation",
			Fields: r.mutationFields(t),
		}),
	})
}

type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

func Execute(ctx context.Context, schema graphql.Schema, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

func success() map[string]interface{} {
	return map[string]interface{}{"success": true}
}

func idArg() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: nonNull(graphql.ID)}
}

func optArg(t graphql.Input) *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: t}
}

func reqArg(t graphql.Input) *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: nonNull(t)}
}
