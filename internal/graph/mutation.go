package graph

import "github.com/graphql-go/graphql"

func (r *Resolver) mutationFields(t *types) graphql.Fields {
	fields := graphql.Fields{}
	for _, group := range []graphql.Fields{
		r.identityMutations(t),
		r.catalogMutations(t),
		r.orderMutations(t),
	} {
		for name, f := range group {
			fields[name] = f
		}
	}
	return fields
}
