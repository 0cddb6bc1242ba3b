package authz

import "context"

// Guard wraps fn so that it runs only after policy allows op for the caller
// in ctx. A passing check calls fn exactly once; a failing one never does.
func Guard[A, R any](p *Policy, op string, fn func(context.Context, A) (R, error)) func(context.Context, A) (R, error) {
	return func(ctx context.Context, args A) (R, error) {
		if err := p.Authorize(ctx, op); err != nil {
			var zero R
			return zero, err
		}
		return fn(ctx, args)
	}
}
