package graph

import (
	"context"

	"github.com/Skotchmaster/foodmarket/internal/apperr"
	"github.com/Skotchmaster/foodmarket/internal/logging"
)

const internalMessage = "internal server error"

// Error is the client-facing form of a resolver failure. Its code is
// reported under extensions.code.
type Error struct {
	Message string
	Code    string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

// present converts err for the client. Errors outside the taxonomy are
// logged and replaced with a generic message.
func present(ctx context.Context, op string, err error) error {
	l := logging.FromContext(ctx).With("svc", "graphql", "op", op)

	code := apperr.Code(err)
	if code == apperr.CodeInternal {
		l.Error("resolver_error", "error", err)
		return &Error{Message: internalMessage, Code: code}
	}
	l.Warn("resolver_rejected", "code", code, "error", err)
	return &Error{Message: err.Error(), Code: code}
}
