package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/foodmarket/internal/authz"
	"github.com/Skotchmaster/foodmarket/internal/logging"
	"github.com/Skotchmaster/foodmarket/internal/models"
	"github.com/Skotchmaster/foodmarket/internal/tokens"
)

type UserLoader interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// Caller resolves the token subject to a stored user and attaches it to
// the request context. Roles come from the database, not the token.
func Caller(users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(tokenContextKey).(*jwt.Token)
			if !ok || !token.Valid {
				return next(c)
			}
			claims, ok := token.Claims.(*tokens.AccessClaims)
			if !ok {
				return next(c)
			}
			userID, err := tokens.UserIDFromSubject(claims.Subject)
			if err != nil {
				return next(c)
			}

			req := c.Request()
			ctx := req.Context()
			l := logging.FromContext(ctx)

			user, err := users.GetUserByID(ctx, userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					l.Debug("caller_unknown", "user_id", userID)
					return next(c)
				}
				l.Error("caller_error", "status", 500, "user_id", userID, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "cannot load caller")
			}

			ctx = authz.WithCaller(ctx, authz.CallerFromUser(user))
			ctx = logging.IntoContext(ctx, l.With("user_id", user.ID))
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
