package auth

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodmarket/internal/logging"
	"github.com/Skotchmaster/foodmarket/internal/tokens"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"

	tokenContextKey = "user"
)

// JWT validates the access token from the Authorization header or the
// access cookie. A missing or bad token leaves the request anonymous.
func JWT(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningMethod: "HS256",
		SigningKey:    secret,
		ContextKey:    tokenContextKey,
		TokenLookup:   "header:Authorization:Bearer ,cookie:" + AccessCookie,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return &tokens.AccessClaims{}
		},
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			logging.FromContext(c.Request().Context()).Debug("jwt_ignored", "error", err)
			return nil
		},
	})
}
