package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type CookieConfig struct {
	Path   string
	Secure bool
}

func (cfg CookieConfig) create(name, value string, exp time.Time) *http.Cookie {
	path := cfg.Path
	if path == "" {
		path = "/"
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Session lets handlers below the HTTP layer issue and clear the token
// cookies of the current request. A nil *Session is a no-op.
type Session struct {
	w   http.ResponseWriter
	r   *http.Request
	cfg CookieConfig
}

type sessionKey struct{}

func SessionMiddleware(cfg CookieConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			s := &Session{w: c.Response(), r: req, cfg: cfg}
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), sessionKey{}, s)))
			return next(c)
		}
	}
}

func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

func (s *Session) Issue(access string, accessExp time.Time, refresh string, refreshExp time.Time) {
	if s == nil {
		return
	}
	http.SetCookie(s.w, s.cfg.create(AccessCookie, access, accessExp))
	http.SetCookie(s.w, s.cfg.create(RefreshCookie, refresh, refreshExp))
}

func (s *Session) Clear() {
	if s == nil {
		return
	}
	past := time.Unix(0, 0)
	for _, name := range []string{AccessCookie, RefreshCookie} {
		ck := s.cfg.create(name, "", past)
		ck.MaxAge = -1
		http.SetCookie(s.w, ck)
	}
}

// RefreshToken returns the refresh cookie sent with the request, if any.
func (s *Session) RefreshToken() string {
	if s == nil {
		return ""
	}
	ck, err := s.r.Cookie(RefreshCookie)
	if err != nil {
		return ""
	}
	return ck.Value
}
