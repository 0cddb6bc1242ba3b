package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Use(Middleware(Config{Skipper: WithoutCookies("accessToken")}))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/graphql", ok)
	e.POST("/graphql", ok)
	return e
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	e := newEcho()
	session := &http.Cookie{Name: "accessToken", Value: "jwt"}
	csrfCookie := &http.Cookie{Name: "XSRF-TOKEN", Value: "tok"}

	tests := []struct {
		name       string
		method     string
		cookies    []*http.Cookie
		headers    map[string]string
		wantStatus int
	}{
		{name: "bearer client is skipped", method: http.MethodPost, wantStatus: http.StatusNoContent},
		{name: "safe method passes", method: http.MethodGet, cookies: []*http.Cookie{session}, wantStatus: http.StatusNoContent},
		{
			name:       "missing header",
			method:     http.MethodPost,
			cookies:    []*http.Cookie{session, csrfCookie},
			headers:    map[string]string{"Origin": "http://example.com"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "foreign origin",
			method:     http.MethodPost,
			cookies:    []*http.Cookie{session, csrfCookie},
			headers:    map[string]string{"Origin": "http://evil.test", "X-CSRF-Token": "tok"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "wrong token",
			method:     http.MethodPost,
			cookies:    []*http.Cookie{session, csrfCookie},
			headers:    map[string]string{"Origin": "http://example.com", "X-CSRF-Token": "nope"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "matching token",
			method:     http.MethodPost,
			cookies:    []*http.Cookie{session, csrfCookie},
			headers:    map[string]string{"Origin": "http://example.com", "X-CSRF-Token": "tok"},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "/graphql", nil)
			for _, ck := range tt.cookies {
				req.AddCookie(ck)
			}
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestMiddleware_IssuesTokenOnSafeRequest(t *testing.T) {
	t.Parallel()

	e := newEcho()
	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "jwt"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	token := rec.Header().Get("X-CSRF-Token")
	assert.NotEmpty(t, token)

	var found bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "XSRF-TOKEN" {
			found = true
			assert.Equal(t, token, ck.Value)
			assert.False(t, ck.HttpOnly)
		}
	}
	assert.True(t, found)
}
