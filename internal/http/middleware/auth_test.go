package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Berguit/topical-map-app/internal/platform/logger"
)

func signed(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "seo-team",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func authRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewAuthMiddleware(logger.Nop(), secret).RequireAuth())
	r.GET("/api/projects", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextKeySubject))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "s3cret"
	cases := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"valid header", "Bearer " + signed(t, secret, time.Now().Add(time.Hour)), "", http.StatusOK},
		{"valid query", "", signed(t, secret, time.Now().Add(time.Hour)), http.StatusOK},
		{"expired", "Bearer " + signed(t, secret, time.Now().Add(-time.Hour)), "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed(t, "other", time.Now().Add(time.Hour)), "", http.StatusUnauthorized},
	}
	r := authRouter(secret)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			url := "/api/projects"
			if tc.query != "" {
				url += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.want, rec.Body.String())
			}
			if tc.want == http.StatusOK && rec.Body.String() != "seo-team" {
				t.Fatalf("subject = %q", rec.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareOpenWithoutSecret(t *testing.T) {
	rec := httptest.NewRecorder()
	authRouter("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
