package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func signToken(t *testing.T, secret, subject string, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := GetAdminID(r.Context())
		w.Header().Set("X-Admin", id)
		w.WriteHeader(http.StatusOK)
	})
}

// Feature: catalog-admin, Property 9: Protected endpoints reject missing tokens
func TestProperty_ProtectedEndpointsRejectMissingTokens(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests without authorization header are rejected", prop.ForAll(
		func(pathSuffix string, method string) bool {
			handler := AuthMiddleware("test-secret", zap.NewNop())(okHandler())

			req := httptest.NewRequest(method, "/api/shop/admin/"+pathSuffix, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AlphaString(),
		gen.OneConstOf("GET", "POST", "PUT", "DELETE"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: catalog-admin, Property 10: Expired tokens are rejected
func TestProperty_ExpiredTokensAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("expired tokens are rejected with 401", prop.ForAll(
		func(subject string, hoursAgo int) bool {
			handler := AuthMiddleware("test-secret", zap.NewNop())(okHandler())
			token := signToken(t, "test-secret", "admin-"+subject, time.Now().Add(-time.Duration(hoursAgo)*time.Hour))

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", token)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AlphaString(),
		gen.IntRange(1, 48),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthMiddlewareAcceptsBareAndBearerTokens(t *testing.T) {
	handler := AuthMiddleware("test-secret", zap.NewNop())(okHandler())
	token := signToken(t, "test-secret", "admin-1", time.Now().Add(time.Hour))

	for _, header := range []string{token, "Bearer " + token} {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("header %q: expected 200, got %d", header[:10], w.Code)
		}
		if got := w.Header().Get("X-Admin"); got != "admin-1" {
			t.Errorf("expected admin-1 in context, got %q", got)
		}
	}
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	handler := AuthMiddleware("test-secret", zap.NewNop())(okHandler())
	token := signToken(t, "other-secret", "admin-1", time.Now().Add(time.Hour))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
