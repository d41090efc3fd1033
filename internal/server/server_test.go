package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-admin/internal/config"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.LoadFrom(viper.New(), nil)
	srv, err := NewServer(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != `{"status":"ok"}` {
		t.Errorf("unexpected body %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/shop/admin/products", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Errorf("expected CORS headers, got %v", w.Header())
	}
}

func TestAddrFromConfig(t *testing.T) {
	srv := newTestServer(t)
	if srv.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", srv.Addr)
	}
}
