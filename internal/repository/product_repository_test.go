package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"catalog-admin/internal/apiclient"
	"catalog-admin/internal/config"
	"catalog-admin/internal/domain"

	"go.uber.org/zap"
)

type request struct {
	method string
	path   string
	auth   string
	body   []byte
}

type recorder struct {
	mu       sync.Mutex
	requests []request
	status   int
	reply    string
}

func (rec *recorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	rec.mu.Lock()
	rec.requests = append(rec.requests, request{r.Method, r.URL.Path, r.Header.Get("Authorization"), body})
	status, reply := rec.status, rec.reply
	rec.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	if reply == "" {
		reply = `{"success":true}`
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, reply)
}

func (rec *recorder) last() request {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.requests[len(rec.requests)-1]
}

func newTestRepository(t *testing.T, rec *recorder) ProductRepository {
	t.Helper()
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)
	return NewProductRepository(apiclient.New(config.APIConfig{Base: srv.URL, Path: "shop"}, zap.NewNop()))
}

var sess = domain.Session{Token: "tok"}

func price(f float64) *float64 { return &f }

func TestList(t *testing.T) {
	rec := &recorder{reply: `{"success":true,"products":[{"id":"7","title":"Lamp","price":30,"is_enabled":true,"imagesUrl":["a.png"]}]}`}
	repo := newTestRepository(t, rec)

	products, err := repo.List(context.Background(), sess)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(products) != 1 || products[0].ID != "7" || products[0].Price != 30 || !bool(products[0].IsEnabled) {
		t.Errorf("unexpected products %+v", products)
	}

	got := rec.last()
	if got.method != http.MethodGet || got.path != "/api/shop/admin/products" || got.auth != "tok" {
		t.Errorf("unexpected request %+v", got)
	}
}

func TestListWithoutProductsIsEmpty(t *testing.T) {
	repo := newTestRepository(t, &recorder{})

	products, err := repo.List(context.Background(), sess)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if products == nil || len(products) != 0 {
		t.Errorf("expected an empty, non-nil list, got %#v", products)
	}
}

func TestCreateSendsEnvelope(t *testing.T) {
	rec := &recorder{}
	repo := newTestRepository(t, rec)

	payload := domain.ProductPayload{Title: "Widget", Price: price(10), OriginPrice: nil, IsEnabled: 1, ImagesURL: []string{}}
	if err := repo.Create(context.Background(), sess, payload); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got := rec.last()
	if got.method != http.MethodPost || got.path != "/api/shop/admin/product" {
		t.Errorf("unexpected request %s %s", got.method, got.path)
	}

	var body map[string]map[string]interface{}
	if err := json.Unmarshal(got.body, &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	data := body["data"]
	if data["title"] != "Widget" || data["price"] != float64(10) || data["is_enabled"] != float64(1) {
		t.Errorf("unexpected data %v", data)
	}
	if v, ok := data["origin_price"]; !ok || v != nil {
		t.Errorf("origin_price should be sent as null, got %v (present=%v)", v, ok)
	}
	if images, ok := data["imagesUrl"].([]interface{}); !ok || len(images) != 0 {
		t.Errorf("imagesUrl should be an empty array, got %v", data["imagesUrl"])
	}
}

func TestUpdateAndDeleteAddressID(t *testing.T) {
	rec := &recorder{}
	repo := newTestRepository(t, rec)
	ctx := context.Background()

	if err := repo.Update(ctx, sess, "7", domain.ProductPayload{Title: "Lamp"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := rec.last(); got.method != http.MethodPut || got.path != "/api/shop/admin/product/7" {
		t.Errorf("unexpected update request %s %s", got.method, got.path)
	}

	if err := repo.Delete(ctx, sess, "7"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := rec.last(); got.method != http.MethodDelete || got.path != "/api/shop/admin/product/7" || len(got.body) != 0 {
		t.Errorf("unexpected delete request %+v", got)
	}
}

func TestMissingID(t *testing.T) {
	rec := &recorder{}
	repo := newTestRepository(t, rec)
	ctx := context.Background()

	if err := repo.Update(ctx, sess, "", domain.ProductPayload{}); !errors.Is(err, ErrMissingID) {
		t.Errorf("Update: expected ErrMissingID, got %v", err)
	}
	if err := repo.Delete(ctx, sess, ""); !errors.Is(err, ErrMissingID) {
		t.Errorf("Delete: expected ErrMissingID, got %v", err)
	}
	if len(rec.requests) != 0 {
		t.Errorf("no request expected, got %d", len(rec.requests))
	}
}

func TestFailuresPropagate(t *testing.T) {
	rec := &recorder{status: http.StatusUnauthorized, reply: `{"success":false,"message":"驗證錯誤"}`}
	repo := newTestRepository(t, rec)

	if _, err := repo.List(context.Background(), sess); !errors.Is(err, domain.ErrAuth) {
		t.Errorf("expected ErrAuth, got %v", err)
	}

	rec.status, rec.reply = http.StatusBadRequest, `{"success":false,"message":"title 欄位為必填"}`
	err := repo.Create(context.Background(), sess, domain.ProductPayload{})
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected an APIError, got %v", err)
	}
}
