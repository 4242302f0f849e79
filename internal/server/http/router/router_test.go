package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fournil/internal/config"
	"github.com/polkiloo/fournil/internal/domain/model"
	"github.com/polkiloo/fournil/internal/server/http/handlers"
	testhelpers "github.com/polkiloo/fournil/internal/test"
)

func newEngine(t *testing.T, facade testhelpers.FacadeStub) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return Setup(facade, &config.Config{CORSAllowOrigins: []string{"https://coop.example.org"}}, logger)
}

func serve(engine *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func TestSetupRoutes(t *testing.T) {
	facade := testhelpers.FacadeStub{
		OrderFacadeStub: testhelpers.OrderFacadeStub{
			OrdersFn: func(context.Context, int64) ([]model.Order, error) {
				return []model.Order{{ID: 1}}, nil
			},
		},
	}
	engine := newEngine(t, facade)

	routes := []struct {
		method string
		path   string
		body   any
		status int
	}{
		{http.MethodGet, "/api/health", nil, http.StatusOK},
		{http.MethodPost, "/api/clients/register", map[string]any{"login": "ada", "password": "pw", "repository_id": 1}, http.StatusOK},
		{http.MethodPost, "/api/clients/login", map[string]string{"login": "ada", "password": "pw"}, http.StatusOK},
		{http.MethodGet, "/api/catalog/products", nil, http.StatusOK},
		{http.MethodGet, "/api/catalog/repositories", nil, http.StatusOK},
		{http.MethodGet, "/api/batches/eligible", nil, http.StatusOK},
		{http.MethodGet, "/api/orders", nil, http.StatusOK},
		{http.MethodPost, "/api/orders", map[string]any{"batch_id": 1, "lines": []map[string]int{{"product_id": 1, "quantity": 1}}}, http.StatusCreated},
		{http.MethodGet, "/api/orders/1", nil, http.StatusOK},
		{http.MethodPut, "/api/orders/1", map[string]any{"batch_id": 1}, http.StatusOK},
		{http.MethodDelete, "/api/orders/1", nil, http.StatusNoContent},
		{http.MethodGet, "/api/wallet", nil, http.StatusOK},
		{http.MethodGet, "/api/admin/batches", nil, http.StatusOK},
		{http.MethodPost, "/api/admin/batches", map[string]any{"date": "2026-03-11", "capacity": 10}, http.StatusCreated},
		{http.MethodPut, "/api/admin/batches/1", map[string]any{"date": "2026-03-11", "capacity": 10}, http.StatusOK},
		{http.MethodDelete, "/api/admin/batches/1", nil, http.StatusNoContent},
		{http.MethodGet, "/api/admin/products", nil, http.StatusOK},
		{http.MethodPost, "/api/admin/products", map[string]any{"name": "Bread", "price": "4", "load": "1"}, http.StatusCreated},
		{http.MethodGet, "/api/admin/repositories", nil, http.StatusOK},
		{http.MethodPost, "/api/admin/repositories", map[string]any{"name": "Halles", "days": []string{"wed"}}, http.StatusCreated},
		{http.MethodPut, "/api/admin/products/1", map[string]any{"name": "Bread", "price": "4.5", "load": "1"}, http.StatusOK},
		{http.MethodPut, "/api/admin/repositories/1", map[string]any{"name": "Halles", "opened": false}, http.StatusOK},
		{http.MethodGet, "/api/admin/clients", nil, http.StatusOK},
		{http.MethodPut, "/api/admin/clients/2/disabled", map[string]bool{"disabled": true}, http.StatusOK},
		{http.MethodPost, "/api/admin/mailings", map[string]string{"subject": "News", "message": "Hello"}, http.StatusAccepted},
		{http.MethodPost, "/api/orders", map[string]any{"batch_id": 1, "lines": []map[string]any{{"product_id": 1, "quantity": "2"}}}, http.StatusCreated},
		{http.MethodPost, "/api/admin/invoices", map[string]string{"as_of": "2026-03-31"}, http.StatusOK},
		{http.MethodGet, "/api/admin/invoices/watermark", nil, http.StatusOK},
		{http.MethodPost, "/api/admin/clients/2/payments", map[string]string{"amount": "10", "mode": "payed_in_cash"}, http.StatusCreated},
		{http.MethodGet, "/api/admin/plan", nil, http.StatusOK},
		{http.MethodGet, "/api/admin/plan/1", nil, http.StatusOK},
		{http.MethodGet, "/api/admin/plan/1/export.csv", nil, http.StatusOK},
	}

	for _, r := range routes {
		resp := serve(engine, r.method, r.path, r.body, "token")
		if resp.Code != r.status {
			t.Fatalf("%s %s: expected %d, got %d (%s)", r.method, r.path, r.status, resp.Code, resp.Body.String())
		}
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	engine := newEngine(t, testhelpers.FacadeStub{})
	for _, path := range []string{"/api/orders", "/api/wallet", "/api/admin/batches"} {
		if resp := serve(engine, http.MethodGet, path, nil, ""); resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, resp.Code)
		}
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	facade := testhelpers.FacadeStub{
		AuthFacadeStub: testhelpers.AuthFacadeStub{
			IsAdminFn: func(context.Context, int64) (bool, error) { return false, nil },
		},
	}
	engine := newEngine(t, facade)

	if resp := serve(engine, http.MethodGet, "/api/admin/plan", nil, "token"); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non admin, got %d", resp.Code)
	}
	if resp := serve(engine, http.MethodGet, "/api/wallet", nil, "token"); resp.Code != http.StatusOK {
		t.Fatalf("expected client route to stay reachable, got %d", resp.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	engine := newEngine(t, testhelpers.FacadeStub{})
	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "https://coop.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://coop.example.org" {
		t.Fatalf("unexpected allowed origin %q", got)
	}
}

var _ handlers.Facade = testhelpers.FacadeStub{}
