package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	products "github.com/angelmondragon/onrack-backend/internal/products"
	"github.com/angelmondragon/onrack-backend/internal/rack"
	"github.com/angelmondragon/onrack-backend/pkg/config"
	"github.com/angelmondragon/onrack-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubProductService struct{}

func (stubProductService) Create(context.Context, products.CreateProductInput) (products.CreateProductResult, error) {
	return products.CreateProductResult{}, nil
}

func (stubProductService) Get(context.Context, string) (products.AnnotatedProductDTO, error) {
	return products.AnnotatedProductDTO{}, nil
}

func (stubProductService) Update(context.Context, string, products.UpdateProductInput) (products.ProductDTO, error) {
	return products.ProductDTO{}, nil
}

func (stubProductService) Delete(context.Context, string) error { return nil }

func (stubProductService) ListAnnotated(context.Context) ([]products.AnnotatedProductDTO, error) {
	return nil, nil
}

type stubRackService struct{}

func (stubRackService) AddItem(context.Context, int, rack.AddRackItemInput) error { return nil }

func (stubRackService) EditItem(context.Context, int, string, rack.EditRackItemInput) error {
	return nil
}

func (stubRackService) DeleteItem(context.Context, int, string) (rack.DeleteResult, error) {
	return rack.DeleteResult{}, nil
}

func (stubRackService) ReadRack(context.Context, int) ([]rack.RackEntryDTO, error) { return nil, nil }

func (stubRackService) RecomputeCounter(context.Context, string) (int64, error) { return 0, nil }

func newTestRouter() http.Handler {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{ServiceName: "router-test"})
	return NewRouter(cfg, logg, stubPinger{}, stubPinger{}, stubProductService{}, stubRackService{})
}

func TestRouterWiresExpectedRoutes(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health/live", http.StatusOK},
		{http.MethodGet, "/health/ready", http.StatusOK},
		{http.MethodGet, "/api/v1/products", http.StatusOK},
		{http.MethodGet, "/api/v1/users/170/rack", http.StatusOK},
		{http.MethodDelete, "/api/v1/users/170/rack/abc123", http.StatusOK},
		{http.MethodGet, "/api/v1/missing", http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.status, rec.Code)
		}
	}
}

func TestRouterEditsRackItemsViaPatch(t *testing.T) {
	router := newTestRouter()
	body := `{"purchased_date":"2026-08-01"}`

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/170/rack/abc123", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH: expected %d, got %d", http.StatusOK, rec.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/users/170/rack/abc123", strings.NewReader(body))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("PUT: expected %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestRouterHealthLiveSetsEnvHeader(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-OnRack-Env"); got != "test" {
		t.Fatalf("expected env header, got %q", got)
	}
}
