package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-cart/internal/attributes"
	"github.com/angelmondragon/storefront-cart/internal/cart"
	productsvc "github.com/angelmondragon/storefront-cart/internal/products"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/pagination"
)

type stubProductService struct {
	view           *productsvc.ProductView
	list           []productsvc.ProductDTO
	err            error
	lastSelections map[int]int
	lastUpsert     productsvc.UpsertInput
	lastAfter      string
	lastLimit      int
}

func (s *stubProductService) Get(context.Context, string) (*productsvc.ProductView, error) {
	return s.view, s.err
}

func (s *stubProductService) List(_ context.Context, after string, limit int) ([]productsvc.ProductDTO, error) {
	s.lastAfter, s.lastLimit = after, limit
	return s.list, s.err
}

func (s *stubProductService) Upsert(_ context.Context, id string, input productsvc.UpsertInput) (*productsvc.ProductDTO, error) {
	s.lastUpsert = input
	if s.err != nil {
		return nil, s.err
	}
	return &productsvc.ProductDTO{ID: id, Name: input.Name, Price: input.Price}, nil
}

func (s *stubProductService) Resolve(_ context.Context, _ string, selections map[int]int) (*productsvc.Resolution, error) {
	s.lastSelections = selections
	if s.err != nil {
		return nil, s.err
	}
	return &productsvc.Resolution{
		SelectedOptions: attributes.Selection{1: {ID: 11, Name: "Platinum", Price: decimal.NewFromInt(220)}},
		Price:           decimal.NewFromInt(220),
		Images:          []string{"pt-1.jpg"},
	}, nil
}

func (s *stubProductService) BuildLineItem(context.Context, productsvc.AddToCartInput) (cart.NewItem, error) {
	return cart.NewItem{}, errors.New("not used")
}

func productRouter(svc productsvc.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/products", ProductList(svc, nil))
	r.Get("/products/{productId}", ProductGet(svc, nil))
	r.Post("/products/{productId}/resolve", ProductResolve(svc, nil))
	r.Put("/products/{productId}", ProductUpsert(svc, nil))
	return r
}

func TestProductGet(t *testing.T) {
	svc := &stubProductService{view: &productsvc.ProductView{
		Product:    productsvc.ProductDTO{ID: "ring-1", Name: "Halo Ring"},
		Resolution: productsvc.Resolution{Price: decimal.NewFromInt(150)},
	}}

	resp := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/products/ring-1", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data productsvc.ProductView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Product.ID != "ring-1" || !envelope.Data.Resolution.Price.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestProductGetNotFound(t *testing.T) {
	svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}

	resp := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/products/nope", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestProductResolve(t *testing.T) {
	svc := &stubProductService{}

	req := httptest.NewRequest(http.MethodPost, "/products/ring-1/resolve", strings.NewReader(`{"selections":{"1":11,"2":21}}`))
	resp := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastSelections[1] != 11 || svc.lastSelections[2] != 21 {
		t.Fatalf("unexpected selections %v", svc.lastSelections)
	}
	if !strings.Contains(resp.Body.String(), `"price":"220"`) {
		t.Fatalf("expected decimal price string, got %s", resp.Body.String())
	}
}

func TestProductUpsertValidatesPrices(t *testing.T) {
	svc := &stubProductService{}

	req := httptest.NewRequest(http.MethodPut, "/products/ring-1", strings.NewReader(`{"name":"Ring","price":"-5","originalPrice":"10"}`))
	resp := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/products/ring-1", strings.NewReader(`{"name":"Ring","price":"99.90","originalPrice":"120","attributes":[]}`))
	resp = httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !svc.lastUpsert.Price.Equal(decimal.RequireFromString("99.90")) || string(svc.lastUpsert.Attributes) != "[]" {
		t.Fatalf("unexpected upsert input %+v", svc.lastUpsert)
	}
}

func TestProductListCursor(t *testing.T) {
	svc := &stubProductService{list: []productsvc.ProductDTO{{ID: "a"}, {ID: "b"}}}

	resp := httptest.NewRecorder()
	url := "/products?limit=2&cursor=" + pagination.EncodeCursor("0")
	productRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, url, nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastAfter != "0" || svc.lastLimit != 2 {
		t.Fatalf("unexpected paging args after=%q limit=%d", svc.lastAfter, svc.lastLimit)
	}
	want := fmt.Sprintf(`"nextCursor":%q`, pagination.EncodeCursor("b"))
	if !strings.Contains(resp.Body.String(), want) {
		t.Fatalf("expected next cursor, got %s", resp.Body.String())
	}
}

func TestProductListRejectsBadCursor(t *testing.T) {
	svc := &stubProductService{}

	resp := httptest.NewRecorder()
	productRouter(svc).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/products?cursor=%25%25", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	resp := httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": stubPinger{}})(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"redis": stubPinger{err: errors.New("refused")}})(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "refused") {
		t.Fatalf("expected failing dependency in details, got %s", resp.Body.String())
	}
}
