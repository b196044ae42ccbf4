package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopflow/internal/access"
	"shopflow/internal/config"
	"shopflow/internal/metrics"
	"shopflow/internal/model"
	"shopflow/internal/prefs"
	"shopflow/internal/repository/memrepo"
	"shopflow/internal/service"
	"shopflow/pkg/jwt"
)

const (
	testSecret    = "handler-test-secret"
	adminEmail    = "admin@shopflow.fr"
	adminPassword = "admin123"
)

type testServer struct {
	app    *fiber.App
	store  *memrepo.Store
	tokens *jwt.Manager
	users  service.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := memrepo.New()
	m := metrics.New()
	tokens := jwt.NewManager(testSecret, time.Hour)
	ledger := service.NewLedger(config.StockPolicyReject)
	activity := service.NewActivityService(store, log)
	users := service.NewUserService(store, activity)

	_, err := users.EnsureAdmin(context.Background(), "Administrator", adminEmail, adminPassword)
	require.NoError(t, err)

	app := NewApp(Deps{
		Log:         log,
		Metrics:     m,
		Policy:      access.DefaultPolicy(),
		Cookie:      CookieConfig{Name: "token"},
		Preferences: prefs.Default,

		Auth:       service.NewAuthService(store, tokens, activity, log),
		Users:      users,
		Inventory:  service.NewInventoryService(store, ledger, activity, service.NopPublisher{}, m, log, service.InventoryConfig{}),
		Alerts:     service.NewAlertService(store, m),
		Categories: service.NewCategoryService(store, activity),
		Suppliers:  service.NewSupplierService(store, activity),
		Sales:      service.NewSaleService(store, ledger, activity, service.NopPublisher{}, m),
		Dashboard:  service.NewDashboardService(store),
		Reports:    service.NewReportService(store),
		Activity:   activity,
		Settings:   service.NewSettingsService(store, activity),
	})
	return &testServer{app: app, store: store, tokens: tokens, users: users}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Field   string          `json:"field"`
}

func (e envelope) decode(t *testing.T, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Data, out))
}

type requestOption func(*http.Request)

func withHeader(key, value string) requestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string, opts ...requestOption) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, env := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
	var out struct {
		Token string `json:"token"`
	}
	env.decode(t, &out)
	return out.Token
}

func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	resp, env := s.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Staff", "email": email, "password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)
	var out struct {
		Token string `json:"token"`
	}
	env.decode(t, &out)
	return out.Token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp, env := s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	s := newTestServer(t)
	resp, env := s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": adminEmail, "password": adminPassword}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	var session *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "token" {
			session = ck
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: session.Value})
	me, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, me.StatusCode)

	resp, env = s.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": adminEmail, "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid credentials", env.Error)
}

func TestAuthGate(t *testing.T) {
	s := newTestServer(t)
	valid := s.login(t, adminEmail, adminPassword)
	admin, err := s.users.List(context.Background())
	require.NoError(t, err)
	adminID := admin[0].ID

	forged, _, err := jwt.NewManager("someone-else", time.Hour).Generate(adminID, adminEmail, model.RoleAdmin)
	require.NoError(t, err)
	expired, _, err := jwt.NewManager(testSecret, -time.Minute).Generate(adminID, adminEmail, model.RoleAdmin)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	mid := len(sig) / 2
	if sig[mid] == 'A' {
		sig[mid] = 'B'
	} else {
		sig[mid] = 'A'
	}
	tampered := strings.Join([]string{parts[0], parts[1], string(sig)}, ".")

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "not-a-token", http.StatusUnauthorized},
		{"wrong secret", forged, http.StatusUnauthorized},
		{"expired", expired, http.StatusUnauthorized},
		{"tampered signature", tampered, http.StatusUnauthorized},
		{"valid", valid, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, env := s.do(t, http.MethodGet, "/api/admin/users", nil, tc.token)
			assert.Equal(t, tc.want, resp.StatusCode)
			if tc.want != http.StatusOK {
				assert.False(t, env.Success)
				assert.NotEmpty(t, env.Error)
			}
		})
	}

	t.Run("deactivated account", func(t *testing.T) {
		token := s.register(t, "leaving@shop.bf")
		users, err := s.users.List(context.Background())
		require.NoError(t, err)
		for _, u := range users {
			if u.Email == "leaving@shop.bf" {
				status := model.StatusInactive
				_, err := s.users.Update(context.Background(), service.Actor{}, u.ID, service.UpdateUserInput{Status: &status})
				require.NoError(t, err)
			}
		}
		resp, _ := s.do(t, http.MethodGet, "/api/products", nil, token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestCapabilities(t *testing.T) {
	s := newTestServer(t)
	staff := s.register(t, "staff@shop.bf")

	forbidden := []struct{ method, path string }{
		{http.MethodGet, "/api/admin/users"},
		{http.MethodGet, "/api/admin/roles"},
		{http.MethodGet, "/api/admin/activity"},
		{http.MethodGet, "/api/admin/suppliers"},
		{http.MethodPost, "/api/products"},
		{http.MethodPost, "/api/categories"},
		{http.MethodPost, "/api/settings/general"},
		{http.MethodGet, "/api/reports/inventory.xlsx"},
	}
	for _, tc := range forbidden {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp, env := s.do(t, tc.method, tc.path, map[string]string{}, staff)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.False(t, env.Success)
		})
	}

	allowed := []string{"/api/products", "/api/categories", "/api/notifications/low-stock", "/api/sales", "/api/admin/stats", "/api/settings/theme"}
	for _, path := range allowed {
		t.Run("GET "+path, func(t *testing.T) {
			resp, env := s.do(t, http.MethodGet, path, nil, staff)
			assert.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
		})
	}
}

func TestStockScenario(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, adminEmail, adminPassword)

	resp, env := s.do(t, http.MethodPost, "/api/categories", map[string]string{"name": "Electronics", "color": "#3b82f6"}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)
	var category model.Category
	env.decode(t, &category)

	resp, env = s.do(t, http.MethodPost, "/api/products", map[string]interface{}{
		"name":                "Widget",
		"sku":                 "WID-1",
		"quantity":            5,
		"low_stock_threshold": 10,
		"price":               19.99,
		"category_id":         category.ID,
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)
	var product model.ProductResponse
	env.decode(t, &product)
	assert.Equal(t, "Electronics", *product.CategoryName)
	assert.True(t, product.IsLowStock)

	resp, env = s.do(t, http.MethodGet, "/api/notifications/low-stock", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var alerts service.LowStockReport
	env.decode(t, &alerts)
	require.Len(t, alerts.Alerts, 1)
	assert.Equal(t, 1, alerts.Total)
	assert.Equal(t, "WID-1", alerts.Alerts[0].SKU)
	assert.Equal(t, 5, alerts.Alerts[0].Quantity)
	assert.Equal(t, "You have 1 product(s) with low stock", alerts.Message)
	assert.Empty(t, env.Message)

	adjustPath := fmt.Sprintf("/api/products/%d/adjust", product.ID)
	resp, env = s.do(t, http.MethodPost, adjustPath, map[string]int{"adjustment": -3}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Error)
	assert.Equal(t, "Stock decreased by 3", env.Message)
	var adjusted model.ProductResponse
	env.decode(t, &adjusted)
	assert.Equal(t, product.ID, adjusted.ID)
	assert.Equal(t, 2, adjusted.Quantity)
	assert.Equal(t, "WID-1", adjusted.SKU)

	resp, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d/history", product.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []model.MovementSummary
	env.decode(t, &history)
	require.Len(t, history, 2)
	assert.Equal(t, -3, history[0].Quantity)
	assert.Equal(t, model.ReasonInitialStock, history[1].Type)

	resp, env = s.do(t, http.MethodPost, adjustPath, map[string]int{"adjustment": -10}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Insufficient stock", env.Error)

	resp, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env.decode(t, &product)
	assert.Equal(t, 2, product.Quantity)

	t.Run("duplicate sku", func(t *testing.T) {
		resp, env := s.do(t, http.MethodPost, "/api/products", map[string]interface{}{"name": "Other", "sku": "wid-1"}, token)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "sku", env.Field)
	})

	t.Run("category in use", func(t *testing.T) {
		resp, _ := s.do(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", category.ID), nil, token)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("barcode lookup", func(t *testing.T) {
		resp, env := s.do(t, http.MethodGet, "/api/barcode?sku=wid-1", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var found model.ProductResponse
		env.decode(t, &found)
		assert.Equal(t, product.ID, found.ID)
	})

	t.Run("display currency follows the request", func(t *testing.T) {
		resp, env := s.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), nil, token, withHeader("X-Currency", "EUR"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var eur model.ProductResponse
		env.decode(t, &eur)
		assert.Contains(t, eur.PriceDisplay, "€")

		_, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", product.ID), nil, token)
		var xof model.ProductResponse
		env.decode(t, &xof)
		assert.Contains(t, xof.PriceDisplay, "CFA")
	})

	t.Run("sale", func(t *testing.T) {
		resp, env := s.do(t, http.MethodPost, "/api/sales", map[string]interface{}{
			"items":          []map[string]interface{}{{"sku": "WID-1", "name": "Widget", "quantity": 1, "unit_price": 19.99}},
			"payment_method": "cash",
		}, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode, env.Error)
		var sale model.SaleResponse
		env.decode(t, &sale)
		assert.Equal(t, 1, sale.ItemCount)

		resp, env = s.do(t, http.MethodPost, "/api/sales", map[string]interface{}{
			"items":          []map[string]interface{}{{"sku": "WID-1", "quantity": 5}},
			"payment_method": "cash",
		}, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "items[0].quantity", env.Field)
	})
}

func TestReportDownload(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, adminEmail, adminPassword)

	resp, _ := s.do(t, http.MethodGet, "/api/reports/inventory.xlsx", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxContentType, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "inventory-")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/health", nil, "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `shopflow_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	resp, env := s.do(t, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
}
