package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gadget-rental/internal/models"
	"gadget-rental/internal/service"
	"gadget-rental/internal/service/servicetest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testServer struct {
	router *gin.Engine
	store  *servicetest.Store
}

func newTestServer(t *testing.T, checks map[string]Pinger) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, cache, events := servicetest.NewStore(), servicetest.NewCache(), &servicetest.Publisher{}
	settings := service.DefaultSettings()
	cart := service.NewCartService(st, cache, settings)
	svc := Services{
		Accounts:      service.NewAccountService(st, cache, events, settings),
		Catalog:       service.NewCatalogService(st, settings),
		Cart:          cart,
		Checkout:      service.NewCheckoutService(st, cache, events, settings),
		Payments:      service.NewPaymentService(st, events),
		Orders:        service.NewOrderService(st, events),
		Reviews:       service.NewReviewService(st),
		Wishlist:      service.NewWishlistService(st, cart),
		Notifications: service.NewNotificationService(st),
		Feedback:      service.NewFeedbackService(st),
		Admin:         service.NewAdminService(st, settings),
	}

	router := gin.New()
	NewHandler(svc, checks).SetupRoutes(router)
	return &testServer{router: router, store: st}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *testServer) customerToken(t *testing.T, name string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": name, "email": name + "@example.com", "password": "secret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return s.login(t, "/api/v1/auth/login", name+"@example.com", "secret")
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	hash, err := service.HashPassword("admin123")
	require.NoError(t, err)
	require.NoError(t, s.store.CreateUser(context.Background(), &models.User{
		Name: "Admin User", Email: "admin@gmail.com", PasswordHash: hash, IsAdmin: true, IsActive: true,
	}))
	return s.login(t, "/api/v1/auth/admin/login", "admin@gmail.com", "admin123")
}

func (s *testServer) login(t *testing.T, path, email, password string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, path, "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var session service.Session
	decode(t, w, &session)
	require.NotEmpty(t, session.Token)
	return session.Token
}

func day(offset int) string {
	return time.Now().AddDate(0, 0, offset).Format("2006-01-02")
}

func TestHealthAndReadiness(t *testing.T) {
	s := newTestServer(t, map[string]Pinger{"postgres": stubPinger{}})
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/ready", "", nil).Code)

	down := newTestServer(t, map[string]Pinger{"redis": stubPinger{err: errors.New("connection refused")}})
	w := down.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestAuthGuards(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/cart", "not-a-session", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.customerToken(t, "arun")
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/profile", token, nil).Code)

	w = s.do(t, http.MethodGet, "/api/v1/admin/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/admin/login", "", gin.H{"email": "arun@example.com", "password": "secret"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/profile", token, nil).Code)
}

func TestErrorResponses(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/v1/gadgets/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/gadgets/42", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "Not found", body["error"])
	assert.NotEmpty(t, body["details"])

	w = s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.customerToken(t, "arun")
	w = s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "arun", "email": "arun@example.com", "password": "secret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRentalFlow(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.adminToken(t)
	customer := s.customerToken(t, "arun")

	w := s.do(t, http.MethodPost, "/api/v1/admin/gadgets", admin, gin.H{
		"name": "Sony A7 IV", "category": "Cameras", "price_per_day": 150000, "stock": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var gadget models.Gadget
	decode(t, w, &gadget)

	w = s.do(t, http.MethodPost, "/api/v1/cart/items", customer, gin.H{
		"gadget_id": gadget.ID, "start_date": day(2), "end_date": day(3),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/cart/quote", customer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view service.CartView
	decode(t, w, &view)
	assert.Equal(t, int64(450000), view.Quote.Payable)

	checkout := gin.H{"address": "12 MG Road"}
	w = s.do(t, http.MethodPost, "/api/v1/checkout", customer, checkout, "Idempotency-Key", "abc-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed service.CheckoutResult
	decode(t, w, &placed)
	require.Len(t, placed.Orders, 1)
	orderID := placed.Orders[0].ID

	w = s.do(t, http.MethodPost, "/api/v1/checkout", customer, checkout, "Idempotency-Key", "abc-1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var replayed service.CheckoutResult
	decode(t, w, &replayed)
	assert.True(t, replayed.Replayed)
	assert.Equal(t, orderID, replayed.Orders[0].ID)

	w = s.do(t, http.MethodPost, "/api/v1/payments", customer, gin.H{
		"order_id": orderID, "payment_method": "card", "card_number": "4000000000000000",
	})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/payments", customer, gin.H{
		"order_id": orderID, "payment_method": "card", "card_number": "4242424242424242",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	approve := fmt.Sprintf("/api/v1/admin/orders/%d/approve", orderID)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, approve, admin, nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodPost, approve, admin, nil).Code)

	refund := fmt.Sprintf("/api/v1/admin/orders/%d/refund-deposit", orderID)
	assert.Equal(t, http.StatusUnprocessableEntity, s.do(t, http.MethodPost, refund, admin, nil).Code)

	for _, action := range []string{"activate", "return"} {
		path := fmt.Sprintf("/api/v1/admin/orders/%d/%s", orderID, action)
		require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, path, admin, nil).Code, action)
	}
	assert.Equal(t, 2, s.store.Gadget(gadget.ID).Stock)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, refund, admin, nil).Code)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/review", orderID), customer, gin.H{"rating": 5})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/notifications", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Your security deposit for order")
}

func TestReportFormats(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.adminToken(t)

	w := s.do(t, http.MethodGet, "/api/v1/admin/reports/daily-revenue", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	w = s.do(t, http.MethodGet, "/api/v1/admin/reports/most-rented?format=csv", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=most_rented_gadgets_report.csv", w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "Gadget,Category,Total Rentals")

	w = s.do(t, http.MethodGet, "/api/v1/admin/reports/user-activity?format=pdf", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = s.do(t, http.MethodGet, "/api/v1/admin/reports/user-activity?format=xml", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
