package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/modabox/modabox/backend/catalog-service/internal/search"
)

// setGinTestMode ensures Gin does not write noisy logs during tests
func setGinTestMode() { gin.SetMode(gin.TestMode) }

func signTestToken(t *testing.T, secret, role, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"email":   email,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	setGinTestMode()
	r := gin.New()
	r.Use(AuthMiddleware(), AdminMiddleware())
	r.GET("/api/admin/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing token, got %d", w.Code)
	}
}

func TestAuthMiddleware_RejectsMalformedHeader(t *testing.T) {
	setGinTestMode()
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/secure", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "not-a-bearer-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed header, got %d", w.Code)
	}
}

func TestAdminMiddleware_RequiresAdminRole(t *testing.T) {
	setGinTestMode()
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	r := gin.New()
	r.Use(AuthMiddleware(), AdminMiddleware())
	r.GET("/api/admin/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	// Customer token is authenticated but not authorized
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "test-secret", "Customer", "user@example.com"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	// Admin token passes
	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "test-secret", "Admin", "admin@example.com"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", w.Code)
	}
}

func TestAuthMiddleware_RejectsWrongSecret(t *testing.T) {
	setGinTestMode()
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/secure", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "other-secret", "Admin", "admin@example.com"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for token signed with wrong secret, got %d", w.Code)
	}
}

func TestOptionalAuthMiddleware_NeverRejects(t *testing.T) {
	setGinTestMode()
	r := gin.New()
	r.Use(OptionalAuthMiddleware())
	r.GET("/open", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	for _, header := range []string{"", "garbage", "Bearer not.a.jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("header %q: expected 200, got %d", header, w.Code)
		}
	}
}

func testHandler() *Handler {
	return NewHandler(nil, nil, search.DefaultIndex(), search.NewMemoryRecentStore())
}

func TestGetProduct_InvalidIDFormat(t *testing.T) {
	setGinTestMode()
	r := gin.New()
	r.GET("/products/:id", testHandler().GetProduct)

	req := httptest.NewRequest(http.MethodGet, "/products/not-a-number", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric ID, got %d", w.Code)
	}
}

func TestCreateOrder_RejectsInvalidBody(t *testing.T) {
	setGinTestMode()
	r := gin.New()
	r.POST("/orders", testHandler().CreateOrder)

	cases := []string{
		`{}`,
		`{"customer_email": "not-an-email", "customer_name": "X", "items": [{"quantity": 1}]}`,
		`{"customer_email": "a@b.com", "customer_name": "X", "items": []}`,
		`{"customer_email": "a@b.com", "customer_name": "X", "items": [{"quantity": 0, "product_id": 1}]}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestCreateOrder_RejectsItemWithoutReference(t *testing.T) {
	setGinTestMode()
	r := gin.New()
	r.POST("/orders", testHandler().CreateOrder)

	body := `{"customer_email": "a@b.com", "customer_name": "X", "items": [{"quantity": 1}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for item with no product or variant, got %d", w.Code)
	}
}

func TestUpdateOrderStatus_RejectsUnknownStatus(t *testing.T) {
	setGinTestMode()
	r := gin.New()
	r.PUT("/admin/orders/:id/status", testHandler().UpdateOrderStatus)

	body := `{"status": "teleported"}`
	req := httptest.NewRequest(http.MethodPut, "/admin/orders/ord-1/status", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid status, got %d", w.Code)
	}
}

func TestDashboardRecentOrdersLimit(t *testing.T) {
	if recentOrdersLimit != 4 {
		t.Fatalf("dashboard recent-orders limit = %d, want 4", recentOrdersLimit)
	}
}

func TestGetDashboardStats_RejectsUnknownFilter(t *testing.T) {
	setGinTestMode()
	r := gin.New()
	r.GET("/admin/dashboard", testHandler().GetDashboardStats)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard?filter=someday", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown filter, got %d", w.Code)
	}
}

func TestSearchAdmin_ReturnsScoredResults(t *testing.T) {
	setGinTestMode()
	r := gin.New()
	r.GET("/admin/search", testHandler().SearchAdmin)

	req := httptest.NewRequest(http.MethodGet, "/admin/search?q=dashboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Results []struct {
			ID    string `json:"id"`
			Score int    `json:"score"`
		} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !resp.Success || len(resp.Results) == 0 {
		t.Fatalf("expected results, got %+v", resp)
	}
	if resp.Results[0].ID != "dashboard" || resp.Results[0].Score != 100 {
		t.Errorf("top result = %+v, want exact dashboard match", resp.Results[0])
	}
}

func TestSearchAdmin_EmptyTermReturnsEmptyList(t *testing.T) {
	setGinTestMode()
	r := gin.New()
	r.GET("/admin/search", testHandler().SearchAdmin)

	req := httptest.NewRequest(http.MethodGet, "/admin/search?q=", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected empty results, got %d", len(resp.Results))
	}
}

func TestRecentSearches_RoundTrip(t *testing.T) {
	setGinTestMode()
	h := testHandler()
	r := gin.New()
	r.GET("/admin/search/recent", h.GetRecentSearches)
	r.POST("/admin/search/recent", h.AddRecentSearch)

	// Record a selection
	body := `{"entry_id": "orders"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/search/recent", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", "client-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 recording selection, got %d: %s", w.Code, w.Body.String())
	}

	// Read it back for the same client
	req = httptest.NewRequest(http.MethodGet, "/admin/search/recent", nil)
	req.Header.Set("X-Client-ID", "client-7")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Recent []struct {
			ID string `json:"id"`
		} `json:"recent"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Recent) != 1 || resp.Recent[0].ID != "orders" {
		t.Fatalf("recent = %+v, want [orders]", resp.Recent)
	}

	// A different client sees nothing
	req = httptest.NewRequest(http.MethodGet, "/admin/search/recent", nil)
	req.Header.Set("X-Client-ID", "client-8")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Recent) != 0 {
		t.Errorf("other client should have no recents, got %+v", resp.Recent)
	}
}

func TestAddRecentSearch_UnknownEntry(t *testing.T) {
	setGinTestMode()
	r := gin.New()
	r.POST("/admin/search/recent", testHandler().AddRecentSearch)

	body := `{"entry_id": "no-such-entry"}`
	req := httptest.NewRequest(http.MethodPost, "/admin/search/recent", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown entry, got %d", w.Code)
	}
}
