package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"barber-booking-server/internal/config"
	"barber-booking-server/internal/repository"
	"barber-booking-server/internal/schedule"
	"barber-booking-server/internal/timegrid"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newRouterWith(t, &config.Config{
		JWTSecret:            "test-secret",
		JWTExpirationMinutes: 15,
		BookingRatePerMinute: 100,
		LoginRatePerMinute:   100,
	})
}

func newRouterWith(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	if _, err := repository.SeedAdmin(context.Background(), store, "Owner@Example.com", "correct-horse"); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	engine := schedule.NewEngine(store, schedule.Options{
		Defaults: schedule.StaticWindows{
			Weekday: schedule.Window{Start: timegrid.MustParse("5:00 PM"), End: timegrid.MustParse("10:00 PM")},
			Weekend: schedule.Window{Start: timegrid.MustParse("7:00 AM"), End: timegrid.MustParse("3:00 PM")},
		},
		Now: func() time.Time { return time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC) },
	}, nil)

	r := gin.New()
	SetupRoutes(r, store, engine, cfg, zap.NewNop())
	return r
}

func request(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, email, password string) (int, string) {
	t.Helper()
	w := request(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	var resp struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return w.Code, resp.Data.AccessToken
}

func TestHealth(t *testing.T) {
	r := newRouter(t)
	if w := request(t, r, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := newRouter(t)
	for _, path := range []string{
		"/api/v1/admin/appointments",
		"/api/v1/admin/blocked-times",
		"/api/v1/admin/availability",
	} {
		if w := request(t, r, http.MethodGet, path, "", nil); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s without token: status %d", path, w.Code)
		}
	}
}

func TestLoginAndAdminAccess(t *testing.T) {
	r := newRouter(t)

	if code, _ := login(t, r, "owner@example.com", "wrong-password"); code != http.StatusUnauthorized {
		t.Fatalf("bad password: status %d", code)
	}
	if code, _ := login(t, r, "nobody@example.com", "correct-horse"); code != http.StatusUnauthorized {
		t.Fatalf("unknown admin: status %d", code)
	}

	code, token := login(t, r, "owner@example.com", "correct-horse")
	if code != http.StatusOK || token == "" {
		t.Fatalf("login: status %d token %q", code, token)
	}

	if w := request(t, r, http.MethodGet, "/api/v1/admin/appointments", token, nil); w.Code != http.StatusOK {
		t.Fatalf("admin list: status %d", w.Code)
	}
	w := request(t, r, http.MethodGet, "/api/v1/auth/profile", token, nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"lastLoginAt"`)) {
		t.Fatalf("profile: status %d body %s", w.Code, w.Body.String())
	}
}

func TestPublicBookingFlow(t *testing.T) {
	r := newRouter(t)
	booking := map[string]any{
		"clientName":  "Jordan",
		"clientPhone": "555-0199",
		"date":        "2025-07-12",
		"startTime":   "10:00 AM",
		"serviceName": "Skin fade",
		"price":       40,
	}

	if w := request(t, r, http.MethodPost, "/api/v1/appointments", "", booking); w.Code != http.StatusCreated {
		t.Fatalf("book: status %d body %s", w.Code, w.Body.String())
	}
	if w := request(t, r, http.MethodPost, "/api/v1/appointments", "", booking); w.Code != http.StatusConflict {
		t.Fatalf("rebook: status %d", w.Code)
	}

	w := request(t, r, http.MethodGet, "/api/v1/availability?date=2025-07-12", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("availability: status %d", w.Code)
	}
	var resp struct {
		Data struct {
			Slots []string `json:"slots"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode availability: %v", err)
	}
	if len(resp.Data.Slots) != 16 || slices.Contains(resp.Data.Slots, "10:00 AM") {
		t.Fatalf("slots = %v", resp.Data.Slots)
	}
}

func TestLoginHasItsOwnRateLimit(t *testing.T) {
	r := newRouterWith(t, &config.Config{
		JWTSecret:            "test-secret",
		JWTExpirationMinutes: 15,
		BookingRatePerMinute: 100,
		LoginRatePerMinute:   2,
	})

	for i := 0; i < 2; i++ {
		if code, _ := login(t, r, "owner@example.com", "wrong-password"); code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status %d", i+1, code)
		}
	}
	if w := request(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "owner@example.com", "password": "correct-horse"}); w.Code != http.StatusTooManyRequests {
		t.Fatalf("third login: status %d", w.Code)
	}

	// Bookings draw from a separate budget.
	booking := map[string]any{
		"clientName":  "Jordan",
		"clientPhone": "555-0199",
		"date":        "2025-07-12",
		"startTime":   "9:00 AM",
		"serviceName": "Skin fade",
		"price":       40,
	}
	if w := request(t, r, http.MethodPost, "/api/v1/appointments", "", booking); w.Code != http.StatusCreated {
		t.Fatalf("book after login limit: status %d body %s", w.Code, w.Body.String())
	}
}
