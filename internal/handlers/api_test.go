package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/config"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/middleware"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/repository/memory"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/services"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/session"
)

type stubVerifier struct{}

func (stubVerifier) Verify(ctx context.Context, rawToken string) (*services.GoogleIdentity, error) {
	return nil, errors.New("not configured in tests")
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	sessions := session.NewManager(session.NewMemoryStore(), &config.JWTConfig{
		Secret:          "test-secret",
		ExpirationHours: 1,
	})

	authService := services.NewAuthService(store.Users(), sessions, stubVerifier{})
	planService := services.NewPlanService(store.Users())
	paymentService := services.NewPaymentService(store.Payments(), nil, config.MercadoPagoConfig{
		CheckoutBase: "https://mpago.test/base",
		CheckoutPlus: "https://mpago.test/plus",
		CheckoutPro:  "https://mpago.test/pro",
	})
	ticketService := services.NewTicketService(store.Tickets())

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(planService, authService, paymentService, ticketService)
	paymentHandler := NewPaymentHandler(paymentService, planService)
	ticketHandler := NewTicketHandler(ticketService)

	router := gin.New()

	public := router.Group("/api")
	public.POST("/auth/register", authHandler.Register)
	public.POST("/auth/login", authHandler.Login)
	public.GET("/payments/plans", paymentHandler.GetPlans)

	protected := router.Group("/api")
	protected.Use(middleware.Auth(authService))
	protected.GET("/auth/verify", authHandler.Verify)
	protected.GET("/users/profile", userHandler.GetProfile)
	protected.PUT("/users/plan", userHandler.ChangePlan)
	protected.GET("/users/activity", userHandler.GetActivity)
	protected.POST("/payments/mercadopago", paymentHandler.CreateMercadoPago)
	protected.GET("/payments/next", paymentHandler.GetNextPayment)
	protected.POST("/tickets/create", ticketHandler.Create)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func register(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":     "ana@example.com",
		"password":  "secret123",
		"firstName": "Ana",
		"lastName":  "García",
		"dni":       "12345678",
		"gender":    "femenino",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", w.Code, w.Body.String())
	}
	token, _ := decode(t, w)["token"].(string)
	if token == "" {
		t.Fatal("register returned no token")
	}
	return token
}

func TestRegisterLoginVerifyFlow(t *testing.T) {
	router := testRouter()
	register(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "ana@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}
	token, _ := decode(t, w)["token"].(string)

	w = doJSON(t, router, http.MethodGet, "/api/auth/verify", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("verify status = %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterValidation(t *testing.T) {
	router := testRouter()

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    "not-an-email",
		"password": "123",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDuplicateEmailConflict(t *testing.T) {
	router := testRouter()
	register(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":     "ana@example.com",
		"password":  "secret123",
		"firstName": "Ana",
		"lastName":  "García",
		"dni":       "99999999",
		"gender":    "femenino",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409: %s", w.Code, w.Body.String())
	}
}

func TestWrongPasswordUnauthorized(t *testing.T) {
	router := testRouter()
	register(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "ana@example.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter()

	for _, path := range []string{"/api/users/profile", "/api/payments/next", "/api/users/activity"} {
		w := doJSON(t, router, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s without token: status = %d, want 401", path, w.Code)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/users/profile", "garbage-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", w.Code)
	}
}

func TestPlansEndpointIsPublic(t *testing.T) {
	router := testRouter()

	w := doJSON(t, router, http.MethodGet, "/api/payments/plans", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	plansList, ok := body["plans"].([]any)
	if !ok || len(plansList) != 3 {
		t.Errorf("plans = %v, want 3 entries", body["plans"])
	}
}

func TestChangePlanFlow(t *testing.T) {
	router := testRouter()
	token := register(t, router)

	w := doJSON(t, router, http.MethodPut, "/api/users/plan", token, map[string]any{"plan": "pro"})
	if w.Code != http.StatusOK {
		t.Fatalf("change plan status = %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["already_active"] == true {
		t.Error("switch to pro reported already active")
	}
	if body["pending"] == nil {
		t.Error("no pending change returned")
	}

	// Billing now targets the pending tier.
	w = doJSON(t, router, http.MethodGet, "/api/payments/next", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("next payment status = %d: %s", w.Code, w.Body.String())
	}
	next := decode(t, w)
	if next["plan"] != "pro" {
		t.Errorf("next payment plan = %v, want pro", next["plan"])
	}
	if next["amount"] != float64(20000) {
		t.Errorf("next payment amount = %v, want 20000", next["amount"])
	}
}

func TestMercadoPagoCheckout(t *testing.T) {
	router := testRouter()
	token := register(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/payments/mercadopago", token, map[string]any{"plan": "plus"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["checkout_url"] != "https://mpago.test/plus" {
		t.Errorf("checkout_url = %v", body["checkout_url"])
	}
}

func TestParseAmount(t *testing.T) {
	if got, err := parseAmount("15000.50"); err != nil || got != 15000.50 {
		t.Errorf("parseAmount(15000.50) = %v, %v", got, err)
	}

	for _, raw := range []string{"NaN", "Inf", "-Inf", "+Inf", "inf", "nan", "abc"} {
		if _, err := parseAmount(raw); err == nil {
			t.Errorf("parseAmount(%q) accepted a non-finite amount", raw)
		}
	}
}

func TestTicketCreateAndActivity(t *testing.T) {
	router := testRouter()
	token := register(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/tickets/create", token, map[string]any{
		"type":    "problem_report",
		"subject": "No puedo subir mi comprobante",
		"message": "La carga falla con mi navegador",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("ticket status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/users/activity", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("activity status = %d: %s", w.Code, w.Body.String())
	}
	activity := decode(t, w)
	if activity["tickets"] != float64(1) {
		t.Errorf("activity tickets = %v, want 1", activity["tickets"])
	}
}
