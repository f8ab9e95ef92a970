package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/models"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/plans"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/services"
)

type PaymentHandler struct {
	payments *services.PaymentService
	plans    *services.PlanService
}

func NewPaymentHandler(payments *services.PaymentService, plans *services.PlanService) *PaymentHandler {
	return &PaymentHandler{payments: payments, plans: plans}
}

// GetPlans handles GET /api/payments/plans. Public; the catalog is
// static.
func (h *PaymentHandler) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": plans.All()})
}

// CreateMercadoPago handles POST /api/payments/mercadopago. Returns
// the checkout link the client redirects to.
func (h *PaymentHandler) CreateMercadoPago(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	var req models.MercadoPagoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, payment, err := h.payments.CreateMercadoPago(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"checkout_url": url, "payment": payment})
}

// SubmitTransfer handles POST /api/payments/transfer. Multipart form
// with fields plan, amount and file receipt.
func (h *PaymentHandler) SubmitTransfer(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	plan := c.PostForm("plan")
	if plan == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan is required"})
		return
	}
	amount := 0.0
	if raw := c.PostForm("amount"); raw != "" {
		var err error
		if amount, err = parseAmount(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
			return
		}
	}

	receipt, err := c.FormFile("receipt")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receipt file is required"})
		return
	}

	payment, err := h.payments.SubmitTransfer(c.Request.Context(), user, plan, amount, receipt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// GetHistory handles GET /api/payments/history
func (h *PaymentHandler) GetHistory(c *gin.Context) {
	payments, err := h.payments.History(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// GetNextPayment handles GET /api/payments/next
func (h *PaymentHandler) GetNextPayment(c *gin.Context) {
	resp, err := h.plans.NextPayment(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func parseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	// ParseFloat accepts "NaN" and "Inf"; neither is a valid amount.
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("amount is not a finite number")
	}
	return amount, nil
}
