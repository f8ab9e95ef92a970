package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/models"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/services"
)

type UserHandler struct {
	plans    *services.PlanService
	auth     *services.AuthService
	payments *services.PaymentService
	tickets  *services.TicketService
}

func NewUserHandler(plans *services.PlanService, auth *services.AuthService, payments *services.PaymentService, tickets *services.TicketService) *UserHandler {
	return &UserHandler{
		plans:    plans,
		auth:     auth,
		payments: payments,
		tickets:  tickets,
	}
}

// GetProfile handles GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.plans.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile handles PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.plans.UpdateProfile(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePlan handles PUT /api/users/plan
func (h *UserHandler) ChangePlan(c *gin.Context) {
	var req models.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.plans.RequestChange(c.Request.Context(), currentUserID(c), req.Plan)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ChangePassword handles PUT /api/users/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), currentUserID(c), &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// GetActivity handles GET /api/users/activity. Returns the account
// summary shown on the dashboard.
func (h *UserHandler) GetActivity(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	payments, err := h.payments.History(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	tickets, err := h.tickets.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ActivityResponse{
		LastLoginAt:    user.LastLoginAt,
		MemberSince:    user.CreatedAt,
		RegisteredWith: user.RegisteredWith,
		Payments:       len(payments),
		Tickets:        len(tickets),
	})
}
