package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/middleware"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/models"
)

// currentUser returns the user the auth middleware resolved, or nil.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// currentUserID returns the authenticated user's ID, or uuid.Nil.
func currentUserID(c *gin.Context) uuid.UUID {
	if user := currentUser(c); user != nil {
		return user.ID
	}
	return uuid.Nil
}
