// Package session owns the bearer-token lifecycle: tokens are signed
// JWTs whose validity additionally requires a matching server-side
// slot, one per user. Issuing overwrites the previous slot, so a login
// on a new device revokes the old session; Clear drops it at logout.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/config"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/models"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/utils"
)

// TokenStore tracks the active token per user. Redis in production,
// an in-process map in demo mode.
type TokenStore interface {
	Set(ctx context.Context, userID string, token string, ttl time.Duration) error
	// Get returns the active token, or "" when the user has none.
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}

type Manager struct {
	store TokenStore
	cfg   *config.JWTConfig
}

func NewManager(store TokenStore, cfg *config.JWTConfig) *Manager {
	return &Manager{store: store, cfg: cfg}
}

// Issue mints a token for the user and records it as the single
// active session.
func (m *Manager) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := utils.GenerateJWT(userID, m.cfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	ttl := time.Duration(m.cfg.ExpirationHours) * time.Hour
	if err := m.store.Set(ctx, userID.String(), token, ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

// Verify validates the signature and confirms the token is still the
// user's active session. A token superseded by a newer login fails
// even if its signature and expiry are fine.
func (m *Manager) Verify(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := utils.ValidateJWT(token, m.cfg)
	if err != nil {
		return uuid.Nil, models.ErrWrongCredential
	}

	active, err := m.store.Get(ctx, claims.UserID.String())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read session: %w", err)
	}
	if active != token {
		return uuid.Nil, models.ErrWrongCredential
	}

	return claims.UserID, nil
}

// Clear drops the user's active session.
func (m *Manager) Clear(ctx context.Context, userID uuid.UUID) error {
	return m.store.Delete(ctx, userID.String())
}
