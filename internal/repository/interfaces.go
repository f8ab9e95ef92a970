package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/models"
)

// UserStore is the user directory. Implementations must keep at most
// one record per email and per non-null DNI, including under
// concurrent registration.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByDNI(ctx context.Context, dni string) (*models.User, error)
	// Update replaces the stored record matching user.ID, keeping the
	// identity of the prior record.
	Update(ctx context.Context, user *models.User) error
	// Upsert inserts when the email is unseen, otherwise replaces the
	// matching record while preserving its prior ID (written back to
	// user.ID).
	Upsert(ctx context.Context, user *models.User) error
	// ListWithDuePendingChange returns users whose scheduled plan
	// change date has been reached.
	ListWithDuePendingChange(ctx context.Context, now time.Time) ([]*models.User, error)
}

// PaymentStore records payment attempts, newest first on list.
type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error)
}

// TicketStore is the append-only support ticket log, newest first on
// list. Re-listing yields the same sequence until the next append.
type TicketStore interface {
	Create(ctx context.Context, ticket *models.SupportTicket) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.SupportTicket, error)
}
