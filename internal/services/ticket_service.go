package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/models"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/repository"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/utils"
)

type TicketService struct {
	tickets repository.TicketStore
}

func NewTicketService(tickets repository.TicketStore) *TicketService {
	return &TicketService{tickets: tickets}
}

// Create appends a support ticket. Tickets open pending and get a
// FE-prefixed code the user quotes in follow-ups.
func (s *TicketService) Create(ctx context.Context, userID uuid.UUID, req *models.CreateTicketRequest) (*models.SupportTicket, error) {
	subject := strings.TrimSpace(req.Subject)
	message := strings.TrimSpace(req.Message)
	if subject == "" || message == "" {
		return nil, fmt.Errorf("%w: subject and message are required", models.ErrValidation)
	}

	now := time.Now()
	ticket := &models.SupportTicket{
		ID:        uuid.New(),
		Code:      utils.GenerateTicketCode(now),
		Type:      parseTicketType(req.Type),
		Subject:   subject,
		Message:   message,
		UserID:    userID,
		Status:    models.TicketStatusPending,
		CreatedAt: now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to record ticket: %w", err)
	}
	return ticket, nil
}

// ListForUser returns the user's tickets, newest first.
func (s *TicketService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.SupportTicket, error) {
	return s.tickets.ListByUser(ctx, userID)
}

// parseTicketType tolerates both the canonical keys and the Spanish
// labels older clients send.
func parseTicketType(raw string) models.TicketType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(models.TicketDNICorrection), "dni", "correccion_dni":
		return models.TicketDNICorrection
	case string(models.TicketProblemReport), "problema", "problem":
		return models.TicketProblemReport
	default:
		return models.TicketOther
	}
}
