package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/models"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/plans"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/repository"
)

// PlanService owns subscription state: the current tier, the single
// pending change slot, and the billing dates derived from them.
type PlanService struct {
	users repository.UserStore
}

func NewPlanService(users repository.UserStore) *PlanService {
	return &PlanService{users: users}
}

// Profile loads a user and activates any pending change whose date has
// arrived. Reads reconcile lazily so the state is correct even between
// sweeper runs.
func (s *PlanService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.reconcile(ctx, user, time.Now()); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile rewrites the editable profile fields. Email, DNI and
// plan state are not touched here.
func (s *PlanService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Gender = req.Gender
	if req.Phone != "" {
		phone := req.Phone
		user.Phone = &phone
	} else {
		user.Phone = nil
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RequestChange schedules a tier switch for the next renewal date.
// Requesting the already-active tier is a no-op; re-requesting while a
// change is pending overwrites the slot.
func (s *PlanService) RequestChange(ctx context.Context, userID uuid.UUID, planInput string) (*models.PlanChangeResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := s.reconcile(ctx, user, now); err != nil {
		return nil, err
	}

	target := plans.ParseTier(planInput)
	pending, ok := plans.RequestChange(user.Plan, target, now)
	if !ok {
		// Re-picking the active tier is a pure no-op: any scheduled
		// change stays untouched.
		return &models.PlanChangeResponse{AlreadyActive: true, Plan: user.Plan, Pending: user.PendingChange}, nil
	}

	user.PendingChange = pending
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return &models.PlanChangeResponse{Plan: user.Plan, Pending: pending}, nil
}

// NextPayment computes the user's upcoming billing line. The amount is
// priced on the effective tier: once a change is pending, payments are
// for the plan the user is moving to.
func (s *PlanService) NextPayment(ctx context.Context, userID uuid.UUID) (*models.NextPaymentResponse, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	date := plans.NextPaymentDate(user.CreatedAt, now)
	days := plans.DaysUntil(date, now)
	tier := plans.EffectiveTier(user.Plan, user.PendingChange)

	return &models.NextPaymentResponse{
		Date:   date,
		Days:   days,
		Amount: plans.ByTier(tier).Price,
		Plan:   tier,
		Status: plans.Classify(days),
	}, nil
}

// ApplyDueChanges activates every pending change whose date has been
// reached. Run periodically by the worker; returns how many users were
// switched.
func (s *PlanService) ApplyDueChanges(ctx context.Context, now time.Time) (int, error) {
	users, err := s.users.ListWithDuePendingChange(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list due plan changes: %w", err)
	}

	applied := 0
	for _, user := range users {
		if !user.PendingChange.Due(now) {
			continue
		}
		activatePendingChange(user)
		if err := s.users.Update(ctx, user); err != nil {
			log.Printf("Failed to apply plan change for user %s: %v", user.ID, err)
			continue
		}
		applied++
	}

	return applied, nil
}

// reconcile applies the user's pending change in place when it is due.
func (s *PlanService) reconcile(ctx context.Context, user *models.User, now time.Time) error {
	if !user.PendingChange.Due(now) {
		return nil
	}
	activatePendingChange(user)
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to apply plan change: %w", err)
	}
	return nil
}

func activatePendingChange(user *models.User) {
	user.Plan = user.PendingChange.Target
	user.PlanLabel = plans.ByTier(user.Plan).Name
	user.PendingChange = nil
}
