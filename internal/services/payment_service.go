package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/config"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/models"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/plans"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/repository"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/storage"
)

type PaymentService struct {
	payments repository.PaymentStore
	storage  storage.Driver
	mp       config.MercadoPagoConfig
}

func NewPaymentService(payments repository.PaymentStore, store storage.Driver, mp config.MercadoPagoConfig) *PaymentService {
	return &PaymentService{
		payments: payments,
		storage:  store,
		mp:       mp,
	}
}

// CheckoutURL returns the static MercadoPago checkout link for a tier.
// Links are per-tier subscriptions configured at deploy time.
func (s *PaymentService) CheckoutURL(tier plans.Tier) string {
	switch tier {
	case plans.TierBase:
		return s.mp.CheckoutBase
	case plans.TierPro:
		return s.mp.CheckoutPro
	default:
		return s.mp.CheckoutPlus
	}
}

// CreateMercadoPago records a pending payment and hands back the
// checkout link the client should redirect to. The payment stays
// pending until the operator confirms it.
func (s *PaymentService) CreateMercadoPago(ctx context.Context, user *models.User, req *models.MercadoPagoRequest) (string, *models.Payment, error) {
	tier := plans.ParseTier(req.Plan)
	plan := plans.ByTier(tier)

	url := s.CheckoutURL(tier)
	if url == "" {
		return "", nil, fmt.Errorf("no checkout link configured for plan %s", tier)
	}

	amount := req.Amount
	if amount <= 0 {
		amount = plan.Price
	}

	payment := &models.Payment{
		ID:        uuid.New(),
		UserID:    user.ID,
		Plan:      tier,
		PlanLabel: plan.Name,
		Amount:    amount,
		Method:    models.PaymentMercadoPago,
		Status:    models.PaymentStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return "", nil, fmt.Errorf("failed to record payment: %w", err)
	}

	return url, payment, nil
}

// SubmitTransfer stores a bank-transfer receipt and records the
// payment as in review. Images are normalized before upload; the
// caller gets validation errors for oversized or non jpg/png/pdf
// files.
func (s *PaymentService) SubmitTransfer(ctx context.Context, user *models.User, planInput string, amount float64, receipt *multipart.FileHeader) (*models.Payment, error) {
	tier := plans.ParseTier(planInput)
	plan := plans.ByTier(tier)

	body, ext, err := processReceipt(receipt)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("receipts/%s/%d%s", user.ID, time.Now().UnixMilli(), ext)
	_, publicURL, err := s.storage.Upload(ctx, body, path)
	if err != nil {
		return nil, fmt.Errorf("failed to store receipt: %w", err)
	}

	if amount <= 0 {
		amount = plan.Price
	}
	payment := &models.Payment{
		ID:         uuid.New(),
		UserID:     user.ID,
		Plan:       tier,
		PlanLabel:  plan.Name,
		Amount:     amount,
		Method:     models.PaymentTransfer,
		Status:     models.PaymentStatusInReview,
		ReceiptURL: &publicURL,
		CreatedAt:  time.Now(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	return payment, nil
}

// History lists the user's payments, newest first.
func (s *PaymentService) History(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}
