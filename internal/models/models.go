package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/plans"
)

// RegistrationMethod records how an account was created.
type RegistrationMethod string

const (
	RegisteredWithEmail  RegistrationMethod = "email"
	RegisteredWithGoogle RegistrationMethod = "google"
)

type User struct {
	ID             uuid.UUID            `json:"id"`
	Email          string               `json:"email"`
	FirstName      string               `json:"first_name"`
	LastName       string               `json:"last_name"`
	DNI            *string              `json:"dni,omitempty"` // nil until a Google account completes registration
	Phone          *string              `json:"phone,omitempty"`
	Gender         string               `json:"gender,omitempty"`
	PasswordHash   string               `json:"-"`
	GoogleID       *string              `json:"-"`
	PictureURL     *string              `json:"picture_url,omitempty"`
	RegisteredWith RegistrationMethod   `json:"registered_with"`
	Plan           plans.Tier           `json:"plan"`
	PlanLabel      string               `json:"plan_label"` // legacy display label, never the source of truth
	PendingChange  *plans.PendingChange `json:"pending_plan,omitempty"`
	LastLoginAt    *time.Time           `json:"last_login_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// FullName joins the name parts for display.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type PaymentMethod string

const (
	PaymentMercadoPago PaymentMethod = "mercadopago"
	PaymentTransfer    PaymentMethod = "transfer"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusInReview PaymentStatus = "in_review"
	PaymentStatusApproved PaymentStatus = "approved"
)

type Payment struct {
	ID         uuid.UUID     `json:"id"`
	UserID     uuid.UUID     `json:"user_id"`
	Plan       plans.Tier    `json:"plan"`
	PlanLabel  string        `json:"plan_label"`
	Amount     float64       `json:"amount"`
	Method     PaymentMethod `json:"method"`
	Status     PaymentStatus `json:"status"`
	ReceiptURL *string       `json:"receipt_url,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

type TicketType string

const (
	TicketDNICorrection TicketType = "dni_correction"
	TicketProblemReport TicketType = "problem_report"
	TicketOther         TicketType = "other"
)

type TicketStatus string

const (
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusResolved TicketStatus = "resolved"
)

// SupportTicket is an append-only support request. UserID is
// informational, not an ownership relation.
type SupportTicket struct {
	ID        uuid.UUID    `json:"id"`
	Code      string       `json:"code"`
	Type      TicketType   `json:"type"`
	Subject   string       `json:"subject"`
	Message   string       `json:"message"`
	UserID    uuid.UUID    `json:"user_id"`
	Status    TicketStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// DTOs for API requests/responses

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	DNI       string `json:"dni" binding:"required"`
	Gender    string `json:"gender" binding:"required"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// GoogleCompleteRequest finishes a Google sign-in that is missing the
// DNI and contact data. The ID token is verified again server-side.
type GoogleCompleteRequest struct {
	IDToken   string `json:"idToken" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	DNI       string `json:"dni" binding:"required"`
	Gender    string `json:"gender" binding:"required"`
	Phone     string `json:"phone"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type ChangePlanRequest struct {
	Plan string `json:"plan" binding:"required"`
}

type MercadoPagoRequest struct {
	Plan   string  `json:"plan" binding:"required"`
	Amount float64 `json:"amount"`
}

type CreateTicketRequest struct {
	Type    string `json:"type" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// GoogleAuthResponse is returned by POST /auth/google. When the
// account has no DNI yet, NeedsCompletion is set and Profile carries
// the data extracted from the verified ID token.
type GoogleAuthResponse struct {
	Token           string         `json:"token,omitempty"`
	User            *User          `json:"user,omitempty"`
	NeedsCompletion bool           `json:"needs_completion"`
	NewUser         bool           `json:"new_user"`
	Profile         *GoogleProfile `json:"profile,omitempty"`
}

type GoogleProfile struct {
	GoogleID   string `json:"googleId"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	PictureURL string `json:"pictureUrl,omitempty"`
}

type PlanChangeResponse struct {
	AlreadyActive bool                 `json:"already_active"`
	Plan          plans.Tier           `json:"plan"`
	Pending       *plans.PendingChange `json:"pending,omitempty"`
}

type NextPaymentResponse struct {
	Date   time.Time          `json:"date"`
	Days   int                `json:"days"`
	Amount float64            `json:"amount"`
	Plan   plans.Tier         `json:"plan"`
	Status plans.RenewalState `json:"status"`
}

type ActivityResponse struct {
	LastLoginAt    *time.Time         `json:"last_login_at,omitempty"`
	MemberSince    time.Time          `json:"member_since"`
	RegisteredWith RegistrationMethod `json:"registered_with"`
	Payments       int                `json:"payments"`
	Tickets        int                `json:"tickets"`
}
