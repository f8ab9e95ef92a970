package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/models"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/plans"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/repository"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/session"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/utils"
)

// defaultPlanLabel is the display label stamped on new email accounts.
// Legacy records read it back through plans.TierOf, which maps
// "normal" to the base tier.
const defaultPlanLabel = "Plan Normal"

type AuthService struct {
	users    repository.UserStore
	sessions *session.Manager
	google   GoogleVerifier
}

func NewAuthService(users repository.UserStore, sessions *session.Manager, google GoogleVerifier) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		google:   google,
	}
}

// Register creates an email account and issues a session for it.
// Duplicate email or DNI surfaces unchanged so handlers can answer 409.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	dni := utils.NormalizeDNI(req.DNI)
	user := &models.User{
		ID:             uuid.New(),
		Email:          utils.NormalizeEmail(req.Email),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DNI:            &dni,
		Gender:         req.Gender,
		PasswordHash:   hash,
		RegisteredWith: models.RegisteredWithEmail,
		Plan:           plans.TierBase,
		PlanLabel:      defaultPlanLabel,
		LastLoginAt:    &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Phone != "" {
		phone := req.Phone
		user.Phone = &phone
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login authenticates an email/password pair. Accounts created through
// Google carry no usable password and always fail here.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, utils.NormalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}

	if user.RegisteredWith == models.RegisteredWithGoogle && user.PasswordHash == "" {
		return nil, models.ErrWrongCredential
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, models.ErrWrongCredential
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

// LoginWithGoogle verifies the ID token and either signs the user in
// or asks the client to complete registration. Completion is required
// when there is no account for the email yet, and also for accounts
// that never finished it (no DNI on file).
func (s *AuthService) LoginWithGoogle(ctx context.Context, rawToken string) (*models.GoogleAuthResponse, error) {
	identity, err := s.google.Verify(ctx, rawToken)
	if err != nil {
		return nil, models.ErrWrongCredential
	}

	email := utils.NormalizeEmail(identity.Email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &models.GoogleAuthResponse{
				NeedsCompletion: true,
				NewUser:         true,
				Profile:         googleProfile(identity),
			}, nil
		}
		return nil, err
	}

	if user.DNI == nil || *user.DNI == "" {
		return &models.GoogleAuthResponse{
			NeedsCompletion: true,
			Profile:         googleProfile(identity),
		}, nil
	}

	now := time.Now()
	user.LastLoginAt = &now
	if user.GoogleID == nil {
		sub := identity.Subject
		user.GoogleID = &sub
	}
	if user.PictureURL == nil && identity.Picture != "" {
		pic := identity.Picture
		user.PictureURL = &pic
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.GoogleAuthResponse{Token: token, User: user}, nil
}

// CompleteGoogleRegistration finishes a Google sign-in by attaching
// the DNI and contact data. The token is verified again; the email in
// the request body is never trusted. Upserting by email keeps the ID
// of a half-created account instead of minting a second one.
func (s *AuthService) CompleteGoogleRegistration(ctx context.Context, req *models.GoogleCompleteRequest) (*models.AuthResponse, error) {
	identity, err := s.google.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, models.ErrWrongCredential
	}

	dni := utils.NormalizeDNI(req.DNI)
	email := utils.NormalizeEmail(identity.Email)

	if existing, err := s.users.GetByDNI(ctx, dni); err == nil && existing.Email != email {
		return nil, models.ErrDuplicateDNI
	} else if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:             uuid.New(),
		Email:          email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DNI:            &dni,
		Gender:         req.Gender,
		RegisteredWith: models.RegisteredWithGoogle,
		Plan:           plans.TierBase,
		PlanLabel:      defaultPlanLabel,
		LastLoginAt:    &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	sub := identity.Subject
	user.GoogleID = &sub
	if identity.Picture != "" {
		pic := identity.Picture
		user.PictureURL = &pic
	}
	if req.Phone != "" {
		phone := req.Phone
		user.Phone = &phone
	}

	// An account half-created in a previous attempt keeps its plan.
	if prior, err := s.users.GetByEmail(ctx, email); err == nil {
		user.Plan = prior.Plan
		user.PlanLabel = prior.PlanLabel
		user.PendingChange = prior.PendingChange
		user.CreatedAt = prior.CreatedAt
		user.PasswordHash = prior.PasswordHash
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

// Verify resolves a bearer token to its user.
func (s *AuthService) Verify(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.sessions.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// Logout revokes the user's active session.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.Clear(ctx, userID)
}

// ChangePassword replaces the user's password after checking the
// current one. Google-only accounts have no password to change.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req *models.ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.PasswordHash == "" {
		return fmt.Errorf("%w: account has no password", models.ErrValidation)
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return models.ErrWrongCredential
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

func googleProfile(identity *GoogleIdentity) *models.GoogleProfile {
	return &models.GoogleProfile{
		GoogleID:   identity.Subject,
		Email:      utils.NormalizeEmail(identity.Email),
		FirstName:  identity.GivenName,
		LastName:   identity.FamilyName,
		PictureURL: identity.Picture,
	}
}
