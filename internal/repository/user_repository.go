package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/models"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/plans"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `
	id, email, first_name, last_name, dni, gender, phone,
	password_hash, google_id, picture_url, registered_with,
	plan, plan_label,
	pending_plan, pending_plan_scheduled_for, pending_plan_requested_at,
	last_login_at, created_at, updated_at
`

// Create inserts a new user. Email and DNI uniqueness are enforced by
// the unique indexes; violations surface as the typed duplicate errors.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			id, email, first_name, last_name, dni, gender, phone,
			password_hash, google_id, picture_url, registered_with,
			plan, plan_label
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.DNI,
		user.Gender,
		user.Phone,
		user.PasswordHash,
		user.GoogleID,
		user.PictureURL,
		user.RegisteredWith,
		user.Plan,
		user.PlanLabel,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByDNI(ctx context.Context, dni string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE dni = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, dni))
}

// Update replaces the record matching user.ID.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	var pendingPlan *plans.Tier
	var pendingFor, pendingAt *time.Time
	if user.PendingChange != nil {
		pendingPlan = &user.PendingChange.Target
		pendingFor = &user.PendingChange.ScheduledFor
		pendingAt = &user.PendingChange.RequestedAt
	}

	query := `
		UPDATE users SET
			email = $2, first_name = $3, last_name = $4, dni = $5,
			gender = $6, phone = $7, password_hash = $8,
			google_id = $9, picture_url = $10, registered_with = $11,
			plan = $12, plan_label = $13,
			pending_plan = $14, pending_plan_scheduled_for = $15,
			pending_plan_requested_at = $16,
			last_login_at = $17, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.DNI,
		user.Gender,
		user.Phone,
		user.PasswordHash,
		user.GoogleID,
		user.PictureURL,
		user.RegisteredWith,
		user.Plan,
		user.PlanLabel,
		pendingPlan,
		pendingFor,
		pendingAt,
		user.LastLoginAt,
	).Scan(&user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		if dup := duplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// Upsert inserts the record, or replaces the one already holding the
// email. The prior record's ID wins on conflict and is written back.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	var pendingPlan *plans.Tier
	var pendingFor, pendingAt *time.Time
	if user.PendingChange != nil {
		pendingPlan = &user.PendingChange.Target
		pendingFor = &user.PendingChange.ScheduledFor
		pendingAt = &user.PendingChange.RequestedAt
	}

	query := `
		INSERT INTO users (
			id, email, first_name, last_name, dni, gender, phone,
			password_hash, google_id, picture_url, registered_with,
			plan, plan_label,
			pending_plan, pending_plan_scheduled_for, pending_plan_requested_at,
			last_login_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (email) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			dni = EXCLUDED.dni,
			gender = EXCLUDED.gender,
			phone = EXCLUDED.phone,
			password_hash = EXCLUDED.password_hash,
			google_id = EXCLUDED.google_id,
			picture_url = EXCLUDED.picture_url,
			registered_with = EXCLUDED.registered_with,
			plan = EXCLUDED.plan,
			plan_label = EXCLUDED.plan_label,
			pending_plan = EXCLUDED.pending_plan,
			pending_plan_scheduled_for = EXCLUDED.pending_plan_scheduled_for,
			pending_plan_requested_at = EXCLUDED.pending_plan_requested_at,
			last_login_at = EXCLUDED.last_login_at,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.DNI,
		user.Gender,
		user.Phone,
		user.PasswordHash,
		user.GoogleID,
		user.PictureURL,
		user.RegisteredWith,
		user.Plan,
		user.PlanLabel,
		pendingPlan,
		pendingFor,
		pendingAt,
		user.LastLoginAt,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

// ListWithDuePendingChange returns users whose scheduled change date
// has passed; the worker applies them.
func (r *UserRepository) ListWithDuePendingChange(ctx context.Context, now time.Time) ([]*models.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE pending_plan IS NOT NULL AND pending_plan_scheduled_for <= $1
		ORDER BY pending_plan_scheduled_for ASC`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due plan changes: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	var pendingPlan *plans.Tier
	var pendingFor, pendingAt *time.Time

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.DNI,
		&user.Gender,
		&user.Phone,
		&user.PasswordHash,
		&user.GoogleID,
		&user.PictureURL,
		&user.RegisteredWith,
		&user.Plan,
		&user.PlanLabel,
		&pendingPlan,
		&pendingFor,
		&pendingAt,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if pendingPlan != nil && pendingFor != nil && pendingAt != nil {
		user.PendingChange = &plans.PendingChange{
			Target:       *pendingPlan,
			ScheduledFor: *pendingFor,
			RequestedAt:  *pendingAt,
		}
	}

	return user, nil
}

// duplicateError maps a unique-violation to the typed domain error,
// or returns nil when err is not one.
func duplicateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	if strings.Contains(pgErr.ConstraintName, "dni") {
		return models.ErrDuplicateDNI
	}
	return models.ErrDuplicateEmail
}
