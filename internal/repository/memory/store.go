// Package memory implements the repository stores on in-process maps.
// It backs demo mode, where the API simulates its persistence layer
// without Postgres, and doubles as the fixture store for tests. A
// single RWMutex serializes writes so the email/DNI uniqueness
// invariants hold under concurrent registration.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/models"
)

type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]*models.User
	byEmail  map[string]uuid.UUID
	byDNI    map[string]uuid.UUID
	payments []models.Payment
	tickets  []models.SupportTicket
}

func NewStore() *Store {
	return &Store{
		users:   make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]uuid.UUID),
		byDNI:   make(map[string]uuid.UUID),
	}
}

// Users returns the store as a UserStore.
func (s *Store) Users() *UserStore { return &UserStore{s} }

// Payments returns the store as a PaymentStore.
func (s *Store) Payments() *PaymentStore { return &PaymentStore{s} }

// Tickets returns the store as a TicketStore.
func (s *Store) Tickets() *TicketStore { return &TicketStore{s} }

type UserStore struct{ s *Store }

func (r *UserStore) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.byEmail[user.Email]; exists {
		return models.ErrDuplicateEmail
	}
	if user.DNI != nil {
		if _, exists := r.s.byDNI[*user.DNI]; exists {
			return models.ErrDuplicateDNI
		}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.s.insertLocked(user)
	return nil
}

func (r *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneUser(r.s.users[id]), nil
}

func (r *UserStore) GetByDNI(ctx context.Context, dni string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byDNI[dni]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneUser(r.s.users[id]), nil
}

func (r *UserStore) Update(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prior, ok := r.s.users[user.ID]
	if !ok {
		return models.ErrNotFound
	}
	if err := r.s.checkUniqueLocked(user, prior.ID); err != nil {
		return err
	}

	r.s.removeIndexesLocked(prior)
	user.CreatedAt = prior.CreatedAt
	user.UpdatedAt = time.Now()
	r.s.insertLocked(user)
	return nil
}

func (r *UserStore) Upsert(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, exists := r.s.byEmail[user.Email]
	if !exists {
		if err := r.s.checkUniqueLocked(user, uuid.Nil); err != nil {
			return err
		}
		now := time.Now()
		user.CreatedAt = now
		user.UpdatedAt = now
		r.s.insertLocked(user)
		return nil
	}

	prior := r.s.users[id]
	// The prior record's identity survives the replacement.
	user.ID = prior.ID
	if err := r.s.checkUniqueLocked(user, prior.ID); err != nil {
		return err
	}

	r.s.removeIndexesLocked(prior)
	user.CreatedAt = prior.CreatedAt
	user.UpdatedAt = time.Now()
	r.s.insertLocked(user)
	return nil
}

func (r *UserStore) ListWithDuePendingChange(ctx context.Context, now time.Time) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var due []*models.User
	for _, user := range r.s.users {
		if user.PendingChange.Due(now) {
			due = append(due, cloneUser(user))
		}
	}
	return due, nil
}

func (s *Store) insertLocked(user *models.User) {
	stored := cloneUser(user)
	s.users[stored.ID] = stored
	s.byEmail[stored.Email] = stored.ID
	if stored.DNI != nil {
		s.byDNI[*stored.DNI] = stored.ID
	}
}

func (s *Store) removeIndexesLocked(user *models.User) {
	delete(s.byEmail, user.Email)
	if user.DNI != nil {
		delete(s.byDNI, *user.DNI)
	}
}

// checkUniqueLocked rejects the write when email or DNI would collide
// with a record other than selfID. Nothing is mutated on failure.
func (s *Store) checkUniqueLocked(user *models.User, selfID uuid.UUID) error {
	if id, ok := s.byEmail[user.Email]; ok && id != selfID {
		return models.ErrDuplicateEmail
	}
	if user.DNI != nil {
		if id, ok := s.byDNI[*user.DNI]; ok && id != selfID {
			return models.ErrDuplicateDNI
		}
	}
	return nil
}

type PaymentStore struct{ s *Store }

func (r *PaymentStore) Create(ctx context.Context, payment *models.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	payment.CreatedAt = time.Now()
	r.s.payments = append(r.s.payments, *payment)
	return nil
}

func (r *PaymentStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	// Insertion order reversed: walking the log backwards keeps the
	// ordering stable even when appends share a timestamp.
	var out []models.Payment
	for i := len(r.s.payments) - 1; i >= 0; i-- {
		if r.s.payments[i].UserID == userID {
			out = append(out, r.s.payments[i])
		}
	}
	return out, nil
}

type TicketStore struct{ s *Store }

func (r *TicketStore) Create(ctx context.Context, ticket *models.SupportTicket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ticket.CreatedAt = time.Now()
	r.s.tickets = append(r.s.tickets, *ticket)
	return nil
}

func (r *TicketStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.SupportTicket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.SupportTicket
	for i := len(r.s.tickets) - 1; i >= 0; i-- {
		if r.s.tickets[i].UserID == userID {
			out = append(out, r.s.tickets[i])
		}
	}
	return out, nil
}

func cloneUser(user *models.User) *models.User {
	c := *user
	if user.DNI != nil {
		v := *user.DNI
		c.DNI = &v
	}
	if user.Phone != nil {
		v := *user.Phone
		c.Phone = &v
	}
	if user.GoogleID != nil {
		v := *user.GoogleID
		c.GoogleID = &v
	}
	if user.PictureURL != nil {
		v := *user.PictureURL
		c.PictureURL = &v
	}
	if user.PendingChange != nil {
		v := *user.PendingChange
		c.PendingChange = &v
	}
	if user.LastLoginAt != nil {
		v := *user.LastLoginAt
		c.LastLoginAt = &v
	}
	return &c
}
