package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/loginbase/auth-gateway/internal/domain"
)

// UserRepo is an in-memory auth.UserRepo used in tests and local dev.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string // email -> userID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

// Seed inserts a user directly, bypassing upsert semantics.
func (r *UserRepo) Seed(u domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = u
	r.byEmail[normalizeEmail(u.Email)] = u.ID
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) UpsertOAuthUser(ctx context.Context, u domain.User) (domain.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = normalizeEmail(u.Email)
	if u.ID == "" {
		return domain.User{}, false, domain.ErrMissingField("id")
	}
	if u.Email == "" {
		return domain.User{}, false, domain.ErrMissingField("email")
	}

	if id, ok := r.byEmail[u.Email]; ok {
		existing := r.byID[id]
		if existing.FirstName == "" {
			existing.FirstName = u.FirstName
		}
		if existing.LastName == "" {
			existing.LastName = u.LastName
		}
		existing.Image = u.Image
		r.byID[id] = existing
		return existing, false, nil
	}

	if u.Role == "" {
		u.Role = domain.DefaultRole()
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, true, nil
}
