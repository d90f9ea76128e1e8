package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/loginbase/auth-gateway/internal/domain"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// ---------- helpers ----------

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const userColumns = `id, email, password_hash, first_name, last_name, image, role, created_at`

func (r *UserRepo) scanUserRow(row *sql.Row) (userRow, error) {
	var ur userRow
	err := row.Scan(
		&ur.ID,
		&ur.Email,
		&ur.PasswordHash,
		&ur.FirstName,
		&ur.LastName,
		&ur.Image,
		&ur.Role,
		&ur.CreatedAt,
	)
	return ur, err
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:           ur.ID,
		Email:        ur.Email,
		PasswordHash: ur.PasswordHash.String,
		FirstName:    ur.FirstName.String,
		LastName:     ur.LastName.String,
		Image:        ur.Image.String,
		Role:         ur.Role,
	}
}

// ---------- auth.UserRepo ----------

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;
`
	ur, err := r.scanUserRow(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), nil
}

// UpsertOAuthUser inserts a user on first OAuth sign-in, or refreshes the
// profile fields of the existing row keyed by email. The password hash is
// never written here, so credential accounts keep working after linking.
// xmax = 0 only for freshly inserted rows, which is how we report creation.
func (r *UserRepo) UpsertOAuthUser(ctx context.Context, u domain.User) (domain.User, bool, error) {
	u.Email = normalizeEmail(u.Email)
	if u.ID == "" {
		return domain.User{}, false, domain.ErrMissingField("id")
	}
	if u.Email == "" {
		return domain.User{}, false, domain.ErrMissingField("email")
	}
	if u.Role == "" {
		u.Role = domain.DefaultRole()
	}

	const q = `
INSERT INTO users (id, email, first_name, last_name, image, role)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (email) DO UPDATE SET
  first_name = COALESCE(NULLIF(users.first_name, ''), EXCLUDED.first_name),
  last_name  = COALESCE(NULLIF(users.last_name, ''), EXCLUDED.last_name),
  image      = EXCLUDED.image
RETURNING ` + userColumns + `, (xmax = 0) AS inserted;
`
	var (
		ur       userRow
		inserted bool
	)
	err := r.db.QueryRowContext(ctx, q,
		u.ID, u.Email, u.FirstName, u.LastName, u.Image, u.Role,
	).Scan(
		&ur.ID,
		&ur.Email,
		&ur.PasswordHash,
		&ur.FirstName,
		&ur.LastName,
		&ur.Image,
		&ur.Role,
		&ur.CreatedAt,
		&inserted,
	)
	if err != nil {
		return domain.User{}, false, domain.ErrDBUnavailable(err)
	}
	return toDomainUser(ur), inserted, nil
}
