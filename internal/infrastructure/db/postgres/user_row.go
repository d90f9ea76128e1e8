package postgres

import (
	"database/sql"
	"time"
)

type userRow struct {
	ID           string
	Email        string
	PasswordHash sql.NullString
	FirstName    sql.NullString
	LastName     sql.NullString
	Image        sql.NullString
	Role         string
	CreatedAt    time.Time
}
