package auth

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// AdminUser is an account allowed to manage gallery content
type AdminUser struct {
	ID           uuid.UUID    `db:"id"`
	Username     string       `db:"username"`
	Email        string       `db:"email"`
	PasswordHash string       `db:"password_hash"`
	Role         string       `db:"role"`
	CreatedAt    time.Time    `db:"created_at"`
	LastLoginAt  sql.NullTime `db:"last_login_at"`
}
