package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCredentials = errors.New("invalid username or password")
	// ErrLocked: too many failed logins; retry after the lockout window.
	ErrLocked = errors.New("account is locked")
)

type Admin struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	FailedAttempts int
	LockedUntil    sql.NullInt64
	LastLogin      sql.NullInt64
}

// Admins verifies credentials against the admins table and keeps the
// failed-attempt lockout counters.
type Admins struct {
	db          *sql.DB
	maxAttempts int
	lockout     time.Duration
}

func NewAdmins(db *sql.DB, maxAttempts int, lockout time.Duration) *Admins {
	return &Admins{db: db, maxAttempts: maxAttempts, lockout: lockout}
}

// Authenticate checks the password for the admin matching username (or
// email). A wrong password bumps the failure counter and locks the account
// once maxAttempts is reached; a correct one resets the counter.
func (a *Admins) Authenticate(ctx context.Context, username, password string) (Admin, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, failed_login_attempts, locked_until, last_login
		FROM admins WHERE username=$1 OR email=$1`, username)
	var ad Admin
	if err := row.Scan(&ad.ID, &ad.Username, &ad.Email, &ad.PasswordHash, &ad.FailedAttempts, &ad.LockedUntil, &ad.LastLogin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Admin{}, ErrBadCredentials
		}
		return Admin{}, err
	}

	now := time.Now().Unix()
	if ad.LockedUntil.Valid && ad.LockedUntil.Int64 > now {
		return Admin{}, ErrLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(ad.PasswordHash), []byte(password)) != nil {
		attempts := ad.FailedAttempts + 1
		var lockedUntil any
		if attempts >= a.maxAttempts {
			lockedUntil = time.Now().Add(a.lockout).Unix()
		}
		_, _ = a.db.ExecContext(ctx,
			`UPDATE admins SET failed_login_attempts=$1, locked_until=$2 WHERE id=$3`,
			attempts, lockedUntil, ad.ID)
		return Admin{}, ErrBadCredentials
	}

	_, _ = a.db.ExecContext(ctx,
		`UPDATE admins SET failed_login_attempts=0, locked_until=NULL, last_login=$1 WHERE id=$2`,
		now, ad.ID)
	return ad, nil
}

// EnsureDefault seeds an admin account when the table is empty, the way the
// installer would.
func (a *Admins) EnsureDefault(ctx context.Context, username, password string) error {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = a.db.ExecContext(ctx, `
		INSERT INTO admins (username, email, password_hash, created_at)
		VALUES ($1,'',$2,$3)`, username, string(hash), time.Now().Unix())
	return err
}
