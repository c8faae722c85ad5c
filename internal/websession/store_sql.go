package websession

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, sid string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, `SELECT blob, expires_at FROM web_sessions WHERE sid=$1`, sid)
	var blob string
	var expiresAt int64
	if err := row.Scan(&blob, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	if time.Now().Unix() > expiresAt {
		return nil, ErrNoSession
	}
	return []byte(blob), nil
}

func (s *SQLStore) Set(ctx context.Context, sid string, blob []byte, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO web_sessions (sid, blob, expires_at) VALUES ($1,$2,$3)
		ON CONFLICT (sid) DO UPDATE SET blob=EXCLUDED.blob, expires_at=EXCLUDED.expires_at`,
		sid, string(blob), time.Now().Add(ttl).Unix())
	return err
}

func (s *SQLStore) Clear(ctx context.Context, sid string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE sid=$1`, sid)
	return err
}

func (s *SQLStore) DeleteExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE expires_at < $1`, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
