package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventhub-backend/internal/domain"
	"eventhub-backend/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

// Replace relies on UNIQUE(user_id): issuing a new refresh token atomically
// discards whatever token was stored before.
func (r *sessionRepository) Replace(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO sessions (user_id, token, expires_at, created_on)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at, created_on = EXCLUDED.created_on`
	if s.CreatedOn.IsZero() {
		s.CreatedOn = time.Now()
	}
	_, err := r.db.ExecContext(ctx, query, s.UserID, s.Token, s.ExpiresAt, s.CreatedOn)
	return err
}

func (r *sessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	s := &domain.Session{}
	query := `SELECT user_id, token, expires_at, created_on FROM sessions WHERE token = $1`
	err := r.db.QueryRowContext(ctx, query, token).Scan(&s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Rotate is the conditional swap that resolves two concurrent refresh calls:
// the predicate on the old token lets exactly one of them through.
func (r *sessionRepository) Rotate(ctx context.Context, userID int32, oldToken, newToken string, expiresAt time.Time) error {
	query := `UPDATE sessions SET token = $3, expires_at = $4, created_on = $5 WHERE user_id = $1 AND token = $2`
	res, err := r.db.ExecContext(ctx, query, userID, oldToken, newToken, expiresAt, time.Now())
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTokenInvalid
	}
	return nil
}

// DeleteByToken is idempotent; logging out an already-absent token succeeds.
func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

func (r *sessionRepository) DeleteByUser(ctx context.Context, userID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
