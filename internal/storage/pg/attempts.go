package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openlobby/openlobby-server/internal/domain"
	"github.com/openlobby/openlobby-server/internal/storage"
)

// LoginAttemptStore persists in-flight authorization-code flows keyed by the
// state value that round-trips through the identity provider.
type LoginAttemptStore struct {
	db *pgxpool.Pool
}

func NewLoginAttemptStore(pool *ConnectionPool) *LoginAttemptStore {
	return &LoginAttemptStore{db: pool.GetConn()}
}

func (s *LoginAttemptStore) CreateAttempt(ctx context.Context, attempt domain.LoginAttempt) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO login_attempts (state, nonce, client_id, redirect_uri, expires_at)
		VALUES ($1, $2, $3, $4, $5)`,
		attempt.State, attempt.Nonce, attempt.ClientID, attempt.RedirectURI, attempt.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create login attempt: %w", err)
	}
	return nil
}

// ConsumeAttempt deletes and returns the attempt in one statement so a state
// value cannot be replayed.
func (s *LoginAttemptStore) ConsumeAttempt(ctx context.Context, state string) (*domain.LoginAttempt, error) {
	var a domain.LoginAttempt
	err := s.db.QueryRow(ctx, `
		DELETE FROM login_attempts
		WHERE state = $1 AND expires_at > now()
		RETURNING state, nonce, client_id, redirect_uri, expires_at`,
		state,
	).Scan(&a.State, &a.Nonce, &a.ClientID, &a.RedirectURI, &a.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume login attempt: %w", err)
	}
	return &a, nil
}

var _ storage.LoginAttemptStore = (*LoginAttemptStore)(nil)
