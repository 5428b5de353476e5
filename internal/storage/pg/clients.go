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

const clientColumns = `id, name, issuer, client_id, client_secret, is_shortcut, created_at`

// OpenIDClientStore holds identity-provider clients: configured shortcuts and
// clients registered on the fly during free-form logins.
type OpenIDClientStore struct {
	db *pgxpool.Pool
}

func NewOpenIDClientStore(pool *ConnectionPool) *OpenIDClientStore {
	return &OpenIDClientStore{db: pool.GetConn()}
}

func (s *OpenIDClientStore) ListShortcuts(ctx context.Context) ([]domain.OpenIDClient, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+clientColumns+` FROM openid_clients WHERE is_shortcut ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shortcuts: %w", err)
	}
	defer rows.Close()

	var clients []domain.OpenIDClient
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *OpenIDClientStore) GetClient(ctx context.Context, id int64) (*domain.OpenIDClient, error) {
	return s.getClient(ctx, `SELECT `+clientColumns+` FROM openid_clients WHERE id = $1`, id)
}

func (s *OpenIDClientStore) GetClientByIssuer(ctx context.Context, issuer string) (*domain.OpenIDClient, error) {
	return s.getClient(ctx, `SELECT `+clientColumns+` FROM openid_clients WHERE issuer = $1`, issuer)
}

func (s *OpenIDClientStore) getClient(ctx context.Context, query string, arg any) (*domain.OpenIDClient, error) {
	c, err := scanClient(s.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query openid client: %w", err)
	}
	return c, nil
}

func (s *OpenIDClientStore) CreateClient(ctx context.Context, client domain.OpenIDClient) (*domain.OpenIDClient, error) {
	c, err := scanClient(s.db.QueryRow(ctx, `
		INSERT INTO openid_clients (name, issuer, client_id, client_secret, is_shortcut)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+clientColumns,
		client.Name, client.Issuer, client.ClientID, client.ClientSecret, client.IsShortcut,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create openid client: %w", err)
	}
	return c, nil
}

func scanClient(row pgx.Row) (*domain.OpenIDClient, error) {
	var c domain.OpenIDClient
	err := row.Scan(&c.ID, &c.Name, &c.Issuer, &c.ClientID, &c.ClientSecret, &c.IsShortcut, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

var _ storage.OpenIDClientStore = (*OpenIDClientStore)(nil)
