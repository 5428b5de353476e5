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

const userColumns = `id, openid_uid, first_name, last_name, email, is_author, extra, created_at`

// UserStore reads and writes user rows. Author listings join the reports
// table to derive per-author non-draft report counts.
type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(pool *ConnectionPool) *UserStore {
	return &UserStore{db: pool.GetConn()}
}

func (s *UserStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *UserStore) GetUserByOpenIDUID(ctx context.Context, uid string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE openid_uid = $1`, uid)
}

func (s *UserStore) GetAuthor(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND is_author`, id)
}

func (s *UserStore) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.OpenIDUID, &u.FirstName, &u.LastName, &u.Email, &u.IsAuthor, &u.Extra, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

func (s *UserStore) UpsertUser(ctx context.Context, user domain.User) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (openid_uid, first_name, last_name, email, is_author, extra)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (openid_uid) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    email = EXCLUDED.email
		RETURNING `+userColumns,
		user.OpenIDUID, user.FirstName, user.LastName, user.Email, user.IsAuthor, user.Extra,
	).Scan(&u.ID, &u.OpenIDUID, &u.FirstName, &u.LastName, &u.Email, &u.IsAuthor, &u.Extra, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &u, nil
}

func (s *UserStore) CountAuthors(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM users WHERE is_author`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count authors: %w", err)
	}
	return total, nil
}

func (s *UserStore) ListAuthors(ctx context.Context, sort domain.AuthorSort, reversed bool, from, to int) ([]domain.Author, error) {
	if to < from {
		to = from
	}

	direction := "ASC"
	if reversed {
		direction = "DESC"
	}

	// Sort key is interpolated from a fixed set, never from client input.
	var orderBy string
	switch sort {
	case domain.AuthorSortTotalReports:
		orderBy = fmt.Sprintf("total_reports %s, u.id ASC", direction)
	default:
		orderBy = fmt.Sprintf("u.last_name %s, u.first_name %s, u.id ASC", direction, direction)
	}

	rows, err := s.db.Query(ctx, fmt.Sprintf(`
		SELECT u.id, u.openid_uid, u.first_name, u.last_name, u.email, u.is_author, u.extra, u.created_at,
		       count(r.id) FILTER (WHERE NOT r.is_draft) AS total_reports
		FROM users u
		LEFT JOIN reports r ON r.author_id = u.id
		WHERE u.is_author
		GROUP BY u.id
		ORDER BY %s
		OFFSET $1 LIMIT $2`, orderBy),
		from, to-from,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	return scanAuthors(rows)
}

func (s *UserStore) AuthorsByIDs(ctx context.Context, ids []int64) ([]domain.Author, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.openid_uid, u.first_name, u.last_name, u.email, u.is_author, u.extra, u.created_at,
		       count(r.id) FILTER (WHERE NOT r.is_draft) AS total_reports
		FROM users u
		LEFT JOIN reports r ON r.author_id = u.id
		WHERE u.id = ANY($1)
		GROUP BY u.id`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-fetch authors: %w", err)
	}
	defer rows.Close()

	return scanAuthors(rows)
}

func scanAuthors(rows pgx.Rows) ([]domain.Author, error) {
	var authors []domain.Author
	for rows.Next() {
		var a domain.Author
		if err := rows.Scan(
			&a.ID, &a.OpenIDUID, &a.FirstName, &a.LastName, &a.Email, &a.IsAuthor, &a.Extra, &a.CreatedAt,
			&a.TotalReports,
		); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return authors, nil
}

var _ storage.UserStore = (*UserStore)(nil)
