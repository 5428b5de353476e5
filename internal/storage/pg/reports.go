package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openlobby/openlobby-server/internal/domain"
	"github.com/openlobby/openlobby-server/internal/storage"
)

const reportColumns = `id, author_id, date, published, title, body,
	received_benefit, provided_benefit, our_participants, other_participants,
	extra, is_draft`

// ReportStore reads report rows. Published reports are searched through the
// index; the relational rows back draft editing, per-author report counts and
// index synchronization.
type ReportStore struct {
	db *pgxpool.Pool
}

func NewReportStore(pool *ConnectionPool) *ReportStore {
	return &ReportStore{db: pool.GetConn()}
}

func (s *ReportStore) DraftsByAuthor(ctx context.Context, authorID int64) ([]domain.Report, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE author_id = $1 AND is_draft
		ORDER BY date DESC, id DESC`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return scanReports(rows)
}

// PublishedReports pages through all non-draft rows in stable order. Used by
// the index synchronization command.
func (s *ReportStore) PublishedReports(ctx context.Context, from, size int) ([]domain.Report, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE NOT is_draft
		ORDER BY id
		OFFSET $1 LIMIT $2`,
		from, size,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list published reports: %w", err)
	}
	return scanReports(rows)
}

func scanReports(rows pgx.Rows) ([]domain.Report, error) {
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var r domain.Report
		if err := rows.Scan(
			&r.ID, &r.AuthorID, &r.Date, &r.Published, &r.Title, &r.Body,
			&r.ReceivedBenefit, &r.ProvidedBenefit, &r.OurParticipants, &r.OtherParticipants,
			&r.Extra, &r.IsDraft,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

var _ storage.DraftStore = (*ReportStore)(nil)
