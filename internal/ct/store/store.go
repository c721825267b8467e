package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rgoodall/duebook/internal/ct"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectTrackingColumns = `
	client_id, status, due_date, period_start, period_end,
	source, manual_override, filed_at, updated_at, updated_by
`

func (s *Store) Get(ctx context.Context, clientID uuid.UUID) (*ct.Tracking, error) {
	query := `SELECT ` + selectTrackingColumns + `
		FROM ct_tracking
		WHERE client_id = $1`

	var t ct.Tracking

	var statusStr, sourceStr string

	err := s.db.QueryRowContext(ctx, query, clientID).Scan(
		&t.ClientID, &statusStr, &t.DueDate, &t.PeriodStart, &t.PeriodEnd,
		&sourceStr, &t.ManualOverride, &t.FiledAt, &t.UpdatedAt, &t.UpdatedBy,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ct.ErrNotFound
		}

		return nil, fmt.Errorf("getting ct tracking: %w", err)
	}

	t.Status = ct.TrackingStatus(statusStr)
	t.Source = ct.Source(sourceStr)

	return &t, nil
}

// Upsert writes the full tracking state, keyed by client. Each client has at
// most one live CT record; filed periods roll forward in place.
func (s *Store) Upsert(ctx context.Context, t *ct.Tracking) error {
	query := `
		INSERT INTO ct_tracking (
			client_id, status, due_date, period_start, period_end,
			source, manual_override, filed_at, updated_at, updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (client_id) DO UPDATE SET
			status = EXCLUDED.status,
			due_date = EXCLUDED.due_date,
			period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			source = EXCLUDED.source,
			manual_override = EXCLUDED.manual_override,
			filed_at = EXCLUDED.filed_at,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
	`

	_, err := s.db.ExecContext(ctx, query,
		t.ClientID,
		t.Status,
		t.DueDate,
		t.PeriodStart,
		t.PeriodEnd,
		t.Source,
		t.ManualOverride,
		t.FiledAt,
		t.UpdatedAt,
		t.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("upserting ct tracking: %w", err)
	}

	return nil
}
