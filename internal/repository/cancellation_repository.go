package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lakeshorecc/classreg-backend/internal/model"
)

// CancellationRepository handles the cancellation-notice ledger. Notices
// carry a denormalized class name so they stay readable after the class is
// gone from the browse surface.
type CancellationRepository struct {
	pool *pgxpool.Pool
}

// NewCancellationRepository creates a new CancellationRepository.
func NewCancellationRepository(pool *pgxpool.Pool) *CancellationRepository {
	return &CancellationRepository{pool: pool}
}

// InsertManyTx appends a batch of notices inside the cascade transaction
// that voids the matching registrations.
func (r *CancellationRepository) InsertManyTx(ctx context.Context, tx pgx.Tx, notices []model.CancellationNotice) error {
	if len(notices) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, n := range notices {
		batch.Queue(
			`INSERT INTO cancellation_notices
				(class_id, class_name, registrant_kind, registrant_id, cancelled_on)
			 VALUES ($1, $2, $3, $4, $5)`,
			n.ClassID, n.ClassName, n.Registrant.Kind, n.Registrant.ID, n.CancelledOn)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range notices {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}

// ListByRegistrant retrieves a registrant's notices, newest first.
func (r *CancellationRepository) ListByRegistrant(ctx context.Context, ref model.RegistrantRef) ([]model.CancellationNotice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, class_id, class_name, registrant_kind, registrant_id,
			cancelled_on, delivered, created_at
		 FROM cancellation_notices
		 WHERE registrant_kind = $1 AND registrant_id = $2
		 ORDER BY created_at DESC, id DESC`,
		ref.Kind, ref.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notices []model.CancellationNotice
	for rows.Next() {
		var n model.CancellationNotice
		err := rows.Scan(&n.ID, &n.ClassID, &n.ClassName,
			&n.Registrant.Kind, &n.Registrant.ID,
			&n.CancelledOn, &n.Delivered, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notices = append(notices, n)
	}
	return notices, rows.Err()
}

// ListUndeliveredByRegistrant retrieves only the notices the registrant has
// not been shown yet, newest first.
func (r *CancellationRepository) ListUndeliveredByRegistrant(ctx context.Context, ref model.RegistrantRef) ([]model.CancellationNotice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, class_id, class_name, registrant_kind, registrant_id,
			cancelled_on, delivered, created_at
		 FROM cancellation_notices
		 WHERE registrant_kind = $1 AND registrant_id = $2 AND delivered = FALSE
		 ORDER BY created_at DESC, id DESC`,
		ref.Kind, ref.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notices []model.CancellationNotice
	for rows.Next() {
		var n model.CancellationNotice
		err := rows.Scan(&n.ID, &n.ClassID, &n.ClassName,
			&n.Registrant.Kind, &n.Registrant.ID,
			&n.CancelledOn, &n.Delivered, &n.CreatedAt)
		if err != nil {
			return nil, err
		}
		notices = append(notices, n)
	}
	return notices, rows.Err()
}

// MarkDelivered flags every undelivered notice of a registrant as read.
// Notices are never deleted, only marked.
func (r *CancellationRepository) MarkDelivered(ctx context.Context, ref model.RegistrantRef) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cancellation_notices SET delivered = TRUE
		 WHERE registrant_kind = $1 AND registrant_id = $2 AND delivered = FALSE`,
		ref.Kind, ref.ID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
