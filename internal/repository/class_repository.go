package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lakeshorecc/classreg-backend/internal/model"
	"github.com/lakeshorecc/classreg-backend/internal/schedule"
)

// ClassRepository handles class data access. Seat-counter mutations are
// exposed as Tx methods only: a seat is never reserved or released outside
// the transaction that creates or destroys the matching registration.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

const classColumns = `id, name, description, room_number, start_date, end_date,
	weekday_mask, start_time, end_time, max_capacity, occupied, status,
	member_price, non_member_price, staff_id, created_at, updated_at`

func scanClass(row pgx.Row) (*model.Class, error) {
	c := &model.Class{}
	var mask int16
	var startTime, endTime string
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.RoomNumber, &c.StartDate, &c.EndDate,
		&mask, &startTime, &endTime, &c.MaxCapacity, &c.Occupied, &c.Status,
		&c.MemberPrice, &c.NonMemberPrice, &c.StaffID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Days = schedule.WeekdaySet(mask)
	if c.StartTime, err = schedule.ParseTimeOfDay(startTime); err != nil {
		return nil, fmt.Errorf("class %d start_time: %w", c.ID, err)
	}
	if c.EndTime, err = schedule.ParseTimeOfDay(endTime); err != nil {
		return nil, fmt.Errorf("class %d end_time: %w", c.ID, err)
	}
	return c, nil
}

// GetByID retrieves a class by its ID.
func (r *ClassRepository) GetByID(ctx context.Context, id int) (*model.Class, error) {
	return scanClass(r.pool.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE id = $1`, id))
}

// GetForUpdateTx locks and retrieves a class row inside a transaction.
// The row lock serializes all seat accounting for the class.
func (r *ClassRepository) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id int) (*model.Class, error) {
	return scanClass(tx.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE id = $1 FOR UPDATE`, id))
}

// ListOpen retrieves all classes available for browsing. Inactive classes
// are excluded but retained in the table for history.
func (r *ClassRepository) ListOpen(ctx context.Context) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+` FROM classes WHERE status = $1 ORDER BY start_date, start_time, id`,
		model.ClassStatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

// ListOpenByRoom retrieves the open classes scheduled in a room, for the
// room-conflict check at class creation.
func (r *ClassRepository) ListOpenByRoom(ctx context.Context, roomNumber int) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+` FROM classes WHERE room_number = $1 AND status = $2`,
		roomNumber, model.ClassStatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

// Create inserts a new class with zero occupied seats.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO classes (name, description, room_number, start_date, end_date,
			weekday_mask, start_time, end_time, max_capacity, status,
			member_price, non_member_price, staff_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, occupied, created_at, updated_at`,
		c.Name, c.Description, c.RoomNumber, c.StartDate, c.EndDate,
		int16(c.Days), c.StartTime.String(), c.EndTime.String(), c.MaxCapacity,
		model.ClassStatusOpen, c.MemberPrice, c.NonMemberPrice, c.StaffID,
	).Scan(&c.ID, &c.Occupied, &c.CreatedAt, &c.UpdatedAt)
}

// ReserveSeatTx atomically takes one seat if the class is open and not
// full. Returns false when no seat was available.
func (r *ClassRepository) ReserveSeatTx(ctx context.Context, tx pgx.Tx, id int) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE classes SET occupied = occupied + 1, updated_at = NOW()
		 WHERE id = $1 AND status = $2 AND occupied < max_capacity`,
		id, model.ClassStatusOpen)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ReleaseSeatTx returns one seat, floored at zero.
func (r *ClassRepository) ReleaseSeatTx(ctx context.Context, tx pgx.Tx, id int) error {
	_, err := tx.Exec(ctx,
		`UPDATE classes SET occupied = occupied - 1, updated_at = NOW()
		 WHERE id = $1 AND occupied > 0`, id)
	return err
}

// DeactivateTx marks the class inactive and zeroes its seat counter. The
// caller voids the class's registrations in the same transaction.
func (r *ClassRepository) DeactivateTx(ctx context.Context, tx pgx.Tx, id int) error {
	_, err := tx.Exec(ctx,
		`UPDATE classes SET status = $1, occupied = 0, updated_at = NOW() WHERE id = $2`,
		model.ClassStatusInactive, id)
	return err
}

// RepairSeatCounts resyncs every open class's occupied counter with the
// live registration count, returning how many rows drifted. The ledger is
// authoritative under normal operation; this catches operator edits and
// partial restores.
func (r *ClassRepository) RepairSeatCounts(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes c
		 SET occupied = live.n, updated_at = NOW()
		 FROM (
			SELECT c2.id, COUNT(r.id) AS n
			FROM classes c2
			LEFT JOIN registrations r ON r.class_id = c2.id
			WHERE c2.status = $1
			GROUP BY c2.id
		 ) live
		 WHERE c.id = live.id AND c.occupied <> live.n`,
		model.ClassStatusOpen)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Reactivate reopens an inactive class. Prior registrations and capacity
// are not restored. Returns false when the class was not inactive.
func (r *ClassRepository) Reactivate(ctx context.Context, id int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classes SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		model.ClassStatusOpen, id, model.ClassStatusInactive)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
