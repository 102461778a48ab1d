package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lakeshorecc/classreg-backend/internal/model"
	"github.com/lakeshorecc/classreg-backend/internal/schedule"
)

// ClassSchedule pairs a class identity with its recurrence pattern. It is
// the working set for conflict checks and cascade seat releases.
type ClassSchedule struct {
	ClassID    int
	ClassName  string
	Recurrence schedule.Recurrence
}

// RegistrationRepository handles the registration registry. Every write runs
// inside a caller-owned transaction so seat accounting and registry rows
// always move together.
type RegistrationRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepository creates a new RegistrationRepository.
func NewRegistrationRepository(pool *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: pool}
}

// InsertTx records a registration. A duplicate (kind, id, class) surfaces as
// a pgconn unique-violation for the caller to translate.
func (r *RegistrationRepository) InsertTx(ctx context.Context, tx pgx.Tx, reg *model.Registration) error {
	return tx.QueryRow(ctx,
		`INSERT INTO registrations (registrant_kind, registrant_id, class_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		reg.Registrant.Kind, reg.Registrant.ID, reg.ClassID,
	).Scan(&reg.ID, &reg.CreatedAt)
}

// DeleteTx removes one registration. Returns false when it did not exist.
func (r *RegistrationRepository) DeleteTx(ctx context.Context, tx pgx.Tx, ref model.RegistrantRef, classID int) (bool, error) {
	tag, err := tx.Exec(ctx,
		`DELETE FROM registrations
		 WHERE registrant_kind = $1 AND registrant_id = $2 AND class_id = $3`,
		ref.Kind, ref.ID, classID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ExistsTx reports whether the registrant already holds the class.
func (r *RegistrationRepository) ExistsTx(ctx context.Context, tx pgx.Tx, ref model.RegistrantRef, classID int) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE registrant_kind = $1 AND registrant_id = $2 AND class_id = $3
		 )`,
		ref.Kind, ref.ID, classID).Scan(&exists)
	return exists, err
}

func scanClassSchedules(rows pgx.Rows) ([]ClassSchedule, error) {
	defer rows.Close()

	var out []ClassSchedule
	for rows.Next() {
		var cs ClassSchedule
		var mask int16
		var startTime, endTime string
		err := rows.Scan(&cs.ClassID, &cs.ClassName,
			&cs.Recurrence.StartDate, &cs.Recurrence.EndDate,
			&mask, &startTime, &endTime)
		if err != nil {
			return nil, err
		}
		cs.Recurrence.Days = schedule.WeekdaySet(mask)
		if cs.Recurrence.Start, err = schedule.ParseTimeOfDay(startTime); err != nil {
			return nil, err
		}
		if cs.Recurrence.End, err = schedule.ParseTimeOfDay(endTime); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// ListSchedulesTx retrieves the schedules of every class the registrant
// currently holds, excluding the class under evaluation so a registrant
// never conflicts with itself.
func (r *RegistrationRepository) ListSchedulesTx(ctx context.Context, tx pgx.Tx, ref model.RegistrantRef, excludeClassID int) ([]ClassSchedule, error) {
	rows, err := tx.Query(ctx,
		`SELECT c.id, c.name, c.start_date, c.end_date, c.weekday_mask, c.start_time, c.end_time
		 FROM registrations r
		 JOIN classes c ON c.id = r.class_id
		 WHERE r.registrant_kind = $1 AND r.registrant_id = $2 AND r.class_id <> $3`,
		ref.Kind, ref.ID, excludeClassID)
	if err != nil {
		return nil, err
	}
	return scanClassSchedules(rows)
}

// ListHeldClassesTx retrieves the classes a registrant holds, for the
// deactivation cascade that voids them and releases their seats.
func (r *RegistrationRepository) ListHeldClassesTx(ctx context.Context, tx pgx.Tx, ref model.RegistrantRef) ([]ClassSchedule, error) {
	rows, err := tx.Query(ctx,
		`SELECT c.id, c.name, c.start_date, c.end_date, c.weekday_mask, c.start_time, c.end_time
		 FROM registrations r
		 JOIN classes c ON c.id = r.class_id
		 WHERE r.registrant_kind = $1 AND r.registrant_id = $2`,
		ref.Kind, ref.ID)
	if err != nil {
		return nil, err
	}
	return scanClassSchedules(rows)
}

// ListRegistrantsByClassTx retrieves every registrant holding the class, for
// the class-deactivation cascade.
func (r *RegistrationRepository) ListRegistrantsByClassTx(ctx context.Context, tx pgx.Tx, classID int) ([]model.RegistrantRef, error) {
	rows, err := tx.Query(ctx,
		`SELECT registrant_kind, registrant_id FROM registrations WHERE class_id = $1`,
		classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []model.RegistrantRef
	for rows.Next() {
		var ref model.RegistrantRef
		if err := rows.Scan(&ref.Kind, &ref.ID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// DeleteByClassTx voids every registration for a class.
func (r *RegistrationRepository) DeleteByClassTx(ctx context.Context, tx pgx.Tx, classID int) (int64, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM registrations WHERE class_id = $1`, classID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteByRegistrantTx voids every registration a registrant holds.
func (r *RegistrationRepository) DeleteByRegistrantTx(ctx context.Context, tx pgx.Tx, ref model.RegistrantRef) (int64, error) {
	tag, err := tx.Exec(ctx,
		`DELETE FROM registrations WHERE registrant_kind = $1 AND registrant_id = $2`,
		ref.Kind, ref.ID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListDetailsByRegistrant retrieves the registrant's schedule with class
// details, newest first.
func (r *RegistrationRepository) ListDetailsByRegistrant(ctx context.Context, ref model.RegistrantRef) ([]model.RegistrationDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.registrant_kind, r.registrant_id, r.class_id, r.created_at,
			c.name, c.room_number, c.start_date, c.end_date,
			c.weekday_mask, c.start_time, c.end_time
		 FROM registrations r
		 JOIN classes c ON c.id = r.class_id
		 WHERE r.registrant_kind = $1 AND r.registrant_id = $2
		 ORDER BY r.created_at DESC`,
		ref.Kind, ref.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RegistrationDetail
	for rows.Next() {
		var d model.RegistrationDetail
		var mask int16
		var startTime, endTime string
		err := rows.Scan(&d.ID, &d.Registrant.Kind, &d.Registrant.ID, &d.ClassID, &d.CreatedAt,
			&d.ClassName, &d.RoomNumber, &d.StartDate, &d.EndDate,
			&mask, &startTime, &endTime)
		if err != nil {
			return nil, err
		}
		d.Days = schedule.WeekdaySet(mask)
		if d.StartTime, err = schedule.ParseTimeOfDay(startTime); err != nil {
			return nil, err
		}
		if d.EndTime, err = schedule.ParseTimeOfDay(endTime); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
