package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/lakeshorecc/classreg-backend/internal/model"
	"github.com/lakeshorecc/classreg-backend/internal/repository"
	"github.com/lakeshorecc/classreg-backend/internal/schedule"
)

// RegistrationService runs the registration engine: every create or destroy
// moves the registry row and the class seat counter in one transaction.
type RegistrationService struct {
	pool        *pgxpool.Pool
	classes     *repository.ClassRepository
	registrants *repository.RegistrantRepository
	regs        *repository.RegistrationRepository
	logger      zerolog.Logger
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(pool *pgxpool.Pool, classes *repository.ClassRepository,
	registrants *repository.RegistrantRepository, regs *repository.RegistrationRepository,
	logger zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		pool:        pool,
		classes:     classes,
		registrants: registrants,
		regs:        regs,
		logger:      logger.With().Str("component", "registration_service").Logger(),
	}
}

// Register enrolls the registrant in a class. Checks run in a fixed order
// under the class row lock: existence, account status, duplicate, capacity,
// then schedule conflict. A full class reports capacity before any
// conflict it might also have.
func (s *RegistrationService) Register(ctx context.Context, ref model.RegistrantRef, classID int) (*model.Registration, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize per registrant: the conflict check reads registrations
	// against class rows this transaction does not lock, so two
	// simultaneous registrations for overlapping classes must not both
	// pass it. Taken before the class lock so every path orders
	// registrant first, class second.
	if err := s.registrants.LockTx(ctx, tx, ref); err != nil {
		return nil, fmt.Errorf("lock registrant: %w", err)
	}

	class, err := s.classes.GetForUpdateTx(ctx, tx, classID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("lock class: %w", err)
	}
	// Inactive classes are invisible to registrants.
	if class.Status != model.ClassStatusOpen {
		return nil, ErrClassNotFound
	}

	status, err := s.registrants.StatusTx(ctx, tx, ref)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRegistrantNotFound
		}
		return nil, fmt.Errorf("registrant status: %w", err)
	}
	if status != model.StatusActive {
		return nil, ErrRegistrantInactive
	}

	exists, err := s.regs.ExistsTx(ctx, tx, ref, classID)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	if class.Remaining() <= 0 {
		return nil, ErrCapacityExceeded
	}

	held, err := s.regs.ListSchedulesTx(ctx, tx, ref, classID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	target := class.Recurrence()
	for _, cs := range held {
		if schedule.Overlaps(target, cs.Recurrence) {
			return nil, ErrScheduleConflict
		}
	}

	reserved, err := s.classes.ReserveSeatTx(ctx, tx, classID)
	if err != nil {
		return nil, fmt.Errorf("reserve seat: %w", err)
	}
	if !reserved {
		return nil, ErrCapacityExceeded
	}

	reg := &model.Registration{Registrant: ref, ClassID: classID}
	if err := s.regs.InsertTx(ctx, tx, reg); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.logger.Info().
		Str("kind", string(ref.Kind)).
		Int("registrant_id", ref.ID).
		Int("class_id", classID).
		Int("occupied", class.Occupied+1).
		Msg("registration created")
	return reg, nil
}

// Unregister destroys the registrant's registration and releases the seat.
// A voluntary withdrawal writes no cancellation notice.
func (s *RegistrationService) Unregister(ctx context.Context, ref model.RegistrantRef, classID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the class row first so the seat release serializes with
	// concurrent registrations.
	if _, err := s.classes.GetForUpdateTx(ctx, tx, classID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("lock class: %w", err)
	}

	removed, err := s.regs.DeleteTx(ctx, tx, ref, classID)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if !removed {
		return ErrRegistrationNotFound
	}
	if err := s.classes.ReleaseSeatTx(ctx, tx, classID); err != nil {
		return fmt.Errorf("release seat: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Info().
		Str("kind", string(ref.Kind)).
		Int("registrant_id", ref.ID).
		Int("class_id", classID).
		Msg("registration destroyed")
	return nil
}

// ListMine retrieves the registrant's current schedule with class details.
func (s *RegistrationService) ListMine(ctx context.Context, ref model.RegistrantRef) ([]model.RegistrationDetail, error) {
	details, err := s.regs.ListDetailsByRegistrant(ctx, ref)
	if err != nil {
		return nil, err
	}
	if details == nil {
		details = []model.RegistrationDetail{}
	}
	return details, nil
}
