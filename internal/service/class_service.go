package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lakeshorecc/classreg-backend/internal/config"
	"github.com/lakeshorecc/classreg-backend/internal/model"
	"github.com/lakeshorecc/classreg-backend/internal/repository"
	"github.com/lakeshorecc/classreg-backend/internal/schedule"
)

// browseCacheTTL bounds staleness of the cached class listing. Seat counts
// shown while browsing are advisory; the engine rechecks at registration.
const browseCacheTTL = 30 * time.Second

// ClassService handles class scheduling: creation with room-conflict
// checks, the browse surface, and the deactivation cascade.
type ClassService struct {
	pool    *pgxpool.Pool
	rdb     *redis.Client
	classes *repository.ClassRepository
	regs    *repository.RegistrationRepository
	cancels *repository.CancellationRepository
	logger  zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(pool *pgxpool.Pool, rdb *redis.Client,
	classes *repository.ClassRepository, regs *repository.RegistrationRepository,
	cancels *repository.CancellationRepository, logger zerolog.Logger) *ClassService {
	return &ClassService{
		pool:    pool,
		rdb:     rdb,
		classes: classes,
		regs:    regs,
		cancels: cancels,
		logger:  logger.With().Str("component", "class_service").Logger(),
	}
}

// Create validates the recurrence and the room booking, then inserts the
// class with an empty seat ledger.
func (s *ClassService) Create(ctx context.Context, staffID int, req *model.CreateClassRequest) (*model.Class, error) {
	class, err := req.ToClass(staffID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClassPayload, err)
	}

	rec := class.Recurrence()
	if err := rec.Validate(time.Now()); err != nil {
		return nil, err
	}

	booked, err := s.classes.ListOpenByRoom(ctx, class.RoomNumber)
	if err != nil {
		return nil, fmt.Errorf("list room classes: %w", err)
	}
	for _, other := range booked {
		if schedule.RoomConflict(rec, other.Recurrence()) {
			return nil, ErrRoomConflict
		}
	}

	if err := s.classes.Create(ctx, class); err != nil {
		return nil, fmt.Errorf("insert class: %w", err)
	}
	s.invalidateBrowseCache(ctx)

	s.logger.Info().
		Int("class_id", class.ID).
		Int("room", class.RoomNumber).
		Str("days", fmt.Sprintf("%v", class.Days.Names())).
		Msg("class created")
	return class, nil
}

// GetByID retrieves an open class. Inactive classes are reported as not
// found on the registrant surface.
func (s *ClassService) GetByID(ctx context.Context, id int) (*model.Class, error) {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	if class.Status != model.ClassStatusOpen {
		return nil, ErrClassNotFound
	}
	return class, nil
}

// GetAnyByID retrieves a class regardless of status, for staff surfaces.
func (s *ClassService) GetAnyByID(ctx context.Context, id int) (*model.Class, error) {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return class, nil
}

// Browse lists open classes through a short-lived Redis cache.
func (s *ClassService) Browse(ctx context.Context) ([]model.Class, error) {
	key := config.CacheKey.ClassBrowseKey()

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var classes []model.Class
		if err := json.Unmarshal([]byte(cached), &classes); err == nil {
			return classes, nil
		}
		// Unreadable cache entry, fall through to the database.
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn().Err(err).Msg("browse cache read failed")
	}

	classes, err := s.classes.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	if classes == nil {
		classes = []model.Class{}
	}

	if payload, err := json.Marshal(classes); err == nil {
		if err := s.rdb.Set(ctx, key, payload, browseCacheTTL).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("browse cache write failed")
		}
	}
	return classes, nil
}

func (s *ClassService) invalidateBrowseCache(ctx context.Context) {
	if err := s.rdb.Del(ctx, config.CacheKey.ClassBrowseKey()).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("browse cache invalidation failed")
	}
}

// Deactivate closes a class: one transaction writes a cancellation notice
// per displaced registrant, voids every registration, marks the class
// inactive and zeroes its seat counter.
func (s *ClassService) Deactivate(ctx context.Context, classID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	class, err := s.classes.GetForUpdateTx(ctx, tx, classID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrClassNotFound
		}
		return fmt.Errorf("lock class: %w", err)
	}
	if class.Status != model.ClassStatusOpen {
		return ErrAlreadyClosed
	}

	voided, err := voidClassRegistrations(ctx, tx, s.regs, s.cancels,
		class.ID, class.Name, time.Now())
	if err != nil {
		return fmt.Errorf("void registrations: %w", err)
	}
	if err := s.classes.DeactivateTx(ctx, tx, class.ID); err != nil {
		return fmt.Errorf("deactivate class: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.invalidateBrowseCache(ctx)

	s.logger.Info().
		Int("class_id", class.ID).
		Int64("voided_registrations", voided).
		Msg("class deactivated")
	return nil
}

// Reactivate reopens an inactive class with an empty roster. Registrations
// voided at deactivation stay voided.
func (s *ClassService) Reactivate(ctx context.Context, classID int) error {
	reopened, err := s.classes.Reactivate(ctx, classID)
	if err != nil {
		return fmt.Errorf("reactivate class: %w", err)
	}
	if !reopened {
		if _, err := s.classes.GetByID(ctx, classID); errors.Is(err, pgx.ErrNoRows) {
			return ErrClassNotFound
		}
		return ErrClassAlreadyOpen
	}
	s.invalidateBrowseCache(ctx)

	s.logger.Info().Int("class_id", classID).Msg("class reactivated")
	return nil
}

// Occupancy is the live seat snapshot pushed to the staff monitor.
type Occupancy struct {
	ClassID     int               `json:"class_id"`
	Name        string            `json:"name"`
	Occupied    int               `json:"occupied"`
	MaxCapacity int               `json:"max_capacity"`
	Remaining   int               `json:"remaining"`
	Status      model.ClassStatus `json:"status"`
}

// GetOccupancy reads the current seat state of a class.
func (s *ClassService) GetOccupancy(ctx context.Context, classID int) (*Occupancy, error) {
	class, err := s.GetAnyByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	return &Occupancy{
		ClassID:     class.ID,
		Name:        class.Name,
		Occupied:    class.Occupied,
		MaxCapacity: class.MaxCapacity,
		Remaining:   class.Remaining(),
		Status:      class.Status,
	}, nil
}
