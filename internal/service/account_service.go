package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/lakeshorecc/classreg-backend/internal/model"
	"github.com/lakeshorecc/classreg-backend/internal/repository"
)

// AccountService handles signup, profile reads and the staff-driven
// account lifecycle. Deactivating an account cascades into the
// registration registry.
type AccountService struct {
	pool        *pgxpool.Pool
	auth        *AuthService
	registrants *repository.RegistrantRepository
	classes     *repository.ClassRepository
	regs        *repository.RegistrationRepository
	cancels     *repository.CancellationRepository
	logger      zerolog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(pool *pgxpool.Pool, auth *AuthService,
	registrants *repository.RegistrantRepository, classes *repository.ClassRepository,
	regs *repository.RegistrationRepository, cancels *repository.CancellationRepository,
	logger zerolog.Logger) *AccountService {
	return &AccountService{
		pool:        pool,
		auth:        auth,
		registrants: registrants,
		classes:     classes,
		regs:        regs,
		cancels:     cancels,
		logger:      logger.With().Str("component", "account_service").Logger(),
	}
}

// Signup creates a member or non-member account. Emails are unique across
// both tables so login can resolve a single account per email.
func (s *AccountService) Signup(ctx context.Context, req *model.SignupRequest) (model.RegistrantRef, error) {
	var ref model.RegistrantRef

	if taken, err := s.emailInUse(ctx, req.Email); err != nil {
		return ref, err
	} else if taken {
		return ref, ErrEmailTaken
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return ref, fmt.Errorf("hash password: %w", err)
	}
	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		return ref, fmt.Errorf("birthday: %w", err)
	}

	switch model.RegistrantKind(req.Kind) {
	case model.KindMember:
		m := &model.Member{
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			PasswordHash: hash,
			Birthday:     birthday,
			Phone:        req.Phone,
		}
		if err := s.registrants.CreateMember(ctx, m); err != nil {
			return ref, translateSignupErr(err)
		}
		ref = model.RegistrantRef{Kind: model.KindMember, ID: m.ID}
	case model.KindNonMember:
		n := &model.NonMember{
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			PasswordHash: hash,
			Birthday:     birthday,
			Phone:        req.Phone,
		}
		if err := s.registrants.CreateNonMember(ctx, n); err != nil {
			return ref, translateSignupErr(err)
		}
		ref = model.RegistrantRef{Kind: model.KindNonMember, ID: n.ID}
	default:
		return ref, fmt.Errorf("unsupported signup kind %q", req.Kind)
	}

	s.logger.Info().
		Str("kind", string(ref.Kind)).
		Int("id", ref.ID).
		Msg("account created")
	return ref, nil
}

func (s *AccountService) emailInUse(ctx context.Context, email string) (bool, error) {
	if _, err := s.registrants.GetMemberByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}
	if _, err := s.registrants.GetNonMemberByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}
	return false, nil
}

func translateSignupErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return fmt.Errorf("insert account: %w", err)
}

// GetMember retrieves a member profile.
func (s *AccountService) GetMember(ctx context.Context, id int) (*model.Member, error) {
	m, err := s.registrants.GetMemberByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRegistrantNotFound
		}
		return nil, err
	}
	return m, nil
}

// GetNonMember retrieves a non-member profile.
func (s *AccountService) GetNonMember(ctx context.Context, id int) (*model.NonMember, error) {
	n, err := s.registrants.GetNonMemberByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRegistrantNotFound
		}
		return nil, err
	}
	return n, nil
}

// SetStatus flips a member or non-member account between ACTIVE and
// INACTIVE. Deactivation voids every registration the account holds,
// releases the seats, writes cancellation notices and kills the session.
// Reactivation restores nothing.
func (s *AccountService) SetStatus(ctx context.Context, ref model.RegistrantRef, status model.AccountStatus) error {
	if ref.Kind == model.KindDependent {
		return ErrKindHasNoStatus
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := s.registrants.StatusTx(ctx, tx, ref)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRegistrantNotFound
		}
		return fmt.Errorf("registrant status: %w", err)
	}
	if current == status {
		return ErrStatusUnchanged
	}

	if _, err := s.registrants.SetStatusTx(ctx, tx, ref, status); err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	var voided int64
	if status == model.StatusInactive {
		voided, err = voidRegistrantRegistrations(ctx, tx,
			s.classes, s.regs, s.cancels, ref, true, time.Now())
		if err != nil {
			return fmt.Errorf("void registrations: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if status == model.StatusInactive {
		if err := s.auth.Logout(ctx, ref); err != nil {
			s.logger.Warn().Err(err).
				Str("kind", string(ref.Kind)).
				Int("id", ref.ID).
				Msg("session teardown failed after deactivation")
		}
	}

	s.logger.Info().
		Str("kind", string(ref.Kind)).
		Int("id", ref.ID).
		Str("status", string(status)).
		Int64("voided_registrations", voided).
		Msg("account status changed")
	return nil
}
