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

// FamilyService handles the family hierarchy. Every mutating operation is
// gated on the caller owning the family; registration of dependents is
// delegated to the RegistrationService with the dependent's own identity.
type FamilyService struct {
	pool        *pgxpool.Pool
	families    *repository.FamilyRepository
	registrants *repository.RegistrantRepository
	classes     *repository.ClassRepository
	regs        *repository.RegistrationRepository
	cancels     *repository.CancellationRepository
	logger      zerolog.Logger
}

// NewFamilyService creates a new FamilyService.
func NewFamilyService(pool *pgxpool.Pool, families *repository.FamilyRepository,
	registrants *repository.RegistrantRepository, classes *repository.ClassRepository,
	regs *repository.RegistrationRepository, cancels *repository.CancellationRepository,
	logger zerolog.Logger) *FamilyService {
	return &FamilyService{
		pool:        pool,
		families:    families,
		registrants: registrants,
		classes:     classes,
		regs:        regs,
		cancels:     cancels,
		logger:      logger.With().Str("component", "family_service").Logger(),
	}
}

// Create opens a family owned by the calling member. A member belongs to
// at most one family at a time.
func (s *FamilyService) Create(ctx context.Context, ownerID int) (*model.Family, error) {
	_, err := s.families.GetByMember(ctx, ownerID)
	if err == nil {
		return nil, ErrFamilyExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lookup family: %w", err)
	}

	family, err := s.families.Create(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("create family: %w", err)
	}
	s.logger.Info().Int("family_id", family.ID).Int("owner_id", ownerID).Msg("family created")
	return family, nil
}

// GetMine retrieves the calling member's family with its members and
// dependents.
func (s *FamilyService) GetMine(ctx context.Context, memberID int) (*model.FamilyDetail, error) {
	family, err := s.families.GetByMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFamilyNotFound
		}
		return nil, fmt.Errorf("lookup family: %w", err)
	}

	members, err := s.families.ListMembers(ctx, family.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	dependents, err := s.families.ListDependents(ctx, family.ID)
	if err != nil {
		return nil, fmt.Errorf("list dependents: %w", err)
	}
	if members == nil {
		members = []model.Member{}
	}
	if dependents == nil {
		dependents = []model.Dependent{}
	}
	return &model.FamilyDetail{Family: *family, Members: members, Dependents: dependents}, nil
}

// ownedFamily resolves the caller's family and verifies ownership.
func (s *FamilyService) ownedFamily(ctx context.Context, callerID int) (*model.Family, error) {
	family, err := s.families.GetByMember(ctx, callerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFamilyNotFound
		}
		return nil, fmt.Errorf("lookup family: %w", err)
	}
	if family.OwnerID != callerID {
		return nil, ErrNotFamilyOwner
	}
	return family, nil
}

// AddMember links an existing member account, found by email, to the
// caller's family.
func (s *FamilyService) AddMember(ctx context.Context, callerID int, email string) (*model.Member, error) {
	family, err := s.ownedFamily(ctx, callerID)
	if err != nil {
		return nil, err
	}

	member, err := s.registrants.GetMemberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRegistrantNotFound
		}
		return nil, fmt.Errorf("lookup member: %w", err)
	}

	if _, err := s.families.GetByMember(ctx, member.ID); err == nil {
		return nil, ErrAlreadyInFamily
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("lookup member family: %w", err)
	}

	if err := s.families.AddMember(ctx, family.ID, member.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyInFamily
		}
		return nil, fmt.Errorf("link member: %w", err)
	}

	s.logger.Info().
		Int("family_id", family.ID).
		Int("member_id", member.ID).
		Msg("family member added")
	return member, nil
}

// RemoveMember unlinks a non-owner member from the caller's family. The
// removed member keeps their account and their own registrations.
func (s *FamilyService) RemoveMember(ctx context.Context, callerID, memberID int) error {
	family, err := s.ownedFamily(ctx, callerID)
	if err != nil {
		return err
	}
	if memberID == family.OwnerID {
		return ErrOwnerRemoval
	}

	removed, err := s.families.RemoveMember(ctx, family.ID, memberID)
	if err != nil {
		return fmt.Errorf("unlink member: %w", err)
	}
	if !removed {
		return ErrRegistrantNotFound
	}

	s.logger.Info().
		Int("family_id", family.ID).
		Int("member_id", memberID).
		Msg("family member removed")
	return nil
}

// AddDependent creates a dependent under the caller's family. The
// dependent must be 18 or younger on the day they are added.
func (s *FamilyService) AddDependent(ctx context.Context, callerID int, req *model.AddDependentRequest) (*model.Dependent, error) {
	family, err := s.ownedFamily(ctx, callerID)
	if err != nil {
		return nil, err
	}

	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		return nil, fmt.Errorf("birthday: %w", err)
	}
	dep := &model.Dependent{
		FamilyID:  family.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Birthday:  birthday,
	}
	if dep.AgeOn(time.Now()) > model.DependentMaxAge {
		return nil, ErrDependentTooOld
	}

	if err := s.families.AddDependent(ctx, dep); err != nil {
		return nil, fmt.Errorf("insert dependent: %w", err)
	}

	s.logger.Info().
		Int("family_id", family.ID).
		Int("dependent_id", dep.ID).
		Msg("dependent added")
	return dep, nil
}

// RemoveDependent deletes a dependent from the caller's family, voiding
// the dependent's registrations and releasing their seats. No notices are
// written; the removal is the owner's own action.
func (s *FamilyService) RemoveDependent(ctx context.Context, callerID, dependentID int) error {
	family, err := s.ownedFamily(ctx, callerID)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	dep, err := s.families.GetDependent(ctx, dependentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDependentNotFound
		}
		return fmt.Errorf("lookup dependent: %w", err)
	}
	if dep.FamilyID != family.ID {
		return ErrDependentNotFound
	}

	ref := model.RegistrantRef{Kind: model.KindDependent, ID: dep.ID}
	if _, err := voidRegistrantRegistrations(ctx, tx,
		s.classes, s.regs, s.cancels, ref, false, time.Now()); err != nil {
		return fmt.Errorf("void registrations: %w", err)
	}
	if _, err := s.families.RemoveDependentTx(ctx, tx, dep.ID); err != nil {
		return fmt.Errorf("delete dependent: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Info().
		Int("family_id", family.ID).
		Int("dependent_id", dep.ID).
		Msg("dependent removed")
	return nil
}

// ResolveDependent verifies the caller owns the dependent's family and
// returns the dependent's registrant reference, for the owner-driven
// register and unregister paths.
func (s *FamilyService) ResolveDependent(ctx context.Context, callerID, dependentID int) (model.RegistrantRef, error) {
	var ref model.RegistrantRef

	family, err := s.ownedFamily(ctx, callerID)
	if err != nil {
		return ref, err
	}
	dep, err := s.families.GetDependent(ctx, dependentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ref, ErrDependentNotFound
		}
		return ref, fmt.Errorf("lookup dependent: %w", err)
	}
	if dep.FamilyID != family.ID {
		return ref, ErrDependentNotFound
	}
	return model.RegistrantRef{Kind: model.KindDependent, ID: dep.ID}, nil
}

// Delete removes the caller's whole family: every dependent's
// registrations are voided with seats released, then dependents, member
// links and the family row are deleted in the same transaction.
func (s *FamilyService) Delete(ctx context.Context, callerID int) error {
	family, err := s.ownedFamily(ctx, callerID)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	dependents, err := s.families.ListDependentsTx(ctx, tx, family.ID)
	if err != nil {
		return fmt.Errorf("list dependents: %w", err)
	}
	for _, dep := range dependents {
		ref := model.RegistrantRef{Kind: model.KindDependent, ID: dep.ID}
		if _, err := voidRegistrantRegistrations(ctx, tx,
			s.classes, s.regs, s.cancels, ref, false, time.Now()); err != nil {
			return fmt.Errorf("void dependent %d registrations: %w", dep.ID, err)
		}
	}
	if err := s.families.DeleteTx(ctx, tx, family.ID); err != nil {
		return fmt.Errorf("delete family: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Info().
		Int("family_id", family.ID).
		Int("dependents_removed", len(dependents)).
		Msg("family deleted")
	return nil
}
