package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lakeshorecc/classreg-backend/internal/model"
)

// FamilyRepository handles families, their member links and dependents.
type FamilyRepository struct {
	pool *pgxpool.Pool
}

// NewFamilyRepository creates a new FamilyRepository.
func NewFamilyRepository(pool *pgxpool.Pool) *FamilyRepository {
	return &FamilyRepository{pool: pool}
}

// Create opens a family owned by the given member. The owner is also linked
// as the first family member.
func (r *FamilyRepository) Create(ctx context.Context, ownerID int) (*model.Family, error) {
	f := &model.Family{OwnerID: ownerID}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO families (owner_id) VALUES ($1) RETURNING id, created_at`,
		ownerID).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO family_members (family_id, member_id) VALUES ($1, $2)`,
		f.ID, ownerID)
	if err != nil {
		return nil, err
	}
	return f, tx.Commit(ctx)
}

// GetByMember retrieves the family a member belongs to, owned or joined.
func (r *FamilyRepository) GetByMember(ctx context.Context, memberID int) (*model.Family, error) {
	f := &model.Family{}
	err := r.pool.QueryRow(ctx,
		`SELECT f.id, f.owner_id, f.created_at
		 FROM families f
		 JOIN family_members fm ON fm.family_id = f.id
		 WHERE fm.member_id = $1`,
		memberID).Scan(&f.ID, &f.OwnerID, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListMembers retrieves the member accounts linked to a family.
func (r *FamilyRepository) ListMembers(ctx context.Context, familyID int) ([]model.Member, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.id, m.first_name, m.last_name, m.email, m.password_hash,
			m.birthday, m.phone, m.status, m.is_staff, m.created_at, m.updated_at
		 FROM family_members fm
		 JOIN members m ON m.id = fm.member_id
		 WHERE fm.family_id = $1
		 ORDER BY m.id`,
		familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

// AddMember links an existing member account to the family. A duplicate
// link surfaces as a pgconn unique-violation.
func (r *FamilyRepository) AddMember(ctx context.Context, familyID, memberID int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO family_members (family_id, member_id) VALUES ($1, $2)`,
		familyID, memberID)
	return err
}

// RemoveMember unlinks a member from the family. The member account itself
// is untouched. Returns false when the member was not linked.
func (r *FamilyRepository) RemoveMember(ctx context.Context, familyID, memberID int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM family_members WHERE family_id = $1 AND member_id = $2`,
		familyID, memberID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// AddDependent inserts a dependent under the family.
func (r *FamilyRepository) AddDependent(ctx context.Context, d *model.Dependent) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO dependents (family_id, first_name, last_name, birthday)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		d.FamilyID, d.FirstName, d.LastName, d.Birthday,
	).Scan(&d.ID, &d.CreatedAt)
}

// GetDependent retrieves a dependent by ID.
func (r *FamilyRepository) GetDependent(ctx context.Context, id int) (*model.Dependent, error) {
	d := &model.Dependent{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, family_id, first_name, last_name, birthday, created_at
		 FROM dependents WHERE id = $1`,
		id).Scan(&d.ID, &d.FamilyID, &d.FirstName, &d.LastName, &d.Birthday, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListDependents retrieves a family's dependents.
func (r *FamilyRepository) ListDependents(ctx context.Context, familyID int) ([]model.Dependent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, family_id, first_name, last_name, birthday, created_at
		 FROM dependents WHERE family_id = $1 ORDER BY id`,
		familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deps []model.Dependent
	for rows.Next() {
		var d model.Dependent
		err := rows.Scan(&d.ID, &d.FamilyID, &d.FirstName, &d.LastName, &d.Birthday, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

// ListDependentsTx is ListDependents inside a caller-owned transaction, for
// the family-deletion cascade.
func (r *FamilyRepository) ListDependentsTx(ctx context.Context, tx pgx.Tx, familyID int) ([]model.Dependent, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, family_id, first_name, last_name, birthday, created_at
		 FROM dependents WHERE family_id = $1 ORDER BY id`,
		familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deps []model.Dependent
	for rows.Next() {
		var d model.Dependent
		err := rows.Scan(&d.ID, &d.FamilyID, &d.FirstName, &d.LastName, &d.Birthday, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

// RemoveDependentTx deletes one dependent. The caller voids the dependent's
// registrations in the same transaction.
func (r *FamilyRepository) RemoveDependentTx(ctx context.Context, tx pgx.Tx, id int) (bool, error) {
	tag, err := tx.Exec(ctx, `DELETE FROM dependents WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteTx removes the family, its member links and its dependents. The
// caller has already voided every dependent registration.
func (r *FamilyRepository) DeleteTx(ctx context.Context, tx pgx.Tx, familyID int) error {
	if _, err := tx.Exec(ctx, `DELETE FROM dependents WHERE family_id = $1`, familyID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM family_members WHERE family_id = $1`, familyID); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `DELETE FROM families WHERE id = $1`, familyID)
	return err
}
