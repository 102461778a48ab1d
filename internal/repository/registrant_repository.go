package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lakeshorecc/classreg-backend/internal/model"
)

// RegistrantRepository handles member and non-member accounts, plus the
// kind-polymorphic lookups the registration engine needs.
type RegistrantRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrantRepository creates a new RegistrantRepository.
func NewRegistrantRepository(pool *pgxpool.Pool) *RegistrantRepository {
	return &RegistrantRepository{pool: pool}
}

const memberColumns = `id, first_name, last_name, email, password_hash,
	birthday, phone, status, is_staff, created_at, updated_at`

const nonMemberColumns = `id, first_name, last_name, email, password_hash,
	birthday, phone, status, created_at, updated_at`

func scanMember(row pgx.Row) (*model.Member, error) {
	m := &model.Member{}
	err := row.Scan(
		&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.PasswordHash,
		&m.Birthday, &m.Phone, &m.Status, &m.IsStaff, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func scanNonMember(row pgx.Row) (*model.NonMember, error) {
	n := &model.NonMember{}
	err := row.Scan(
		&n.ID, &n.FirstName, &n.LastName, &n.Email, &n.PasswordHash,
		&n.Birthday, &n.Phone, &n.Status, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// GetMemberByID retrieves a member by ID.
func (r *RegistrantRepository) GetMemberByID(ctx context.Context, id int) (*model.Member, error) {
	return scanMember(r.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1`, id))
}

// GetMemberByEmail retrieves a member by email.
func (r *RegistrantRepository) GetMemberByEmail(ctx context.Context, email string) (*model.Member, error) {
	return scanMember(r.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE email = $1`, email))
}

// GetNonMemberByID retrieves a non-member by ID.
func (r *RegistrantRepository) GetNonMemberByID(ctx context.Context, id int) (*model.NonMember, error) {
	return scanNonMember(r.pool.QueryRow(ctx,
		`SELECT `+nonMemberColumns+` FROM non_members WHERE id = $1`, id))
}

// GetNonMemberByEmail retrieves a non-member by email.
func (r *RegistrantRepository) GetNonMemberByEmail(ctx context.Context, email string) (*model.NonMember, error) {
	return scanNonMember(r.pool.QueryRow(ctx,
		`SELECT `+nonMemberColumns+` FROM non_members WHERE email = $1`, email))
}

// CreateMember inserts a new member account.
func (r *RegistrantRepository) CreateMember(ctx context.Context, m *model.Member) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO members (first_name, last_name, email, password_hash, birthday, phone, status, is_staff)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		m.FirstName, m.LastName, m.Email, m.PasswordHash, m.Birthday, m.Phone,
		model.StatusActive, m.IsStaff,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// CreateNonMember inserts a new non-member account.
func (r *RegistrantRepository) CreateNonMember(ctx context.Context, n *model.NonMember) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO non_members (first_name, last_name, email, password_hash, birthday, phone, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		n.FirstName, n.LastName, n.Email, n.PasswordHash, n.Birthday, n.Phone,
		model.StatusActive,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
}

// StatusTx resolves the account status of any registrant kind inside a
// transaction. Dependents have no account lifecycle: an existing dependent
// reports ACTIVE, because its family owner answers for it.
func (r *RegistrantRepository) StatusTx(ctx context.Context, tx pgx.Tx, ref model.RegistrantRef) (model.AccountStatus, error) {
	switch ref.Kind {
	case model.KindMember:
		var status model.AccountStatus
		err := tx.QueryRow(ctx, `SELECT status FROM members WHERE id = $1`, ref.ID).Scan(&status)
		return status, err
	case model.KindNonMember:
		var status model.AccountStatus
		err := tx.QueryRow(ctx, `SELECT status FROM non_members WHERE id = $1`, ref.ID).Scan(&status)
		return status, err
	case model.KindDependent:
		var id int
		err := tx.QueryRow(ctx, `SELECT id FROM dependents WHERE id = $1`, ref.ID).Scan(&id)
		return model.StatusActive, err
	}
	return "", fmt.Errorf("unknown registrant kind %q", ref.Kind)
}

// LockTx takes a transaction-scoped advisory lock on the registrant. The
// registration engine acquires it before its conflict check, which reads
// class rows the transaction does not otherwise lock. Released when the
// transaction ends.
func (r *RegistrantRepository) LockTx(ctx context.Context, tx pgx.Tx, ref model.RegistrantRef) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`,
		advisoryKindKey(ref.Kind), int32(ref.ID))
	return err
}

// advisoryKindKey spreads the registrant kinds over the first int4 key of
// the advisory lock pair, so a member and a dependent with the same ID
// never contend.
func advisoryKindKey(kind model.RegistrantKind) int32 {
	switch kind {
	case model.KindMember:
		return 1
	case model.KindNonMember:
		return 2
	default:
		return 3
	}
}

// SetStatusTx updates a member or non-member account status. Returns false
// when no such account exists.
func (r *RegistrantRepository) SetStatusTx(ctx context.Context, tx pgx.Tx, ref model.RegistrantRef, status model.AccountStatus) (bool, error) {
	var table string
	switch ref.Kind {
	case model.KindMember:
		table = "members"
	case model.KindNonMember:
		table = "non_members"
	default:
		return false, fmt.Errorf("kind %q has no account status", ref.Kind)
	}
	tag, err := tx.Exec(ctx,
		`UPDATE `+table+` SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, ref.ID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
