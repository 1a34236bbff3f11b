package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-dashboard/internal/domain"
)

// CredentialRecord is the stored login identity for a role.
type CredentialRecord struct {
	ID           string
	Name         string
	Email        string
	Role         domain.Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session projects the record onto the public session identity.
func (r CredentialRecord) Session() domain.Session {
	return domain.Session{ID: r.ID, Name: r.Name, Email: r.Email, Role: r.Role}
}

// CredentialRepository defines persistence access for dashboard credentials.
type CredentialRepository interface {
	GetByRole(ctx context.Context, role domain.Role) (*CredentialRecord, error)
	Upsert(ctx context.Context, record *CredentialRecord) error
}

type credentialRepository struct {
	pool *pgxpool.Pool
}

// NewCredentialRepository returns a Postgres-backed implementation.
func NewCredentialRepository(pool *pgxpool.Pool) CredentialRepository {
	return &credentialRepository{pool: pool}
}

// GetByRole returns pgx.ErrNoRows when the role has no credential.
func (r *credentialRepository) GetByRole(ctx context.Context, role domain.Role) (*CredentialRecord, error) {
	const query = `
        SELECT id, name, email, role, password_hash, created_at, updated_at
        FROM dashboard_credentials WHERE role=$1`

	var record CredentialRecord
	if err := r.pool.QueryRow(ctx, query, role).Scan(
		&record.ID,
		&record.Name,
		&record.Email,
		&record.Role,
		&record.PasswordHash,
		&record.CreatedAt,
		&record.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert inserts the role's credential or replaces the existing one.
func (r *credentialRepository) Upsert(ctx context.Context, record *CredentialRecord) error {
	const query = `
        INSERT INTO dashboard_credentials (id, name, email, role, password_hash)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (role) DO UPDATE
        SET id=EXCLUDED.id, name=EXCLUDED.name, email=EXCLUDED.email,
            password_hash=EXCLUDED.password_hash, updated_at=NOW()
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		record.ID,
		record.Name,
		record.Email,
		record.Role,
		record.PasswordHash,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
}
