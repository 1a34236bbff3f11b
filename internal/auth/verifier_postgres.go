package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/crm-dashboard/internal/domain"
	"github.com/spec-kit/crm-dashboard/internal/repository"
)

// PostgresVerifier checks logins against bcrypt hashes stored per role.
type PostgresVerifier struct {
	credentials repository.CredentialRepository
}

// NewPostgresVerifier builds a verifier backed by the credential repository.
func NewPostgresVerifier(credentials repository.CredentialRepository) *PostgresVerifier {
	return &PostgresVerifier{credentials: credentials}
}

// Verify implements Verifier.
func (v *PostgresVerifier) Verify(ctx context.Context, email, password string, role domain.Role) (domain.Session, error) {
	rec, err := v.credentials.GetByRole(ctx, role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, fmt.Errorf("lookup credential: %w", err)
	}
	if rec.Email != email {
		return domain.Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return domain.Session{}, ErrInvalidCredentials
	}
	return rec.Session(), nil
}

// SeedCredentials stores each identity with password hashed at cost.
func SeedCredentials(ctx context.Context, repo repository.CredentialRepository, identities []domain.Session, password string, cost int) error {
	if password == "" {
		return errors.New("seed password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	for _, identity := range identities {
		rec := &repository.CredentialRecord{
			ID:           identity.ID,
			Name:         identity.Name,
			Email:        identity.Email,
			Role:         identity.Role,
			PasswordHash: string(hash),
		}
		if err := repo.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("seed %s credential: %w", identity.Role, err)
		}
	}
	return nil
}
