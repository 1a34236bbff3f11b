package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/crm-dashboard/internal/domain"
	"github.com/spec-kit/crm-dashboard/internal/repository"
)

func TestStaticVerifier_EveryRoleWithAnyPassword(t *testing.T) {
	v := NewStaticVerifier(DefaultCredentials(), 0)
	for _, cred := range DefaultCredentials() {
		session, err := v.Verify(context.Background(), cred.Email, "anything", cred.Role)
		require.NoError(t, err, cred.Role)
		assert.Equal(t, cred, session)
	}
}

func TestStaticVerifier_Mismatches(t *testing.T) {
	v := NewStaticVerifier(DefaultCredentials(), 0)

	tests := []struct {
		name  string
		email string
		role  domain.Role
	}{
		{"email of other role", "staff@example.com", domain.RoleAdmin},
		{"unknown email", "nobody@example.com", domain.RoleBrand},
		{"unknown role", "admin@example.com", domain.Role("owner")},
		{"case differs", "Admin@example.com", domain.RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.email, "x", tt.role)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestStaticVerifier_WaitsForDelay(t *testing.T) {
	v := NewStaticVerifier(DefaultCredentials(), 30*time.Millisecond)

	start := time.Now()
	_, err := v.Verify(context.Background(), "admin@example.com", "x", domain.RoleAdmin)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestStaticVerifier_HonoursCancellation(t *testing.T) {
	v := NewStaticVerifier(DefaultCredentials(), time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Verify(ctx, "admin@example.com", "x", domain.RoleAdmin)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadCredentialsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	content := `credentials:
  - id: "10"
    name: Ops Admin
    email: ops@acme.test
    role: admin
  - id: "20"
    name: Acme Brand
    email: brand@acme.test
    role: brand
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	creds, err := LoadCredentialsFile(path)
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.Equal(t, domain.Session{ID: "10", Name: "Ops Admin", Email: "ops@acme.test", Role: domain.RoleAdmin}, creds[0])

	v := NewStaticVerifier(creds, 0)
	_, err = v.Verify(context.Background(), "ops@acme.test", "pw", domain.RoleAdmin)
	assert.NoError(t, err)
	_, err = v.Verify(context.Background(), "staff@example.com", "pw", domain.RoleStaff)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoadCredentialsFile_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":       "credentials: [",
		"unknown role":   "credentials:\n  - {id: '1', email: a@b.c, role: owner}\n",
		"missing email":  "credentials:\n  - {id: '1', role: admin}\n",
		"duplicate role": "credentials:\n  - {id: '1', email: a@b.c, role: admin}\n  - {id: '2', email: d@e.f, role: admin}\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
			_, err := LoadCredentialsFile(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadCredentialsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

type fakeCredentialRepo struct {
	records map[domain.Role]*repository.CredentialRecord
	err     error
}

func (f *fakeCredentialRepo) GetByRole(_ context.Context, role domain.Role) (*repository.CredentialRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[role]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return rec, nil
}

func (f *fakeCredentialRepo) Upsert(_ context.Context, record *repository.CredentialRecord) error {
	if f.err != nil {
		return f.err
	}
	if f.records == nil {
		f.records = map[domain.Role]*repository.CredentialRecord{}
	}
	f.records[record.Role] = record
	return nil
}

func TestPostgresVerifier(t *testing.T) {
	repo := &fakeCredentialRepo{}
	require.NoError(t, SeedCredentials(context.Background(), repo, DefaultCredentials(), "s3cret", bcrypt.MinCost))
	v := NewPostgresVerifier(repo)

	session, err := v.Verify(context.Background(), "staff@example.com", "s3cret", domain.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, domain.Session{ID: "2", Name: "Staff User", Email: "staff@example.com", Role: domain.RoleStaff}, session)

	_, err = v.Verify(context.Background(), "staff@example.com", "wrong", domain.RoleStaff)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = v.Verify(context.Background(), "admin@example.com", "s3cret", domain.RoleStaff)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	delete(repo.records, domain.RoleBrand)
	_, err = v.Verify(context.Background(), "brand@example.com", "s3cret", domain.RoleBrand)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPostgresVerifier_BackendFailure(t *testing.T) {
	boom := errors.New("connection reset")
	v := NewPostgresVerifier(&fakeCredentialRepo{err: boom})

	_, err := v.Verify(context.Background(), "admin@example.com", "x", domain.RoleAdmin)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestSeedCredentials_RequiresPassword(t *testing.T) {
	err := SeedCredentials(context.Background(), &fakeCredentialRepo{}, DefaultCredentials(), "", bcrypt.MinCost)
	assert.Error(t, err)
}
