package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/crm-dashboard/internal/domain"
)

// ErrInvalidCredentials is returned when the role has no credential or the email does not match it.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier checks a login attempt and resolves the session it grants.
type Verifier interface {
	Verify(ctx context.Context, email, password string, role domain.Role) (domain.Session, error)
}

// StaticVerifier matches logins against a fixed in-memory table keyed by role.
// Any non-empty password is accepted.
type StaticVerifier struct {
	records map[domain.Role]domain.Session
	delay   time.Duration
}

// DefaultCredentials is the built-in demo account for each persona.
func DefaultCredentials() []domain.Session {
	return []domain.Session{
		{ID: "1", Name: "Admin User", Email: "admin@example.com", Role: domain.RoleAdmin},
		{ID: "2", Name: "Staff User", Email: "staff@example.com", Role: domain.RoleStaff},
		{ID: "3", Name: "Brand User", Email: "brand@example.com", Role: domain.RoleBrand},
	}
}

// NewStaticVerifier builds a verifier that waits delay before answering,
// standing in for the round-trip to a real authentication backend.
func NewStaticVerifier(records []domain.Session, delay time.Duration) *StaticVerifier {
	table := make(map[domain.Role]domain.Session, len(records))
	for _, rec := range records {
		table[rec.Role] = rec
	}
	return &StaticVerifier{records: table, delay: delay}
}

// Verify implements Verifier.
func (v *StaticVerifier) Verify(ctx context.Context, email, _ string, role domain.Role) (domain.Session, error) {
	if err := sleep(ctx, v.delay); err != nil {
		return domain.Session{}, err
	}

	rec, ok := v.records[role]
	if !ok || rec.Email != email {
		return domain.Session{}, ErrInvalidCredentials
	}
	return rec, nil
}

type credentialsFile struct {
	Credentials []struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
		Role  string `yaml:"role"`
	} `yaml:"credentials"`
}

// LoadCredentialsFile reads a YAML credential table. Each role may appear once.
func LoadCredentialsFile(path string) ([]domain.Session, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	var file credentialsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}

	seen := make(map[domain.Role]struct{}, len(file.Credentials))
	out := make([]domain.Session, 0, len(file.Credentials))
	for i, c := range file.Credentials {
		rec := domain.Session{ID: c.ID, Name: c.Name, Email: c.Email, Role: domain.Role(c.Role)}
		if !rec.Valid() || rec.Email == "" {
			return nil, fmt.Errorf("credentials[%d]: id, email and a known role are required", i)
		}
		if _, dup := seen[rec.Role]; dup {
			return nil, fmt.Errorf("credentials[%d]: role %s declared twice", i, rec.Role)
		}
		seen[rec.Role] = struct{}{}
		out = append(out, rec)
	}
	return out, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
