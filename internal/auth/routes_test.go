package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-dashboard/internal/domain"
)

func TestDefaultRouteAuthorization_IsValid(t *testing.T) {
	assert.NoError(t, DefaultRouteAuthorization().Validate())
}

func TestRouteAuthorization_Validate(t *testing.T) {
	tests := []struct {
		name    string
		table   RouteAuthorization
		wantErr string
	}{
		{
			name:    "empty role set",
			table:   RouteAuthorization{{Prefix: "/reports", Roles: NewRoleSet()}},
			wantErr: "empty",
		},
		{
			name:    "relative prefix",
			table:   RouteAuthorization{{Prefix: "admin", Roles: NewRoleSet(domain.RoleAdmin)}},
			wantErr: "must start with /",
		},
		{
			name: "duplicate prefix",
			table: RouteAuthorization{
				{Prefix: "/admin", Roles: NewRoleSet(domain.RoleAdmin)},
				{Prefix: "/admin", Roles: NewRoleSet(domain.RoleStaff)},
			},
			wantErr: "declared twice",
		},
		{
			name:    "unknown role",
			table:   RouteAuthorization{{Prefix: "/x", Roles: NewRoleSet("owner")}},
			wantErr: "unknown role",
		},
		{
			name:    "login protected",
			table:   RouteAuthorization{{Prefix: "/", Roles: NewRoleSet(domain.Roles()...)}},
			wantErr: "login path",
		},
		{
			name: "home loops",
			table: RouteAuthorization{
				{Prefix: "/admin", Roles: NewRoleSet(domain.RoleAdmin)},
				{Prefix: "/staff", Roles: NewRoleSet(domain.RoleAdmin)},
			},
			wantErr: "home /staff",
		},
		{
			name: "nested rule takes precedence",
			table: RouteAuthorization{
				{Prefix: "/brand", Roles: NewRoleSet(domain.RoleBrand)},
				{Prefix: "/brand/billing", Roles: NewRoleSet(domain.RoleAdmin)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRouteAuthorization_Match(t *testing.T) {
	table := RouteAuthorization{
		{Prefix: "/brand", Roles: NewRoleSet(domain.RoleBrand)},
		{Prefix: "/brand/billing", Roles: NewRoleSet(domain.RoleAdmin)},
	}

	rule, ok := table.Match("/brand/messages")
	require.True(t, ok)
	assert.Equal(t, "/brand", rule.Prefix)

	rule, ok = table.Match("/brand/billing/invoices")
	require.True(t, ok)
	assert.Equal(t, "/brand/billing", rule.Prefix)

	_, ok = table.Match("/brandnew")
	assert.False(t, ok)

	_, ok = table.Match(LoginPath)
	assert.False(t, ok)
}
