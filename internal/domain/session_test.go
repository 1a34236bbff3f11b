package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_HomePath(t *testing.T) {
	for _, role := range Roles() {
		assert.True(t, role.Valid())
		assert.Equal(t, "/"+string(role), role.HomePath())
	}
	assert.False(t, Role("owner").Valid())
	assert.Empty(t, Role("owner").HomePath())
	assert.Empty(t, Role("").HomePath())
}

func TestSession_Valid(t *testing.T) {
	assert.True(t, Session{ID: "1", Role: RoleAdmin}.Valid())
	assert.False(t, Session{Role: RoleAdmin}.Valid())
	assert.False(t, Session{ID: "1", Role: "owner"}.Valid())
}

func TestAuthState_Status(t *testing.T) {
	session := &Session{ID: "2", Role: RoleStaff}

	assert.Equal(t, AuthStatusInitializing, AuthState{Loading: true}.Status())
	assert.Equal(t, AuthStatusUnauthenticated, NewAuthState(nil, false, "").Status())
	assert.Equal(t, AuthStatusAuthenticated, NewAuthState(session, false, "").Status())

	state := NewAuthState(session, true, "")
	assert.True(t, state.IsAuthenticated())

	dropped := state.WithoutSession()
	assert.False(t, dropped.IsAuthenticated())
	assert.Equal(t, AuthStatusUnauthenticated, dropped.Status())
	assert.True(t, state.IsAuthenticated())
}
