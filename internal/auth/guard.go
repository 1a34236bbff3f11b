package auth

import (
	"github.com/spec-kit/crm-dashboard/internal/domain"
)

// LoginPath is where unauthenticated navigation is sent.
const LoginPath = "/login"

// Action is the outcome of a guard decision.
type Action int

const (
	// ActionRender lets the protected view render.
	ActionRender Action = iota
	// ActionWait shows a neutral placeholder while the session is loading.
	ActionWait
	// ActionRedirect sends the caller to Decision.Location.
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionRender:
		return "render"
	case ActionWait:
		return "wait"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the guard verdict for one navigation.
type Decision struct {
	Action   Action
	Location string
}

// RoleSet is the set of roles allowed into a protected subtree.
type RoleSet map[domain.Role]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...domain.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s RoleSet) Has(role domain.Role) bool {
	_, ok := s[role]
	return ok
}

// Authorize decides whether a navigation into a subtree requiring one of
// required may render. It has no state of its own and must be re-run
// whenever the auth state changes.
func Authorize(state domain.AuthState, required RoleSet) Decision {
	if state.Loading {
		return Decision{Action: ActionWait}
	}
	if !state.IsAuthenticated() {
		return Decision{Action: ActionRedirect, Location: LoginPath}
	}

	role := state.Session.Role
	if !required.Has(role) {
		home := role.HomePath()
		if home == "" {
			home = LoginPath
		}
		return Decision{Action: ActionRedirect, Location: home}
	}
	return Decision{Action: ActionRender}
}
