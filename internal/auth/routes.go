package auth

import (
	"fmt"
	"strings"

	"github.com/spec-kit/crm-dashboard/internal/domain"
)

// RouteRule protects every path under Prefix with a role set.
type RouteRule struct {
	Prefix string
	Roles  RoleSet
}

// RouteAuthorization is the declarative prefix -> allowed roles table.
type RouteAuthorization []RouteRule

// DefaultRouteAuthorization gives each persona exclusive access to its own area.
func DefaultRouteAuthorization() RouteAuthorization {
	return RouteAuthorization{
		{Prefix: domain.RoleAdmin.HomePath(), Roles: NewRoleSet(domain.RoleAdmin)},
		{Prefix: domain.RoleStaff.HomePath(), Roles: NewRoleSet(domain.RoleStaff)},
		{Prefix: domain.RoleBrand.HomePath(), Roles: NewRoleSet(domain.RoleBrand)},
	}
}

// Match returns the most specific rule covering path.
func (a RouteAuthorization) Match(path string) (RouteRule, bool) {
	var (
		best  RouteRule
		found bool
	)
	for _, rule := range a {
		if !underPrefix(path, rule.Prefix) {
			continue
		}
		if !found || len(rule.Prefix) > len(best.Prefix) {
			best, found = rule, true
		}
	}
	return best, found
}

// Validate rejects tables whose redirects could loop: every rule needs at
// least one role, the login view must stay public, and each role's home
// must admit that role.
func (a RouteAuthorization) Validate() error {
	seen := make(map[string]struct{}, len(a))
	for _, rule := range a {
		if !strings.HasPrefix(rule.Prefix, "/") {
			return fmt.Errorf("route %q: prefix must start with /", rule.Prefix)
		}
		if _, dup := seen[rule.Prefix]; dup {
			return fmt.Errorf("route %q: declared twice", rule.Prefix)
		}
		seen[rule.Prefix] = struct{}{}
		if len(rule.Roles) == 0 {
			return fmt.Errorf("route %q: allowed role set is empty", rule.Prefix)
		}
		for role := range rule.Roles {
			if !role.Valid() {
				return fmt.Errorf("route %q: unknown role %q", rule.Prefix, role)
			}
		}
	}

	if rule, ok := a.Match(LoginPath); ok {
		return fmt.Errorf("login path %s is protected by route %q", LoginPath, rule.Prefix)
	}

	for _, role := range domain.Roles() {
		home := role.HomePath()
		rule, ok := a.Match(home)
		if !ok {
			continue
		}
		if !rule.Roles.Has(role) {
			return fmt.Errorf("home %s of role %s is guarded by route %q which does not admit it", home, role, rule.Prefix)
		}
	}
	return nil
}

func underPrefix(path, prefix string) bool {
	if prefix == "/" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
