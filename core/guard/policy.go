package guard

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core/auth"
)

// Routes
const (
	RouteRoot      = "/"
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
	RouteMembers   = "/members"
	RouteProducts  = "/products"
	RoutePayments  = "/payments"
	RouteCharity   = "/charity"
	RouteInfo      = "/info"
	RouteProfile   = "/profile"
)

// Policy maps a protected route to the roles allowed to view it.
// An empty role set allows any authenticated principal.
type Policy map[string][]auth.Role

// DefaultPolicy is the dashboard route table.
func DefaultPolicy() Policy {
	return Policy{
		RouteDashboard: nil,
		RouteMembers:   auth.AdminRoles,
		RouteProducts:  nil,
		RoutePayments:  nil,
		RouteCharity:   nil,
		RouteInfo:      nil,
		RouteProfile:   nil,
	}
}

// ParsePolicy builds a Policy from its configuration form: {route: [role, ...]}.
func ParsePolicy(table map[string][]string) (Policy, error) {
	policy := make(Policy, len(table))
	for route, names := range table {
		route = NormalizeRoute(route)
		if route == RouteRoot || route == RouteLogin {
			return nil, errors.Errorf("route %q cannot be protected", route)
		}
		roles := make([]auth.Role, 0, len(names))
		for _, name := range names {
			role, err := auth.ParseRole(name)
			if err != nil {
				return nil, errors.Wrapf(err, "route %q", route)
			}
			if !role.In(roles) {
				roles = append(roles, role)
			}
		}
		policy[route] = roles
	}
	return policy, nil
}

// Merge returns a copy of p overridden by other.
func (p Policy) Merge(other Policy) Policy {
	merged := make(Policy, len(p)+len(other))
	for route, roles := range p {
		merged[route] = roles
	}
	for route, roles := range other {
		merged[route] = roles
	}
	return merged
}

// NormalizeRoute lowers route, makes it absolute and drops any trailing slash.
func NormalizeRoute(route string) string {
	route = strings.ToLower(strings.TrimSpace(route))
	route = "/" + strings.Trim(route, "/")
	return route
}
