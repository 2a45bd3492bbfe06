package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/koperasi/core/auth"
	"github.com/trezcool/koperasi/core/session"
	"github.com/trezcool/koperasi/tests"
)

func TestEvaluate(t *testing.T) {
	admins := []auth.Role{auth.RoleAdminCentral, auth.RoleAdminBranch}
	member := testutil.Principal(t, auth.RoleMember)
	central := testutil.Principal(t, auth.RoleAdminCentral)
	branch := testutil.Principal(t, auth.RoleAdminBranch)

	tests := []struct {
		name      string
		state     session.State
		principal *auth.Principal
		allowed   []auth.Role
		want      Decision
	}{
		{name: "loading", state: session.StateUnknown, allowed: admins, want: Decision{Kind: Defer}},
		{name: "loading, open route", state: session.StateUnknown, want: Decision{Kind: Defer}},
		{name: "unauthenticated", state: session.StateUnauthenticated, allowed: admins, want: Decision{Kind: Redirect, Target: RouteLogin}},
		{name: "unauthenticated, open route", state: session.StateUnauthenticated, want: Decision{Kind: Redirect, Target: RouteLogin}},
		{name: "member on admin route", state: session.StateAuthenticated, principal: &member, allowed: admins, want: Decision{Kind: Redirect, Target: RouteDashboard}},
		{name: "central admin on admin route", state: session.StateAuthenticated, principal: &central, allowed: admins, want: Decision{Kind: Render}},
		{name: "branch admin on admin route", state: session.StateAuthenticated, principal: &branch, allowed: admins, want: Decision{Kind: Render}},
		{name: "member on open route", state: session.StateAuthenticated, principal: &member, want: Decision{Kind: Render}},
		{name: "central admin on open route", state: session.StateAuthenticated, principal: &central, want: Decision{Kind: Render}},
		{name: "branch admin on open route", state: session.StateAuthenticated, principal: &branch, want: Decision{Kind: Render}},
		{name: "authenticated without principal", state: session.StateAuthenticated, want: Decision{Kind: Redirect, Target: RouteLogin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.state, tt.principal, tt.allowed); got != tt.want {
				t.Errorf("Evaluate() = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestGuard_Check(t *testing.T) {
	g := New(nil)
	member := testutil.Principal(t, auth.RoleMember)
	branch := testutil.Principal(t, auth.RoleAdminBranch)
	anon := session.Snapshot{State: session.StateUnauthenticated}
	asMember := session.Snapshot{State: session.StateAuthenticated, Principal: &member}
	asBranch := session.Snapshot{State: session.StateAuthenticated, Principal: &branch}

	tests := []struct {
		route string
		snap  session.Snapshot
		want  Decision
	}{
		{route: "/", snap: anon, want: Decision{Kind: Redirect, Target: RouteDashboard}},
		{route: "/login", snap: anon, want: Decision{Kind: Render}},
		{route: "/login", snap: asMember, want: Decision{Kind: Render}},
		{route: "/dashboard", snap: anon, want: Decision{Kind: Redirect, Target: RouteLogin}},
		{route: "/dashboard", snap: asMember, want: Decision{Kind: Render}},
		{route: "/members", snap: anon, want: Decision{Kind: Redirect, Target: RouteLogin}},
		{route: "/members", snap: asMember, want: Decision{Kind: Redirect, Target: RouteDashboard}},
		{route: "/Members/", snap: asBranch, want: Decision{Kind: Render}},
		{route: "/payments", snap: asMember, want: Decision{Kind: Render}},
		{route: "/nowhere", snap: asMember, want: Decision{Kind: NotFound}},
		{route: "/profile", snap: session.Snapshot{}, want: Decision{Kind: Defer}},
	}
	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Check(tt.route, tt.snap))
		})
	}
}

func TestGuard_Menu(t *testing.T) {
	g := New(DefaultPolicy())
	routes := func(items []MenuItem) []string {
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, item.Route)
		}
		return out
	}

	all := []string{"/dashboard", "/members", "/products", "/payments", "/charity", "/info", "/profile"}
	assert.Equal(t, all, routes(g.Menu(testutil.Principal(t, auth.RoleAdminCentral))))
	assert.Equal(t, all, routes(g.Menu(testutil.Principal(t, auth.RoleAdminBranch))))
	assert.Equal(t,
		[]string{"/dashboard", "/products", "/payments", "/charity", "/info", "/profile"},
		routes(g.Menu(testutil.Principal(t, auth.RoleMember))),
	)
}

func TestParsePolicy(t *testing.T) {
	policy, err := ParsePolicy(map[string][]string{
		"payments/": {"admin_central", "admin_central"},
		"/charity":  {},
	})
	require.NoError(t, err)
	assert.Equal(t, []auth.Role{auth.RoleAdminCentral}, policy["/payments"])
	assert.Empty(t, policy["/charity"])

	g := New(DefaultPolicy().Merge(policy))
	member := testutil.Principal(t, auth.RoleMember)
	assert.False(t, g.Allows("/payments", member))
	assert.True(t, g.Allows("/charity", member))
	assert.False(t, g.Allows("/members", member))

	_, err = ParsePolicy(map[string][]string{"/members": {"admin"}})
	assert.ErrorIs(t, err, auth.ErrInvalidRole)

	_, err = ParsePolicy(map[string][]string{"/login": {"member"}})
	assert.Error(t, err)
}
