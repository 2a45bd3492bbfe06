package guard

import (
	"fmt"

	"github.com/trezcool/koperasi/core/auth"
	"github.com/trezcool/koperasi/core/session"
)

type Kind int

const (
	// Defer means the session is still loading: render a neutral state, do not guess.
	Defer Kind = iota
	Render
	Redirect
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Defer:
		return "defer"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case NotFound:
		return "not_found"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Decision is the outcome of a navigation.
type Decision struct {
	Kind   Kind   `json:"decision"`
	Target string `json:"target,omitempty"` // set on Redirect
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Evaluate decides a navigation to a target allowed to roles. It has no side effects.
func Evaluate(state session.State, principal *auth.Principal, allowed []auth.Role) Decision {
	switch state {
	case session.StateUnknown:
		return Decision{Kind: Defer}
	case session.StateUnauthenticated:
		return Decision{Kind: Redirect, Target: RouteLogin}
	case session.StateAuthenticated:
		if principal == nil {
			return Decision{Kind: Redirect, Target: RouteLogin}
		}
		if len(allowed) == 0 || principal.Role.In(allowed) {
			return Decision{Kind: Render}
		}
		return Decision{Kind: Redirect, Target: RouteDashboard}
	}
	return Decision{Kind: Defer}
}

// MenuItem is a navigation entry of the sidebar.
type MenuItem struct {
	Route string `json:"route"`
	Label string `json:"label"`
}

var menu = []MenuItem{
	{Route: RouteDashboard, Label: "Dashboard"},
	{Route: RouteMembers, Label: "Anggota"},
	{Route: RouteProducts, Label: "Produk UMKM"},
	{Route: RoutePayments, Label: "Pembayaran Iuran"},
	{Route: RouteCharity, Label: "Amal"},
	{Route: RouteInfo, Label: "Informasi Koperasi"},
	{Route: RouteProfile, Label: "Profil"},
}

// Guard gates navigation with a Policy.
type Guard struct {
	policy Policy
}

func New(policy Policy) *Guard {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Guard{policy: policy}
}

// Check decides a navigation to route for the session snapshot.
func (g *Guard) Check(route string, snap session.Snapshot) Decision {
	switch route = NormalizeRoute(route); route {
	case RouteRoot:
		return Decision{Kind: Redirect, Target: RouteDashboard}
	case RouteLogin:
		return Decision{Kind: Render}
	}

	allowed, ok := g.policy[route]
	if !ok {
		return Decision{Kind: NotFound}
	}
	return Evaluate(snap.State, snap.Principal, allowed)
}

// Allows reports whether p may view route.
func (g *Guard) Allows(route string, p auth.Principal) bool {
	snap := session.Snapshot{State: session.StateAuthenticated, Principal: &p}
	return g.Check(route, snap).Kind == Render
}

// Menu returns the navigation items p may view, in display order.
func (g *Guard) Menu(p auth.Principal) []MenuItem {
	items := make([]MenuItem, 0, len(menu))
	for _, item := range menu {
		if g.Allows(item.Route, p) {
			items = append(items, item)
		}
	}
	return items
}

func (g *Guard) Policy() Policy {
	return g.policy
}
