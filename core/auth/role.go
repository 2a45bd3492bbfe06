package auth

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core"
)

// Role is the closed set of roles a Principal can hold. The zero value is not a valid Role.
type Role uint8

// Roles
const (
	_ Role = iota
	RoleMember
	RoleAdminCentral
	RoleAdminBranch
)

var (
	AllRoles   = []Role{RoleMember, RoleAdminCentral, RoleAdminBranch}
	AdminRoles = []Role{RoleAdminCentral, RoleAdminBranch}

	ErrInvalidRole = errors.New("invalid role")
)

// ParseRole parses the wire form of a Role: member, admin_central or admin_branch.
func ParseRole(s string) (Role, error) {
	switch core.CleanString(s, true /* lower */) {
	case "member":
		return RoleMember, nil
	case "admin_central":
		return RoleAdminCentral, nil
	case "admin_branch":
		return RoleAdminBranch, nil
	}
	return 0, errors.Wrapf(ErrInvalidRole, "%q", s)
}

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleAdminCentral:
		return "admin_central"
	case RoleAdminBranch:
		return "admin_branch"
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// Label is the name displayed for the role.
func (r Role) Label() string {
	switch r {
	case RoleMember:
		return "Anggota"
	case RoleAdminCentral:
		return "Admin Pusat"
	case RoleAdminBranch:
		return "Admin Cabang"
	}
	return ""
}

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdminCentral, RoleAdminBranch:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdminCentral, RoleAdminBranch:
		return true
	case RoleMember:
		return false
	}
	return false
}

// In reports whether r is one of roles.
func (r Role) In(roles []Role) bool {
	for _, role := range roles {
		if role == r {
			return true
		}
	}
	return false
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, errors.Wrapf(ErrInvalidRole, "marshalling %v", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}
