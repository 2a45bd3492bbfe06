package auth

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/koperasi/core"
)

var ErrInvalidPrincipal = errors.New("invalid principal")

// Principal is the authenticated user.
// Branch is only carried by branch admins; it is dropped for every other role.
type Principal struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Branch string `json:"branch,omitempty"`
}

// NewPrincipal builds a normalized, valid Principal.
func NewPrincipal(id, name, email string, role Role, branch string) (Principal, error) {
	p := Principal{
		ID:     core.CleanString(id),
		Name:   core.CleanString(name),
		Email:  core.CleanString(email, true /* lower */),
		Role:   role,
		Branch: core.CleanString(branch),
	}
	p.normalize()
	if err := p.Validate(); err != nil {
		return Principal{}, err
	}
	return p, nil
}

func (p *Principal) normalize() {
	if p.Role != RoleAdminBranch {
		p.Branch = ""
	}
}

// Validate checks the Principal invariants.
func (p Principal) Validate() error {
	switch {
	case p.ID == "":
		return errors.Wrap(ErrInvalidPrincipal, "empty id")
	case p.Name == "":
		return errors.Wrap(ErrInvalidPrincipal, "empty name")
	case p.Email == "":
		return errors.Wrap(ErrInvalidPrincipal, "empty email")
	case !p.Role.Valid():
		return errors.Wrap(ErrInvalidPrincipal, "invalid role")
	case p.Role == RoleAdminBranch && p.Branch == "":
		return errors.Wrap(ErrInvalidPrincipal, "branch admin without branch")
	}
	return nil
}

// Encode serializes the Principal into its persisted record.
func (p Principal) Encode() ([]byte, error) {
	p.normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(p)
}

// DecodePrincipal parses a persisted record. Any failure means the record is corrupt.
func DecodePrincipal(data []byte) (Principal, error) {
	var p Principal
	if err := json.Unmarshal(data, &p); err != nil {
		return Principal{}, errors.Wrap(err, "decoding principal")
	}
	p.normalize()
	if err := p.Validate(); err != nil {
		return Principal{}, err
	}
	return p, nil
}
