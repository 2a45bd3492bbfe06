package auth

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/koperasi/core"
)

// ErrInvalidCredentials is returned for any (email, password) pair that does not match an account.
// It never tells an unknown email apart from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// CredentialVerifier checks credentials against an identity provider.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (Principal, error)
}

// Account is an entry of the static credential table.
type Account struct {
	Principal Principal
	Password  string
}

// ExampleAccounts are the demo accounts of the dashboard.
var ExampleAccounts = []Account{
	{
		Principal: Principal{ID: "1", Name: "Admin User", Email: "admin@example.com", Role: RoleAdminCentral},
		Password:  "password",
	},
	{
		Principal: Principal{ID: "2", Name: "Branch Admin", Email: "branch@example.com", Role: RoleAdminBranch, Branch: "Jakarta"},
		Password:  "password",
	},
	{
		Principal: Principal{ID: "3", Name: "Regular Member", Email: "member@example.com", Role: RoleMember},
		Password:  "password",
	},
}

type staticEntry struct {
	principal Principal
	hash      []byte
}

// StaticVerifier verifies credentials against an in-memory table.
type StaticVerifier struct {
	table map[string]staticEntry // {email: entry}
	dummy []byte                 // compared against for unknown emails
}

var _ CredentialVerifier = (*StaticVerifier)(nil)

// NewStaticVerifier hashes the accounts' passwords with the given bcrypt cost.
// It defaults to ExampleAccounts when no account is given.
func NewStaticVerifier(cost int, accounts ...Account) (*StaticVerifier, error) {
	if len(accounts) == 0 {
		accounts = ExampleAccounts
	}
	v := &StaticVerifier{table: make(map[string]staticEntry, len(accounts))}
	for _, acc := range accounts {
		p, err := NewPrincipal(acc.Principal.ID, acc.Principal.Name, acc.Principal.Email, acc.Principal.Role, acc.Principal.Branch)
		if err != nil {
			return nil, errors.Wrapf(err, "account %q", acc.Principal.Email)
		}
		if _, exists := v.table[p.Email]; exists {
			return nil, errors.Errorf("duplicate account %q", p.Email)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), cost)
		if err != nil {
			return nil, errors.Wrap(err, "hashing password")
		}
		v.table[p.Email] = staticEntry{principal: p, hash: hash}
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-password"), cost)
	if err != nil {
		return nil, errors.Wrap(err, "hashing password")
	}
	v.dummy = dummy
	return v, nil
}

func (v *StaticVerifier) Verify(ctx context.Context, email, password string) (Principal, error) {
	if err := ctx.Err(); err != nil {
		return Principal{}, err
	}
	entry, ok := v.table[core.CleanString(email, true /* lower */)]
	if !ok {
		// same amount of work as a known email
		_ = bcrypt.CompareHashAndPassword(v.dummy, []byte(password))
		return Principal{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(entry.hash, []byte(password)); err != nil {
		return Principal{}, ErrInvalidCredentials
	}
	return entry.principal, nil
}
