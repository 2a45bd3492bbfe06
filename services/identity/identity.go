// Package identity provides the credential verifiers used to log in.
package identity

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/auth"
)

const (
	ProviderStatic = "static"
	ProviderRemote = "remote"
)

// Open returns the configured verifier.
func Open(conf *core.Config) (auth.CredentialVerifier, error) {
	switch conf.Identity.Provider {
	case ProviderStatic, "":
		cost := bcrypt.DefaultCost
		if conf.TestMode {
			cost = bcrypt.MinCost
		}
		return auth.NewStaticVerifier(cost)
	case ProviderRemote:
		if conf.Identity.URL == "" {
			return nil, errors.New("identity.url is required by the remote provider")
		}
		return NewRemoteVerifier(conf.Identity.URL, conf.Identity.Timeout), nil
	}
	return nil, errors.Errorf("unknown identity provider %q", conf.Identity.Provider)
}
