package testutil

import (
	"io"
	"log"
	"testing"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/auth"
	"github.com/trezcool/koperasi/core/member"
	"github.com/trezcool/koperasi/core/payment"
	emailsvc "github.com/trezcool/koperasi/services/email"
	logsvc "github.com/trezcool/koperasi/services/logger"
)

// NewLogger returns a disabled logger that discards its output.
func NewLogger() core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), &core.Config{Env: "TEST"})
	logger.Enable(false)
	return logger
}

// NewVerifier returns the static verifier over the example accounts, hashed with the cheapest cost.
func NewVerifier(t *testing.T) *auth.StaticVerifier {
	t.Helper()
	v, err := auth.NewStaticVerifier(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewVerifier() failed: %v", err)
	}
	return v
}

// Principal returns the example account holding role.
func Principal(t *testing.T, role auth.Role) auth.Principal {
	t.Helper()
	for _, acc := range auth.ExampleAccounts {
		if acc.Principal.Role == role {
			return acc.Principal
		}
	}
	t.Fatalf("Principal(): no example account for %v", role)
	return auth.Principal{}
}

// NewValidator returns a validator with every custom tag of the dashboard registered.
func NewValidator() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	member.InitValidators(validate, translator)
	payment.InitValidators(validate, translator)
	return validate
}

// NewMailer returns a synchronous console mail service that keeps what it sends.
func NewMailer() *emailsvc.ConsoleService {
	conf := &core.Config{AppName: "Koperasi", DefaultFromEmail: "noreply@koperasi.test"}
	return emailsvc.NewConsoleServiceMock(log.New(io.Discard, "", 0), conf)
}
