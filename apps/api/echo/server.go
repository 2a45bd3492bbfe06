package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/charity"
	"github.com/trezcool/koperasi/core/dashboard"
	"github.com/trezcool/koperasi/core/guard"
	"github.com/trezcool/koperasi/core/loan"
	"github.com/trezcool/koperasi/core/member"
	"github.com/trezcool/koperasi/core/payment"
	"github.com/trezcool/koperasi/core/product"
	"github.com/trezcool/koperasi/core/profile"
	"github.com/trezcool/koperasi/core/session"
)

// apiPrefix is prepended to the guard's routes in redirects.
const apiPrefix = "/v1"

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Sessions   *session.Manager
		Guard      *guard.Guard
		Validate   *validator.Validate
		Translator ut.Translator

		// DemoAccounts lists the example accounts on the login view.
		DemoAccounts bool

		DashboardSvc *dashboard.Service
		MemberSvc    *member.Service
		PaymentSvc   *payment.Service
		ProductSvc   *product.Service
		CharitySvc   *charity.Service
		LoanSvc      *loan.Service
		ProfileSvc   *profile.Service
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(ctx context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	cookies := newCookieCodec(conf)
	v1 := s.app.Group(apiPrefix, sessionMiddleware(s.deps.Sessions, cookies))

	registerAuthAPI(v1, s.deps, cookies)
	registerViewsAPI(v1, s.deps)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Koperasi API!")
}
