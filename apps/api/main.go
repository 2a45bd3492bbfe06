package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/koperasi/apps/api/echo"
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
	emailsvc "github.com/trezcool/koperasi/services/email"
	"github.com/trezcool/koperasi/services/identity"
	logsvc "github.com/trezcool/koperasi/services/logger"
	"github.com/trezcool/koperasi/storage/database/inmem"
	"github.com/trezcool/koperasi/storage/slot"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	sessLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "SESSION : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	sessLogger.Enable(!conf.Debug)

	// set up the session slots
	newSlot, slots, err := slot.Open(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening session backend: %v", err), err)
	}
	defer func() {
		if err = slots.Close(); err != nil {
			sessLogger.Error("Failed to close", err)
		}
	}()

	verifier, err := identity.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening identity provider: %v", err), err)
	}

	policy, err := guard.ParsePolicy(conf.Routes)
	if err != nil {
		logger.Fatal(fmt.Sprintf("parsing route policy: %v", err), err)
	}

	// set up services
	db := inmemdb.OpenSeeded()
	mailSvc := emailsvc.Open(log.New(os.Stdout, "MAIL : ", log.LstdFlags), conf, logger)
	memberRepo := inmemdb.NewMemberRepository(db)

	memberSvc := member.NewService(memberRepo)
	paymentSvc := payment.NewService(inmemdb.NewPaymentRepository(db), memberRepo, mailSvc)
	productSvc := product.NewService(inmemdb.NewProductRepository(db))
	charitySvc := charity.NewService(inmemdb.NewCharityRepository(db), mailSvc)
	profileSvc := profile.NewService(inmemdb.NewProfileRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	member.InitValidators(validate, translator)
	payment.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("session_backend").Set(conf.Session.Backend)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:   conf,
			Logger: logger,
			Sessions: session.NewManager(
				verifier, newSlot, sessLogger, conf.Session.KeyPrefix,
				session.Options{Latency: conf.Session.LoginLatency, IdleTimeout: conf.Session.IdleTimeout()},
			),
			Guard:        guard.New(guard.DefaultPolicy().Merge(policy)),
			Validate:     validate,
			Translator:   translator,
			DemoAccounts: conf.Identity.Provider != identity.ProviderRemote,

			DashboardSvc: dashboard.NewService(memberSvc, paymentSvc, productSvc, charitySvc, profileSvc),
			MemberSvc:    memberSvc,
			PaymentSvc:   paymentSvc,
			ProductSvc:   productSvc,
			CharitySvc:   charitySvc,
			LoanSvc:      loan.NewService(inmemdb.NewLoanRepository(db)),
			ProfileSvc:   profileSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
