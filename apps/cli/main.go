package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/guard"
	"github.com/trezcool/koperasi/core/session"
	"github.com/trezcool/koperasi/services/identity"
	logsvc "github.com/trezcool/koperasi/services/logger"
	"github.com/trezcool/koperasi/storage/slot"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, "CLI : ", log.LstdFlags|log.Lshortfile), conf)
	logger.Enable(!conf.Debug)

	ctx := context.Background()
	newSlot, slots, err := slot.Open(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening session backend: %v", err), err)
	}
	verifier, err := identity.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening identity provider: %v", err), err)
	}
	policy, err := guard.ParsePolicy(conf.Routes)
	if err != nil {
		logger.Fatal(fmt.Sprintf("parsing route policy: %v", err), err)
	}

	// a single session, restored from its slot
	store := session.NewStore(verifier, newSlot(conf.Session.KeyPrefix), logger, session.Options{Latency: conf.Session.LoginLatency})
	store.Restore(ctx)

	cli := commandLine{
		store: store,
		guard: guard.New(guard.DefaultPolicy().Merge(policy)),
	}
	err = cli.command().ExecuteContext(ctx)
	if cErr := slots.Close(); cErr != nil {
		logger.Error("closing session backend", cErr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
