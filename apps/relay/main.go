package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"

	relayapi "github.com/mealmatch/mealmatch/apps/relay/echo"
	"github.com/mealmatch/mealmatch/core"
	emailsvc "github.com/mealmatch/mealmatch/services/email"
	logsvc "github.com/mealmatch/mealmatch/services/logger"
)

// The relay is the only process holding the email provider credentials. It
// exposes a single send endpoint to the API process and keeps no state.
func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "RELAY : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	logger.Info(fmt.Sprintf("Relay initializing : version %q", conf.Build))
	defer logger.Info("Relay stopped")

	if conf.Sendgrid.ApiKey == "" {
		logger.Warn("no Sendgrid API key configured; every send will fail")
	}

	server := relayapi.NewServer(relayapi.ServerDeps{
		Conf:     conf,
		Logger:   logger,
		Validate: validator.New(),
		Sender:   emailsvc.NewSendgridService(conf, logger),
	})

	go func() {
		server.Start()
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdownCh
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("could not stop relay gracefully: %v", err), err)
	}
}
