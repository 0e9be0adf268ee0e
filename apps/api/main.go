package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/mealmatch/mealmatch/apps/api/echo"
	"github.com/mealmatch/mealmatch/core"
	"github.com/mealmatch/mealmatch/core/admin"
	"github.com/mealmatch/mealmatch/core/feedback"
	"github.com/mealmatch/mealmatch/core/profile"
	emailsvc "github.com/mealmatch/mealmatch/services/email"
	logsvc "github.com/mealmatch/mealmatch/services/logger"
	"github.com/mealmatch/mealmatch/storage/database"
	inmemdb "github.com/mealmatch/mealmatch/storage/database/inmem"
	sqlxrepos "github.com/mealmatch/mealmatch/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up storage; without credentials the app runs degraded: sign-ups go
	// to an in-memory store and the admin API serves an explanatory 503.
	var (
		profileRepo profile.Repository
		fbRepo      feedback.Repository
	)
	if conf.Database.Configured() {
		db, err := database.Open(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = db.Close(); err != nil {
				logger.Error("closing database", err)
			}
		}()
		if err = database.Migrate(db.DB); err != nil {
			logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
		}
		profileRepo = sqlxrepos.NewProfileRepository(db)
		fbRepo = sqlxrepos.NewFeedbackRepository(db)
	} else {
		logger.Warn("no database credentials configured; running degraded with in-memory storage")
		mem := inmemdb.NewDB()
		profileRepo = inmemdb.NewProfileRepository(mem)
		fbRepo = inmemdb.NewFeedbackRepository(mem)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewRelayService(conf, logger)
	}
	profileSvc := profile.NewService(profileRepo, mailSvc, conf)
	fbSvc := feedback.NewService(fbRepo)
	adminView := admin.NewView(profileSvc, fbSvc, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	profile.InitValidators(validate, translator, conf.EduDomain)

	core.ParseEmailTemplates(conf, logger)

	// =========================================================================
	// Start Insert Feed
	//
	// Live inserts land in the admin view's "new" buckets until reviewed.

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if conf.Database.Configured() {
		listener := database.NewListener(conf, logger, adminView.Apply)
		go listener.Run(ctx)
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			Validate:    validate,
			Translator:  translator,
			ProfileSvc:  profileSvc,
			FeedbackSvc: fbSvc,
			AdminView:   adminView,
			Shutdown:    func() { shutdownCh <- syscall.SIGTERM },
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	sig := <-shutdownCh
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
	cancel()

	// give outstanding requests a deadline for completion
	stopCtx, stopCancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer stopCancel()

	if err := server.Stop(stopCtx); err != nil {
		logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
