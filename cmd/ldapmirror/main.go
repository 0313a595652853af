package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ldapmirror/ldapmirror/internal/config"
	"github.com/ldapmirror/ldapmirror/internal/engine"
	"github.com/ldapmirror/ldapmirror/internal/feed"
	"github.com/ldapmirror/ldapmirror/internal/httpapi"
	"github.com/ldapmirror/ldapmirror/internal/logger"
	"github.com/ldapmirror/ldapmirror/internal/notify"
	"github.com/ldapmirror/ldapmirror/internal/store"
	"github.com/ldapmirror/ldapmirror/internal/workers"
	"github.com/ldapmirror/ldapmirror/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("ldapmirror")

	cfg, err := config.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.LogFile != "" {
		log = logger.NewFileLogger("ldapmirror", cfg.LogFile)
	}

	ctx := context.Background()

	storages, err := store.NewMirrorStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	spec := models.SearchSpec{
		BaseDN: cfg.LDAP.BaseDN,
		Scope:  cfg.LDAP.Scope,
		Filter: cfg.LDAP.Filter,
		Attrs:  cfg.LDAP.Attrs,
	}
	if err = storages.Cookies.PinSearchSpec(ctx, spec); err != nil {
		log.Fatal().Err(err).Msg("mirror is bound to a different search; use a fresh mirror database")
	}

	cookie, err := storages.Cookies.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading resume cookie")
	}

	stream, err := feed.DialLDAP(cfg.LDAP, spec, cookie, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to directory")
	}

	handlers := []any{engine.NewLoggingHandler(log)}
	if cfg.Webhook.URL != "" {
		notifier, whErr := notify.NewWebhookNotifier(cfg.Webhook, log)
		if whErr != nil {
			log.Fatal().Err(whErr).Msg("error creating webhook notifier")
		}
		handlers = append(handlers, notifier)
	}

	session := engine.NewSession(stream, storages, log, handlers...)
	session.AnnounceBind(stream.AuthzID())

	if cfg.HTTP.Address != "" {
		handler := httpapi.NewHandler(session, storages.Entries, log)
		srv := &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           handler.Init(),
			ReadHeaderTimeout: cfg.HTTP.RequestTimeout,
		}
		go func() {
			log.Info().Str("address", cfg.HTTP.Address).Msg("status api listening")
			if srvErr := srv.ListenAndServe(); srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
				log.Err(srvErr).Msg("status api failed")
			}
		}()
		defer srv.Shutdown(context.Background()) //nolint:errcheck
	}

	// SIGINT/SIGTERM request a cooperative stop; the poll loop drains
	// until the server acknowledges the cancel
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sig
		log.Info().Str("signal", s.String()).Msg("stop requested")
		session.RequestStop()
	}()

	worker := workers.NewPollWorker(session, cfg.Engine.PollTimeout, log)
	worker.Run()

	if err = session.Unbind(); err != nil {
		log.Err(err).Msg("error releasing connection")
	}
	if err = worker.Err(); err != nil {
		log.Fatal().Err(err).Msg("synchronization ended with error")
	}
	log.Info().Msg("mirror shut down cleanly")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
