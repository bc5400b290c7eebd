// Package web provides the plumbing for the mailclip HTTP API.
package web

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/mailclip/mailclip/pkg/config"
	"github.com/mailclip/mailclip/pkg/dispatch"
	"github.com/mailclip/mailclip/pkg/savehub"
	"github.com/rs/zerolog/log"
)

var (
	// Router is shared with the rest package.  It sends incoming requests to
	// the correct handler function.
	Router = mux.NewRouter()

	// dispatcher and saveHub are referenced by NewContext for web handlers.
	dispatcher dispatch.Dispatcher
	saveHub    *savehub.Hub

	rootConfig     *config.Root
	server         *http.Server
	listener       net.Listener
	globalShutdown chan bool
)

// Initialize sets up things for unit tests or the Start() method.
func Initialize(
	conf *config.Root,
	shutdownChan chan bool,
	d dispatch.Dispatcher,
	hub *savehub.Hub) {

	rootConfig = conf
	globalShutdown = shutdownChan
	dispatcher = d
	saveHub = hub

	Router.NotFoundHandler = noMatchHandler(http.StatusNotFound, "No route matches URI")
}

// Start begins listening for HTTP requests.
func Start(ctx context.Context) {
	addr := rootConfig.Web.Addr
	server = &http.Server{
		Addr:         addr,
		Handler:      rootHandler(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	// We don't use ListenAndServe because it lacks a way to close the
	// listener.
	log.Info().Str("module", "web").Str("phase", "startup").Str("addr", addr).
		Msg("HTTP listening on tcp4")
	var err error
	listener, err = net.Listen("tcp", addr)
	if err != nil {
		log.Error().Str("module", "web").Err(err).Msg("HTTP failed to start TCP listener")
		emergencyShutdown()
		return
	}

	// Listener go routine.
	go serve(ctx)

	// Wait for shutdown.
	<-ctx.Done()
	log.Debug().Str("module", "web").Str("phase", "shutdown").
		Msg("HTTP server shutting down on request")

	// Closing the listener will cause the serve() go routine to exit.
	if err := listener.Close(); err != nil {
		log.Error().Str("module", "web").Err(err).Msg("Failed to close HTTP listener")
	}
}

// rootHandler wraps the router with request logging, mounted under the
// configured base path when one is set.
func rootHandler() http.Handler {
	h := requestLoggingWrapper(Router)
	if p := strings.Trim(rootConfig.Web.BasePath, "/"); p != "" {
		return http.StripPrefix("/"+p, h)
	}
	return h
}

// serve begins serving HTTP requests.
func serve(ctx context.Context) {
	// server.Serve blocks until we close the listener.
	err := server.Serve(listener)

	select {
	case <-ctx.Done():
		// Nop.
	default:
		log.Error().Str("module", "web").Err(err).Msg("HTTP server failed")
		emergencyShutdown()
	}
}

func emergencyShutdown() {
	select {
	case <-globalShutdown:
	default:
		close(globalShutdown)
	}
}
