package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/pivot-atlas/pkg/handlers/pivot"
	pivotmiddleware "github.com/de-tools/pivot-atlas/pkg/server/middleware"
	"github.com/de-tools/pivot-atlas/pkg/services/config"
	"github.com/de-tools/pivot-atlas/pkg/services/session"
	"github.com/de-tools/pivot-atlas/pkg/store/columns"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Sessions session.Manager
	Presets  config.PresetRegistry
	Columns  columns.Source // optional
	Logger   zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	pivotHandler := handlers.NewHandler(config.Dependencies.Sessions, config.Dependencies.Presets)
	if config.Dependencies.Columns != nil {
		pivotHandler.WithColumnSource(config.Dependencies.Columns)
	}

	router := chi.NewRouter()

	router.Use(pivotmiddleware.Logger(&config.Dependencies.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/presets", pivotHandler.ListPresets)
		r.Get("/columns", pivotHandler.ListColumns)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", pivotHandler.CreateSession)
			r.Get("/", pivotHandler.ListSessions)

			r.Route("/{session}", func(r chi.Router) {
				r.Get("/", pivotHandler.GetSession)
				r.Put("/", pivotHandler.InitializeSession)
				r.Delete("/", pivotHandler.DeleteSession)

				r.Post("/drag/start", pivotHandler.DragStart)
				r.Post("/drag/over", pivotHandler.DragOver)
				r.Post("/drag/end", pivotHandler.DragEnd)
				r.Post("/drag/cancel", pivotHandler.DragCancel)

				r.Post("/move", pivotHandler.Move)
				r.Post("/remove", pivotHandler.Remove)
				r.Post("/aggregation", pivotHandler.ChangeAggregation)
				r.Post("/reset", pivotHandler.Reset)
			})
		})
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WebAPI{
		router:          router,
		logger:          &logger,
		shutdownTimeout: timeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
