package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dormbase/docs"
	"dormbase/internal/auth"
	"dormbase/internal/cache"
	"dormbase/internal/domain/storage"
	"dormbase/internal/mailer"
	"dormbase/internal/media"
	"dormbase/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         *storage.Container
	logger        *zap.SugaredLogger
	uploader      media.Uploader
	mailer        mailer.Client
	authenticator auth.Authenticator
	cache         cache.Cache
	rateLimiter   ratelimiter.Limiter
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	frontendURL string
	adminEmails map[string]struct{}
	google      googleConfig
	rateLimiter ratelimiter.Config
}

type googleConfig struct {
	clientID string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.frontendURL, "http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Request context times out well before image uploads would; the write
	// timeout on the server is the hard stop.
	r.Use(middleware.Timeout(60 * time.Second))

	// Public auth surface.
	r.Post("/register", app.registerUserHandler)
	r.Post("/login", app.loginHandler)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/send-code", app.sendCodeHandler)
		r.Post("/verify-code", app.verifyCodeHandler)
		r.Post("/google", app.googleAuthHandler)
	})

	docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Route("/universities", func(r chi.Router) {
			r.Get("/", app.listUniversitiesHandler)
			r.Get("/{slug}", app.getUniversityHandler)
			r.Get("/{slug}/dorms", app.listUniversityDormsHandler)
		})

		r.Route("/dorms", func(r chi.Router) {
			r.With(app.AuthTokenMiddleware).Post("/", app.createDormHandler)
			r.With(app.OptionalAuthTokenMiddleware).Get("/{universitySlug}/{slug}", app.getDormHandler)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", app.listReviewsHandler)
			r.With(app.OptionalAuthTokenMiddleware).Post("/", app.createReviewHandler)
			r.With(app.AuthTokenMiddleware).Get("/user", app.listOwnReviewsHandler)
			r.With(app.AuthTokenMiddleware).Put("/{reviewID}", app.updateReviewHandler)
			r.With(app.AuthTokenMiddleware).Post("/{reviewID}/vote", app.voteReviewHandler)
		})

		r.Get("/stats/top", app.topStatsHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Use(app.RequireAdmin)

			r.Get("/stats", app.adminStatsHandler)

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", app.adminListReviewsHandler)
				r.Patch("/{reviewID}/approve", app.approveReviewHandler)
				r.Patch("/{reviewID}/decline", app.declineReviewHandler)
				r.Patch("/{reviewID}/edit/approve", app.approveReviewEditHandler)
				r.Patch("/{reviewID}/edit/decline", app.declineReviewEditHandler)
				r.Delete("/{reviewID}", app.deleteReviewHandler)
			})

			r.Route("/dorms", func(r chi.Router) {
				r.Get("/", app.adminListDormsHandler)
				r.Patch("/{dormID}/approve", app.approveDormHandler)
				r.Patch("/{dormID}/decline", app.declineDormHandler)
				r.Delete("/{dormID}", app.deleteDormHandler)
			})
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.addr
	docs.SwaggerInfo.BasePath = "/"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
