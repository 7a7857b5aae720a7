package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"civicfund/internal/http/handlers"
	"civicfund/internal/middleware"
)

type Options struct {
	AllowedOrigins     []string
	RateLimitPerMinute int
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(app.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.Session(app.Sessions, app.Logger),
	)

	r.Handle("/metrics", promhttp.Handler())

	writes := middleware.RateLimit(opts.RateLimitPerMinute, time.Minute)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)

		r.Route("/auth", func(r chi.Router) {
			r.With(writes).Post("/google", app.AuthGoogle)
			r.Post("/signout", app.SignOut)
		})

		r.Route("/me", func(r chi.Router) {
			r.Get("/", app.Me)
			r.Get("/issues", app.MyIssues)
			r.Get("/contributions", app.MyContributions)
		})

		r.Route("/issues", func(r chi.Router) {
			r.Get("/", app.ListIssues)
			r.Get("/latest", app.LatestIssues)
			r.With(writes).Post("/", app.CreateIssue)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", app.GetIssue)
				r.With(writes).Put("/", app.UpdateIssue)
				r.With(writes).Delete("/", app.DeleteIssue)
				r.Get("/contributions", app.IssueContributions)
			})
		})

		r.Route("/contributions", func(r chi.Router) {
			r.Get("/", app.ListContributions)
			r.With(writes).Post("/", app.RecordContribution)
		})

		r.Get("/leaderboard", app.Leaderboard)
		r.Get("/loyal-users", app.Leaderboard)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", app.ListUsers)
			r.With(writes).Post("/", app.RegisterUser)
		})

		r.Get("/stats", app.Stats)
	})

	return r
}
