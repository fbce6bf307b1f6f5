package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/stak-backend/internal/handlers"
	"github.com/GregMSThompson/stak-backend/internal/middleware"
)

type Options struct {
	ProjectID   string
	CORSOrigins []string
}

func NewRouter(deps *handlers.Deps, auth *middleware.Middleware, opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggerMiddleware(deps.Log, opts.ProjectID).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(opts.CORSOrigins))

	r.Get("/healthz", handlers.Health)

	ush := handlers.NewUserHandlers(deps)
	swh := handlers.NewSwipeHandlers(deps)
	nwh := handlers.NewNewsHandlers(deps)
	mkh := handlers.NewMarketHandlers(deps)

	r.Route("/api", func(r chi.Router) {
		// public
		r.Mount("/news", nwh.NewsRoutes())
		r.Get("/intel-cards", mkh.GetIntelCards)
		r.Get("/trends/{brandId}", mkh.GetTrends)
		r.Get("/stock/{symbol}", mkh.GetStock)

		// authenticated
		r.Group(func(r chi.Router) {
			r.Use(auth.FirebaseAuth)
			r.Mount("/me", ush.UserRoutes())
			r.Mount("/swipe", swh.SwipeRoutes())
		})
	})

	return r
}
