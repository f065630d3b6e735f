package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/realtora/EstateHub/internal/config"
	"github.com/realtora/EstateHub/internal/domain"
	"github.com/realtora/EstateHub/pkg/health"
	"github.com/realtora/EstateHub/pkg/middleware"
)

// RouterDeps carries everything the router mounts.
type RouterDeps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Health   *health.Handler
	Resolver middleware.PrincipalResolver

	Auth       *AuthHandler
	Properties *PropertyHandler
	Offers     *OfferHandler
	Payments   *PaymentHandler
	Reviews    *ReviewHandler
	Users      *UserHandler
}

// NewRouter builds the HTTP routing tree. Authorization is enforced here
// through RequireRole groups; handlers never branch on roles themselves.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: deps.Config.CORSAllowedOrigins,
		Environment:    deps.Config.Environment,
	}))
	r.Use(middleware.Recovery(deps.Logger))
	// RequestLogging assigns the correlation id; RequestLogger builds the
	// request-scoped logger from it, so it must mount second.
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.PrometheusMetrics("estatehub"))

	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	middleware.RegisterPprof(r, deps.Config.PprofAllowedCIDRs, deps.Logger)

	authenticate := middleware.Authenticate(deps.Resolver)

	r.Route("/api", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", deps.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Get("/me", deps.Auth.Me)
			})
		})

		r.Route("/properties", func(r chi.Router) {
			// Public catalog.
			r.Get("/", deps.Properties.List)
			r.With(middleware.CacheControl(60)).
				Get("/advertised", deps.Properties.ListAdvertised)
			r.Get("/{id}", deps.Properties.Get)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)

				r.With(middleware.RequireRole(domain.RoleAgent, domain.RoleAdmin)).
					Post("/", deps.Properties.Create)
				r.With(middleware.RequireRole(domain.RoleAgent, domain.RoleAdmin)).
					Get("/my-properties", deps.Properties.ListMine)
				r.With(middleware.RequireRole(domain.RoleAgent, domain.RoleAdmin)).
					Put("/{id}", deps.Properties.Update)
				r.With(middleware.RequireRole(domain.RoleAgent, domain.RoleAdmin)).
					Delete("/{id}", deps.Properties.Delete)

				r.With(middleware.RequireRole(domain.RoleAdmin)).
					Get("/all", deps.Properties.ListAll)
				r.With(middleware.RequireRole(domain.RoleAdmin)).
					Patch("/{id}/verify", deps.Properties.Verify)
				r.With(middleware.RequireRole(domain.RoleAdmin)).
					Patch("/{id}/advertise", deps.Properties.Advertise)
			})
		})

		r.Route("/offers", func(r chi.Router) {
			r.Use(authenticate)

			r.With(middleware.RequireRole(domain.RoleUser)).
				Post("/", deps.Offers.Create)
			r.With(middleware.RequireRole(domain.RoleUser)).
				Get("/my-offers", deps.Offers.ListMine)

			r.With(middleware.RequireRole(domain.RoleAgent)).
				Get("/requested", deps.Offers.ListRequested)
			r.With(middleware.RequireRole(domain.RoleAgent)).
				Get("/sold", deps.Offers.ListSold)
			r.With(middleware.RequireRole(domain.RoleAgent)).
				Get("/sold/total", deps.Offers.TotalSold)
			r.With(middleware.RequireRole(domain.RoleAgent)).
				Patch("/{id}/respond", deps.Offers.Respond)

			r.Get("/{id}", deps.Offers.Get)
		})

		r.Route("/payment", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(domain.RoleUser))

			r.Post("/create-payment-intent", deps.Payments.CreateIntent)
			r.Post("/confirm-payment", deps.Payments.Confirm)
		})

		r.Route("/reviews", func(r chi.Router) {
			// Public read endpoints.
			r.With(middleware.CacheControl(60)).
				Get("/latest", deps.Reviews.ListLatest)
			r.Get("/property/{id}", deps.Reviews.ListByProperty)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)

				r.With(middleware.RequireRole(domain.RoleUser)).
					Post("/", deps.Reviews.Create)
				r.Get("/my-reviews", deps.Reviews.ListMine)
				r.With(middleware.RequireRole(domain.RoleAdmin)).
					Get("/all", deps.Reviews.ListAll)
				r.Delete("/{id}", deps.Reviews.Delete)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Get("/", deps.Users.List)
			r.Get("/{uid}", deps.Users.Get)
			r.Patch("/{uid}/role", deps.Users.UpdateRole)
			r.Patch("/{uid}/fraud", deps.Users.SetFraud)
			r.Delete("/{uid}", deps.Users.Delete)
		})
	})

	return r
}
