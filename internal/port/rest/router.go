package rest

import (
	"net/http"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/devhermez/full-stack-sneakup/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig configures the transport. A nil Limiter disables rate limiting.
type RouterConfig struct {
	AllowedOrigins  []string
	Limiter         Limiter
	APIRequests     int
	AuthRequests    int
	RateLimitWindow time.Duration
	RequestTimeout  time.Duration
}

type Handlers struct {
	Auth     Authenticator
	Users    *UserHandler
	Products *ProductHandler
	Orders   *OrderHandler
}

func NewRouter(cfg RouterConfig, h Handlers, m *metrics.MetricsManager, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(Metrics(m))
	r.Use(SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Sneak Up API is running"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	// The payment provider retries on its own schedule; keep it out of the
	// per-IP limiter.
	r.Post("/api/webhook", h.Orders.Webhook)

	authn := Authenticate(h.Auth, log)

	r.Route("/api", func(api chi.Router) {
		if cfg.RequestTimeout > 0 {
			api.Use(middleware.Timeout(cfg.RequestTimeout))
		}
		if cfg.Limiter != nil {
			api.Use(RateLimit(cfg.Limiter, APILimitRule(cfg.APIRequests, cfg.RateLimitWindow), log))
		}

		api.Route("/products", func(pr chi.Router) {
			pr.Get("/", h.Products.List)
			pr.Post("/by-ids", h.Products.GetByIDs)
			pr.Get("/{id}", h.Products.Get)

			pr.Group(func(admin chi.Router) {
				admin.Use(authn, RequireAdmin)
				admin.Post("/", h.Products.Create)
				admin.Post("/upload", h.Products.UploadImage)
				admin.Put("/{id}", h.Products.Update)
				admin.Delete("/{id}", h.Products.Delete)
			})
		})

		api.Route("/users", func(ur chi.Router) {
			ur.Group(func(limited chi.Router) {
				if cfg.Limiter != nil {
					limited.Use(RateLimit(cfg.Limiter, AuthLimitRule(cfg.AuthRequests, cfg.RateLimitWindow), log))
				}
				limited.Post("/register", h.Users.Register)
				limited.Post("/login", h.Users.Login)
			})
			ur.Post("/forgot-password", h.Users.ForgotPassword)
			ur.Post("/reset-password/{token}", h.Users.ResetPassword)

			ur.Group(func(authed chi.Router) {
				authed.Use(authn)
				authed.Get("/profile", h.Users.GetProfile)
				authed.Put("/profile", h.Users.UpdateProfile)
			})

			ur.Group(func(admin chi.Router) {
				admin.Use(authn, RequireAdmin)
				admin.Get("/", h.Users.List)
				admin.Get("/{id}", h.Users.Get)
				admin.Put("/{id}", h.Users.Update)
				admin.Delete("/{id}", h.Users.Delete)
			})
		})

		api.Route("/orders", func(ord chi.Router) {
			ord.Use(authn)
			ord.Post("/", h.Orders.Create)
			ord.Get("/user", h.Orders.ListMine)
			ord.Get("/{id}", h.Orders.Get)
			ord.Post("/{id}/create-checkout-session", h.Orders.CreateCheckoutSession)

			ord.Group(func(admin chi.Router) {
				admin.Use(RequireAdmin)
				admin.Get("/", h.Orders.ListAll)
				admin.Put("/{id}/pay", h.Orders.MarkPaid)
				admin.Put("/{id}/deliver", h.Orders.MarkDelivered)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusNotFound, "Not found - "+r.URL.Path)
	})

	return r
}
