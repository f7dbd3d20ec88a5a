package rest

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const defaultAdminRole = "admin"

type RouterConfig struct {
	ServiceName    string
	JWTSecret      string
	AdminRole      string
	AllowedOrigins []string
	Metrics        HTTPObserver // optional
}

// NewRouter wires the public and protected routes.
func NewRouter(cfg RouterConfig, h *Handler, log *logger.Logger) http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.RealIP)
	mux.Use(LoggerMiddleware(log.Named("http")))
	mux.Use(Recoverer(log.Named("http")))
	mux.Use(Tracing(cfg.ServiceName))
	if cfg.Metrics != nil {
		mux.Use(Metrics(cfg.Metrics))
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusNotFound, "route not found")
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	mux.Get("/healthz", h.HandleHealth)
	mux.Get("/categories", h.HandleCategories)
	mux.Get("/search", h.HandleSearch)
	SetupListingRoutes(mux, h, cfg.JWTSecret, cfg.AdminRole, log)

	return mux
}

// SetupListingRoutes mounts /listings/{category}. Reads and creates are public;
// a token on create records the owner. Replacing needs a token of the owner or
// an admin, deleting needs the admin role.
func SetupListingRoutes(mux *chi.Mux, h *Handler, jwtSecret, adminRole string, log *logger.Logger) {
	if adminRole == "" {
		adminRole = defaultAdminRole
	}
	mux.Route("/listings/{category}", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.With(OptionalJWTAuth(jwtSecret, log.Named("auth"))).Post("/", h.HandleCreate)
		r.Post("/validate", h.HandleValidate)
		r.Get("/{id}", h.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(JWTAuth(jwtSecret, log.Named("auth")))
			r.Put("/{id}", h.HandleUpdate)
			r.With(RequireRole(adminRole)).Delete("/{id}", h.HandleDelete)
		})
	})
}
