package http

import (
	"net/http"
	"strconv"
	"time"

	"taskmasters/internal/observability/metrics"
	obsmw "taskmasters/internal/observability/middleware"
	"taskmasters/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options collects everything the router needs; nil Provider disables the
// OAuth routes' redirect flow (they answer 500 instead).
type Options struct {
	Auth        service.AuthService
	Tasks       service.TaskService
	OAuth       service.OAuthService
	Tokens      service.TokenService
	Provider    OAuthProvider
	AppURL      string
	CORSOrigins []string
}

func NewRouter(opts Options) http.Handler {
	ah := &authHandler{auth: opts.Auth}
	th := &taskHandler{tasks: opts.Tasks}
	oh := &oauthHandler{provider: opts.Provider, svc: opts.OAuth, appURL: opts.AppURL}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(obsmw.WithRequestAndTrace)
	r.Use(countRequests)

	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, http.StatusOK, "ok", nil)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	authRoutes := func(r chi.Router) {
		// Credential endpoints are the brute-force surface; keep them slow.
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(20, time.Minute))
			r.Post("/register", ah.register)
			r.Post("/login", ah.login)
			r.Post("/verify", ah.verifyEmail)
			r.Post("/forgot-password", ah.forgotPassword)
			r.Post("/reset-password", ah.resetPassword)
		})
		r.Post("/refresh", ah.refresh)
		r.With(requireAuth(opts.Tokens)).Get("/me", ah.me)
		r.Get("/oauth/start", oh.start)
		r.Get("/oauth/callback", oh.callback)
	}

	r.Group(authRoutes)
	// The original client talks to /api/auth/*; keep both mounts alive.
	r.Route("/api/auth", authRoutes)

	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(requireAuth(opts.Tokens))
		r.Get("/", th.list)
		r.Post("/", th.create)
		r.Get("/stats", th.stats)
		r.Put("/{id}", th.update)
		r.Delete("/{id}", th.delete)
	})

	return r
}

func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := chi.RouteContext(r.Context()).RoutePattern()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).Inc()
	})
}
