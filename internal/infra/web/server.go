package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"institute-backend/internal/domain/model"
	"institute-backend/internal/usecase"
)

type ctxKey int

const sessionKey ctxKey = iota

// RateLimiter gates a request key within a time window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	checkoutUC usecase.CheckoutUseCase
	subUC      usecase.SubscriptionUseCase
	userUC     usecase.UserUseCase
	statsUC    usecase.StatsUseCase
	auth       *AuthManager
	limiter    RateLimiter
	log        *zerolog.Logger
}

func NewServer(
	checkoutUC usecase.CheckoutUseCase,
	subUC usecase.SubscriptionUseCase,
	userUC usecase.UserUseCase,
	statsUC usecase.StatsUseCase,
	auth *AuthManager,
	limiter RateLimiter,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		checkoutUC: checkoutUC,
		subUC:      subUC,
		userUC:     userUC,
		statsUC:    statsUC,
		auth:       auth,
		limiter:    limiter,
		log:        &l,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/payment", func(r chi.Router) {
				r.Use(s.rateLimit(10, time.Minute))
				r.Post("/create-order", s.handleCreateOrder)
				r.Post("/verify", s.handleVerifyPayment)
				r.Get("/history", s.handlePaymentHistory)
			})

			r.Get("/subscription/current", s.handleCurrentSubscription)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Patch("/subscription/{id}", s.handleSetSubscriptionStatus)
				r.Get("/admin/users", s.handleListUsers)
				r.Get("/admin/revenue", s.handleRevenue)
				r.Get("/admin/reminders", s.handleReminders)
			})
		})
	})

	return r
}

// requireAuth parses the session token and stores the claims in the
// request context. Requests without a valid session get 401.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := sessionFrom(r)
		if claims == nil || claims.Role != model.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimit applies a fixed-window limit keyed by session subject, or by
// remote address for anonymous requests.
func (s *Server) rateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			id := r.RemoteAddr
			if claims := sessionFrom(r); claims != nil {
				id = claims.Subject
			}
			ok, err := s.limiter.Allow(r.Context(), "rate_limit:"+id+":"+r.URL.Path, limit, window)
			if err != nil {
				// Fail open: a limiter outage must not block payments.
				s.log.Warn().Err(err).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionFrom(r *http.Request) *SessionClaims {
	claims, _ := r.Context().Value(sessionKey).(*SessionClaims)
	return claims
}
