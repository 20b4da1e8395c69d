package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"devninja-chat/internal/handlers"
	"devninja-chat/internal/middleware"
	"devninja-chat/internal/websocket"
)

// Deps are the handlers and middleware the router mounts.
type Deps struct {
	JWTAuth      *middleware.JWTAuth
	ChatHandler  *handlers.ChatHandler
	AdminHandler *handlers.AdminHandler
	WSHub        *websocket.Hub
	ChatLimiter  *middleware.RateLimiter
	LoginLimiter *middleware.RateLimiter
	Logger       zerolog.Logger
	FrontendURL  string
	// TrustProxy enables chi's RealIP. Without it rate limits key on the
	// TCP peer address, which a client cannot spoof.
	TrustProxy bool
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	if d.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(hlog.NewHandler(d.Logger))
	r.Use(requestIDLogger)
	r.Use(accessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(d.FrontendURL))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		// ──── Chat Routes (public) ────
		r.Route("/chat", func(r chi.Router) {
			r.Get("/status", d.ChatHandler.Status)
			r.Post("/sessions", d.ChatHandler.CreateSession)

			r.Route("/sessions/{id}", func(r chi.Router) {
				r.Get("/messages", d.ChatHandler.History)
				r.With(d.ChatLimiter.Middleware).Post("/messages", d.ChatHandler.SendMessage)
				r.Delete("/", d.ChatHandler.EndSession)
				r.Get("/ws", d.WSHub.HandleWebSocket)
			})
		})

		// ──── Operator Routes ────
		r.Route("/admin", func(r chi.Router) {
			r.With(d.LoginLimiter.Middleware).Post("/login", d.AdminHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(d.JWTAuth.Middleware)
				r.Put("/credential", d.AdminHandler.SetCredential)
				r.Delete("/credential", d.AdminHandler.RemoveCredential)
				r.Get("/credential", d.AdminHandler.CredentialStatus)
				r.Get("/stats", d.AdminHandler.Stats)
			})
		})
	})

	return r
}

// requestIDLogger tags the request logger with chi's request id.
func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimiddleware.GetReqID(r.Context()); id != "" {
			logger := zerolog.Ctx(r.Context())
			logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("request_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one zerolog line per request; the websocket route is
// logged on upgrade like any other request.
func accessLog(next http.Handler) http.Handler {
	return hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_ip", r.RemoteAddr).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(next)
}
