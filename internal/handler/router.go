package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/pairlink/pairlink-go/internal/middleware"
	"github.com/pairlink/pairlink-go/internal/service"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Auth     *service.AuthService
	Profiles *service.ProfileService
	Matches  *service.MatchService
	Messages *service.MessageService
}

// RouterOptions configures cross-cutting behaviour of the router.
type RouterOptions struct {
	// AuthLimiter guards the register and login routes. Nil disables it.
	AuthLimiter func(http.Handler) http.Handler
	CORSOrigins []string
}

// NewRouter wires every endpoint onto a chi router.
func NewRouter(svc Services, opts RouterOptions, log *zap.Logger) http.Handler {
	authHandler := NewAuthHandler(svc.Auth, log)
	profileHandler := NewProfileHandler(svc.Profiles, log)
	matchHandler := NewMatchHandler(svc.Matches, log)
	messageHandler := NewMessageHandler(svc.Messages, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/search", profileHandler.HandleSearch)

	r.Group(func(r chi.Router) {
		if opts.AuthLimiter != nil {
			r.Use(opts.AuthLimiter)
		}
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(svc.Auth, log))
		r.Get("/auth/me", authHandler.HandleMe)

		r.Post("/profile/update", profileHandler.HandleUpdate)

		r.Post("/like/send", matchHandler.HandleSend)
		r.Get("/like/inbox", matchHandler.HandleInbox)
		r.Patch("/like/inbox", matchHandler.HandleRespond)

		r.Post("/message/send", messageHandler.HandleSend)
		r.Get("/message/inbox", messageHandler.HandleInbox)
		r.Get("/message/room", messageHandler.HandleRoom)
	})

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(r)
}
