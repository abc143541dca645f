package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler, limiter *RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/login", apiHandler.LoginHandler)
		r.Post("/signup", apiHandler.SignupHandler)
		r.Get("/catalog", apiHandler.CatalogHandler)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// User-authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(apiHandler.JWTAuthMiddleware)

			r.Post("/logout", apiHandler.LogoutHandler)
			r.Get("/me", apiHandler.MeHandler)
			r.Get("/layout", apiHandler.LayoutHandler)

			// Conversation flow
			r.Route("/conversation", func(r chi.Router) {
				r.Get("/", apiHandler.GetConversationHandler)
				r.Post("/messages", apiHandler.PostMessageHandler)
				r.Post("/topic-type", apiHandler.SelectTopicTypeHandler())
				r.Post("/teaching-method", apiHandler.SelectTeachingMethodHandler())
				r.Post("/language", apiHandler.SelectLanguageHandler())
				r.Post("/confirm", apiHandler.ConfirmVideoHandler)
				r.Post("/start-new", apiHandler.StartNewHandler)
				r.Get("/progress", apiHandler.ProgressHandler)
				r.Get("/transcript", apiHandler.TranscriptHandler)
				r.Get("/notes", apiHandler.NotesHandler)
			})

			// Chat history routes
			r.Get("/chats", apiHandler.ListChatsHandler)
			r.Delete("/chats/{chatID}", apiHandler.DeleteChatHandler)

			// Saved video routes
			r.Get("/videos", apiHandler.ListVideosHandler)
			r.Get("/videos/{videoID}", apiHandler.GetVideoHandler)
			r.Delete("/videos/{videoID}", apiHandler.DeleteVideoHandler)
			r.Get("/videos/{videoID}/transcript", apiHandler.VideoTranscriptHandler)
			r.Get("/videos/{videoID}/chapters", apiHandler.VideoChaptersHandler)
			r.Get("/videos/{videoID}/guide", apiHandler.VideoGuideHandler)

			// Settings routes
			r.Get("/settings", apiHandler.GetSettingsHandler)
			r.Put("/settings", apiHandler.UpdateSettingsHandler)
			r.Put("/profile", apiHandler.UpdateProfileHandler)
		})
	})

	return r
}
