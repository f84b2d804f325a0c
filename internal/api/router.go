package api

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nirgal-soft/cbt-chat/internal/config"
	"github.com/nirgal-soft/cbt-chat/internal/handlers"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	AuthHandler         *handlers.AuthHandler
	ChatHandler         *handlers.ChatHandlers
	MessageHandler      *handlers.MessageHandlers
	ConversationHandler *handlers.ConversationHandlers
	SettingsHandler     *handlers.SettingsHandlers
	AdminChecker        AdminChecker
	Config              *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second)) // completion calls can be slow

	// --- CORS Configuration ---
	// Adjust AllowedOrigins for your frontend deployment(s)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "https://*.vercel.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Public Routes (No JWT Required) ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/v1/auth", func(r chi.Router) {
		if deps.AuthHandler == nil {
			panic("AuthHandler dependency is nil in router setup")
		}
		r.Post("/signup", deps.AuthHandler.HandleSignup)
		r.Post("/login", deps.AuthHandler.HandleLogin)
	})

	// --- Authenticated Routes (JWT Required) ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))

		// --- Chat turn pipeline ---
		if deps.ChatHandler != nil {
			r.Post("/chat", deps.ChatHandler.HandleChat)
		} else {
			log.Println("WARN: ChatHandler dependency is nil, skipping /v1/chat route.")
		}

		// --- Message Routes ---
		if deps.MessageHandler != nil {
			r.Route("/messages", func(r chi.Router) {
				r.Get("/", deps.MessageHandler.HandleListMessages)
				r.Post("/", deps.MessageHandler.HandleCreateMessage)
				r.Delete("/", deps.MessageHandler.HandleClearHistory)
			})
		} else {
			log.Println("WARN: MessageHandler dependency is nil, skipping /v1/messages routes.")
		}

		// --- Conversation Routes ---
		if deps.ConversationHandler != nil {
			r.Route("/conversations", func(r chi.Router) {
				r.Post("/", deps.ConversationHandler.HandleCreateConversation)
				r.Get("/", deps.ConversationHandler.HandleListConversations)
			})
		} else {
			log.Println("WARN: ConversationHandler dependency is nil, skipping /v1/conversations routes.")
		}

		// --- Admin Routes ---
		if deps.SettingsHandler != nil && deps.AdminChecker != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Use(AdminOnlyMiddleware(deps.AdminChecker))
				r.Get("/settings", deps.SettingsHandler.HandleGetSettings)
				r.Put("/settings", deps.SettingsHandler.HandleUpdateSettings)
			})
		} else {
			log.Println("WARN: SettingsHandler or AdminChecker dependency is nil, skipping /v1/admin routes.")
		}
	})

	return r
}
