package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/handler/chat"
	middlewarePkg "github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/middleware"
	"github.com/VanujaSooriyaarachchi/Employee-info-chatbot/internal/service/conversation"
	"github.com/VanujaSooriyaarachchi/Employee-info-chatbot/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(dispatcher *conversation.Dispatcher, store *conversation.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chat := chatHandler.New(dispatcher, store)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	chat.RegisterRoutes(r)

	return r
}
