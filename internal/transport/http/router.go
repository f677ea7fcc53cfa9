package http

import (
	"net/http"
	"time"

	httpmw "github.com/cwrk-planet/chat-service/internal/transport/http/middleware"
	"github.com/cwrk-planet/chat-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)

	// WS endpoint
	r.Get("/ws", wsServer.HandleWS)

	// регистрация — до появления пользователя актора ещё нет
	r.Post("/users", h.CreateUser)

	// Остальные маршруты требуют access_token и X-User-ID
	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.AuthMiddleware)
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Route("/users", func(ur chi.Router) {
			ur.Get("/", h.ListUsers)
			ur.Get("/{id}", h.GetUser)
		})

		pr.Route("/chats", func(cr chi.Router) {
			cr.Post("/", h.CreateChat)
			cr.Get("/", h.ListChats)

			cr.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", h.GetChat)
				rr.Delete("/", h.DeleteChat)
				rr.Post("/rename", h.RenameChat)
				rr.Post("/members", h.AddMember)
				rr.Get("/members", h.GetMembers)
				rr.Post("/messages", h.SendMessage)
				rr.Get("/messages", h.GetMessages)
			})
		})
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
