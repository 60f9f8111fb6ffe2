package messaging

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/messages", h.SendMessage)
		r.Post("/messages/group", h.SendGroupMessage)
		r.Post("/messages/template", h.SendTemplateMessage)
		r.Get("/groups", h.GetGroups)
		r.Get("/status", h.Status)
		r.Put("/messages/{id}", h.EditMessage)
		r.Delete("/messages/{id}", h.DeleteMessage)
		r.Put("/messages/{id}/template", h.EditMessageWithTemplate)
	})
}
