package customer

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/respond"
)

// Handler exposes customer HTTP endpoints.
type Handler struct {
	service Service
	log     logrus.FieldLogger
}

func NewHandler(service Service, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/customers", func(r chi.Router) {
		r.Get("/", h.list) // ?segment=vip&search=ada
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)

		r.Post("/{id}/loyalty-points", h.adjustLoyalty)
		r.Get("/{id}/loyalty-history", h.loyaltyHistory)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	customers, err := h.service.List(r.Context(), ListFilter{
		Segment: Segment(q.Get("segment")),
		Search:  q.Get("search"),
	})
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, customers)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, c)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	c, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.NoContent(w)
}

func (h *Handler) adjustLoyalty(w http.ResponseWriter, r *http.Request) {
	var req AdjustLoyaltyRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	c, entry, err := h.service.AdjustLoyaltyPoints(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"customer": c,
		"entry":    entry,
	})
}

func (h *Handler) loyaltyHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.LoyaltyHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, entries)
}
