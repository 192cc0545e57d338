package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/respond"
)

// Handler exposes inventory HTTP endpoints.
type Handler struct {
	service Service
	log     logrus.FieldLogger
}

func NewHandler(service Service, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/inventory", func(r chi.Router) {
		r.Get("/", h.list) // ?category=...&supplierId=...&search=...
		r.Post("/", h.create)
		r.Get("/low-stock", h.lowStock)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Patch("/{id}/stock", h.adjustStock)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.service.List(r.Context(), ListFilter{
		Category:   q.Get("category"),
		SupplierID: q.Get("supplierId"),
		Search:     q.Get("search"),
	})
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, items)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.LowStock(r.Context())
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, item)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	item, err := h.service.Create(r.Context(), req)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, item)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	item, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, item)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.NoContent(w)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var adj StockAdjustment
	if err := respond.Decode(r, &adj); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	item, err := h.service.AdjustStock(r.Context(), chi.URLParam(r, "id"), adj)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, item)
}
