package costing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/respond"
)

// Handler exposes costing HTTP endpoints.
type Handler struct {
	service Service
	log     logrus.FieldLogger
}

func NewHandler(service Service, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/costings", func(r chi.Router) {
		r.Get("/", h.list)                 // GET    /api/v1/costings
		r.Post("/", h.create)              // POST   /api/v1/costings
		r.Post("/preview", h.preview)      // POST   /api/v1/costings/preview
		r.Get("/{id}", h.get)              // GET    /api/v1/costings/{id}
		r.Put("/{id}", h.update)           // PUT    /api/v1/costings/{id}
		r.Patch("/{id}", h.update)         // PATCH  /api/v1/costings/{id}
		r.Delete("/{id}", h.deleteCosting) // DELETE /api/v1/costings/{id}
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	costings, err := h.service.List(r.Context())
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, costings)
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

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var in Inputs
	if err := respond.Decode(r, &in); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	res, err := h.service.Preview(r.Context(), in)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, res)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, c)
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

func (h *Handler) deleteCosting(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.NoContent(w)
}
