package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/respond"
)

// Handler exposes report HTTP endpoints.
type Handler struct {
	service Service
	log     logrus.FieldLogger
}

func NewHandler(service Service, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Get("/", h.list)                       // GET    /api/v1/reports?type=sales
		r.Post("/generate", h.generate)          // POST   /api/v1/reports/generate
		r.Get("/{id}", h.get)                    // GET    /api/v1/reports/{id}
		r.Post("/{id}/regenerate", h.regenerate) // POST   /api/v1/reports/{id}/regenerate
		r.Patch("/{id}", h.update)               // PATCH  /api/v1/reports/{id}
		r.Delete("/{id}", h.deleteReport)        // DELETE /api/v1/reports/{id}
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.List(r.Context(), ListFilter{Type: Type(r.URL.Query().Get("type"))})
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, reports)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	rep, err := h.service.Generate(r.Context(), req)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, rep)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, rep)
}

func (h *Handler) regenerate(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.Regenerate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, rep)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	rep, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, rep)
}

func (h *Handler) deleteReport(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.NoContent(w)
}
