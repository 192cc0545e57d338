package forwarder

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/respond"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

type Handler struct {
	service Service
	log     logrus.FieldLogger
}

func NewHandler(service Service, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/forwarders", func(r chi.Router) {
		r.Get("/", h.list) // ?service=air
		r.Post("/", h.create)
		r.Post("/recommend", h.recommend)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Get("/{id}/quote", h.quote) // ?weightKg=12.5
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), r.URL.Query().Get("service"))
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	f, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, f)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	f, err := h.service.Create(r.Context(), req)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, f)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	f, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, f)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.NoContent(w)
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	weight, err := strconv.ParseFloat(r.URL.Query().Get("weightKg"), 64)
	if err != nil {
		respond.Err(w, h.log, validation.New("weightKg", "number", "weightKg must be a number"))
		return
	}
	q, err := h.service.Quote(r.Context(), chi.URLParam(r, "id"), weight)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, q)
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	rec, err := h.service.Recommend(r.Context(), req)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, rec)
}
