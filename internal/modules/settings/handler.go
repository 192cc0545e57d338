package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/respond"
)

type Handler struct {
	service Service
	log     logrus.FieldLogger
}

func NewHandler(service Service, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/settings", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/", h.update)
		r.Patch("/", h.update)
		r.Post("/convert-currency", h.convertCurrency)
		r.Post("/reset", h.reset)
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.service.Current())
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	s, err := h.service.Update(r.Context(), req)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, s)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Reset(r.Context())
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, s)
}

type convertCurrencyResponse struct {
	Message      string `json:"message"`
	FromCurrency string `json:"fromCurrency"`
	ToCurrency   string `json:"toCurrency"`
}

func (h *Handler) convertCurrency(w http.ResponseWriter, r *http.Request) {
	var req ConvertCurrencyRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	if err := h.service.ConvertCurrency(r.Context(), req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, convertCurrencyResponse{
		Message:      "Currency values converted from " + req.FromCurrency + " to " + req.ToCurrency,
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
	})
}
