package currency

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/respond"
)

// ConvertRequest is the payload of a single-amount conversion.
type ConvertRequest struct {
	From   string   `json:"from" validate:"required,currency"`
	To     string   `json:"to" validate:"required,currency"`
	Amount *float64 `json:"amount" validate:"required"`
}

// ConvertResponse echoes the request with the converted amount.
type ConvertResponse struct {
	From            Code    `json:"from"`
	To              Code    `json:"to"`
	Amount          float64 `json:"amount"`
	ConvertedAmount float64 `json:"convertedAmount"`
}

// Handler exposes conversion endpoints.
type Handler struct {
	log logrus.FieldLogger
}

func NewHandler(log logrus.FieldLogger) *Handler { return &Handler{log: log} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/currency", func(r chi.Router) {
		r.Post("/convert", h.convert) // POST /api/v1/currency/convert
		r.Get("/rates", h.rates)      // GET  /api/v1/currency/rates
	})
}

func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	from, to := Code(req.From), Code(req.To)
	converted, err := ConvertForDisplay(*req.Amount, from, to)
	if err != nil {
		var unknown *UnknownCurrencyError
		if errors.As(err, &unknown) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, ConvertResponse{
		From:            from,
		To:              to,
		Amount:          *req.Amount,
		ConvertedAmount: converted,
	})
}

func (h *Handler) rates(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{
		"reference": Reference,
		"rates":     Rates(),
	})
}
