package sale

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/respond"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

// Handler exposes sale HTTP endpoints.
type Handler struct {
	service Service
	log     logrus.FieldLogger
}

func NewHandler(service Service, log logrus.FieldLogger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/sales", func(r chi.Router) {
		r.Get("/", h.listSales)          // GET    /api/v1/sales?from=2024-01-01&to=...&customerId=...
		r.Post("/", h.createSale)        // POST   /api/v1/sales
		r.Get("/{id}", h.getSale)        // GET    /api/v1/sales/{id}
		r.Post("/{id}/refund", h.refund) // POST   /api/v1/sales/{id}/refund
		r.Delete("/{id}", h.deleteSale)  // DELETE /api/v1/sales/{id}
	})
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	sale, err := h.service.CreateSale(r.Context(), req)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilter{
		CustomerID:    q.Get("customerId"),
		PaymentMethod: PaymentMethod(q.Get("paymentMethod")),
		Status:        Status(q.Get("status")),
	}
	var err error
	if f.From, err = parseDay(q.Get("from"), "from", false); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	if f.To, err = parseDay(q.Get("to"), "to", true); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	sales, err := h.service.ListSales(r.Context(), f)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, sales)
}

// parseDay accepts YYYY-MM-DD or RFC 3339. A bare end date covers the whole day.
func parseDay(v, field string, end bool) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, validation.Newf(field, "date", "%s must be YYYY-MM-DD or RFC 3339", field)
	}
	if end {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.service.GetSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, sale)
}

func (h *Handler) refund(w http.ResponseWriter, r *http.Request) {
	var req RefundRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	sale, err := h.service.RefundSale(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, sale)
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSale(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Err(w, h.log, err)
		return
	}
	respond.NoContent(w)
}
