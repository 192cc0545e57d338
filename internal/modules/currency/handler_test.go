package currency

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/bizdesk-backend/internal/logger"
)

func serve(method, path, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewHandler(logger.Discard()).RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestHandler_Convert(t *testing.T) {
	rec := serve(http.MethodPost, "/api/v1/currency/convert", `{"from": "USD", "to": "XAF", "amount": 100}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ConvertResponse{From: USD, To: XAF, Amount: 100, ConvertedAmount: 65596}, resp)
}

func TestHandler_ConvertZeroAmount(t *testing.T) {
	rec := serve(http.MethodPost, "/api/v1/currency/convert", `{"from": "EUR", "to": "GBP", "amount": 0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"from": "EUR", "to": "GBP", "amount": 0, "convertedAmount": 0}`, rec.Body.String())
}

func TestHandler_ConvertRejectsBadInput(t *testing.T) {
	for name, body := range map[string]string{
		"unknown currency": `{"from": "USD", "to": "JPY", "amount": 1}`,
		"missing amount":   `{"from": "USD", "to": "EUR"}`,
		"malformed":        `{"from":`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := serve(http.MethodPost, "/api/v1/currency/convert", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestHandler_Rates(t *testing.T) {
	rec := serve(http.MethodGet, "/api/v1/currency/rates", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Reference string             `json:"reference"`
		Rates     map[string]float64 `json:"rates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "USD", body.Reference)
	assert.Equal(t, 655.96, body.Rates["XAF"])
}
