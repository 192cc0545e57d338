package settings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore/jsonstoretest"
	"github.com/georgemunganga/bizdesk-backend/internal/logger"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/currency"
)

// newServer wires the real normalizer over a data dir whose listed files reject writes.
func newServer(t *testing.T, failing ...string) (*chi.Mux, Service, string) {
	t.Helper()
	dir := t.TempDir()
	fs := jsonstoretest.NewFailingFS()
	db, err := jsonstore.Open(dir, jsonstore.WithFilesystem(fs))
	require.NoError(t, err)
	require.NoError(t, jsonstoretest.WriteRaw(dir, "sales", `{"sales":[{"id":"s1","amount":100,"totalPrice":100,"unitPrice":50}]}`))
	require.NoError(t, jsonstoretest.WriteRaw(dir, "inventory", `{"inventory":[{"id":"i1","price":10,"cost":4}]}`))

	log := logger.Discard()
	svc := NewService(NewStore(db, Defaults(currency.USD)), currency.NewNormalizer(db, log), NewBroker(log), log)
	_, err = svc.Load(t.Context())
	require.NoError(t, err)
	for _, name := range failing {
		fs.Fail(name)
	}

	r := chi.NewRouter()
	NewHandler(svc, log).RegisterRoutes(r)
	return r, svc, dir
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func firstRecord(t *testing.T, dir, name string) map[string]any {
	t.Helper()
	raw, err := jsonstoretest.ReadRaw(dir, name)
	require.NoError(t, err)
	var doc map[string][]map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.NotEmpty(t, doc[name])
	return doc[name][0]
}

func TestHandler_GetAndPatch(t *testing.T) {
	r, _, _ := newServer(t)

	rec := do(r, http.MethodGet, "/api/v1/settings/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"currency":"USD"`)

	rec = do(r, http.MethodPatch, "/api/v1/settings/", `{"theme":"dark","taxRate":18}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var s Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, "dark", s.Theme)
	assert.Equal(t, 18.0, s.TaxRate)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/v1/settings/", `{"currency":"BTC"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/v1/settings/", `not json`).Code)
}

func TestHandler_CurrencyChangeConvertsData(t *testing.T) {
	r, svc, dir := newServer(t)

	rec := do(r, http.MethodPut, "/api/v1/settings/", `{"currency":"EUR"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, currency.EUR, svc.Current().Currency)
	assert.Equal(t, 92.0, firstRecord(t, dir, "sales")["amount"])
	assert.Equal(t, 9.2, firstRecord(t, dir, "inventory")["price"])
}

func TestHandler_CurrencyChangeFailureReturns500AndKeepsSettings(t *testing.T) {
	r, svc, dir := newServer(t, "inventory")

	rec := do(r, http.MethodPut, "/api/v1/settings/", `{"currency":"EUR"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "inventory")

	assert.Equal(t, currency.USD, svc.Current().Currency)
	raw, err := jsonstoretest.ReadRaw(dir, "settings")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"currency": "USD"`)

	// No rollback: sales was already rewritten when inventory failed.
	assert.Equal(t, 92.0, firstRecord(t, dir, "sales")["amount"])
	assert.Equal(t, 10.0, firstRecord(t, dir, "inventory")["price"])
}

func TestHandler_ConvertCurrency(t *testing.T) {
	r, svc, dir := newServer(t)

	rec := do(r, http.MethodPost, "/api/v1/settings/convert-currency", `{"fromCurrency":"USD","toCurrency":"XAF"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var body convertCurrencyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "USD", body.FromCurrency)
	assert.Equal(t, "XAF", body.ToCurrency)
	assert.NotEmpty(t, body.Message)
	assert.Equal(t, 65596.0, firstRecord(t, dir, "sales")["amount"])
	assert.Equal(t, currency.USD, svc.Current().Currency)

	assert.Equal(t, http.StatusBadRequest,
		do(r, http.MethodPost, "/api/v1/settings/convert-currency", `{"fromCurrency":"USD"}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(r, http.MethodPost, "/api/v1/settings/convert-currency", `{"fromCurrency":"USD","toCurrency":"JPY"}`).Code)
}

func TestHandler_ConvertCurrencyPartialFailure(t *testing.T) {
	r, _, _ := newServer(t, "sales")

	rec := do(r, http.MethodPost, "/api/v1/settings/convert-currency", `{"fromCurrency":"USD","toCurrency":"EUR"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestHandler_Reset(t *testing.T) {
	r, _, _ := newServer(t)
	require.Equal(t, http.StatusOK, do(r, http.MethodPatch, "/api/v1/settings/", `{"businessName":"Chez Ada"}`).Code)

	rec := do(r, http.MethodPost, "/api/v1/settings/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"businessName":"My Business"`)
}
