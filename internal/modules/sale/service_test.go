package sale

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore/jsonstoretest"
	"github.com/georgemunganga/bizdesk-backend/internal/logger"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/customer"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/inventory"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/notification"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

type fixture struct {
	sales     Service
	stock     inventory.Service
	customers customer.Service
}

func newFixture(t *testing.T, dir string) fixture {
	t.Helper()
	db, err := jsonstore.Open(dir)
	require.NoError(t, err)
	log := logger.Discard()
	notes := notification.NewService(notification.NewStore(db), log)
	stock := inventory.NewService(inventory.NewItemRepository(db), notes, func() int { return 0 }, log)
	customers := customer.NewService(customer.NewStore(db), log)
	return fixture{
		sales:     NewService(NewStore(db), stock, customers, log),
		stock:     stock,
		customers: customers,
	}
}

func float(v float64) *float64 { return &v }

func TestCreateSale_TakesStockAndRecordsPurchase(t *testing.T) {
	f := newFixture(t, t.TempDir())
	ctx := context.Background()
	item, err := f.stock.Create(ctx, inventory.CreateItemRequest{Name: "Rice 5kg", Quantity: 10, Price: 4.25})
	require.NoError(t, err)
	c, err := f.customers.Create(ctx, customer.CreateRequest{Name: "Ada"})
	require.NoError(t, err)

	sale, err := f.sales.CreateSale(ctx, CreateSaleRequest{
		CustomerID:    c.ID,
		ProductID:     item.ID,
		Quantity:      3,
		PaymentMethod: "mobile_money",
	})
	require.NoError(t, err)
	assert.Equal(t, "Rice 5kg", sale.ProductName)
	assert.Equal(t, 4.25, sale.UnitPrice)
	assert.Equal(t, 12.75, sale.TotalPrice)
	assert.Equal(t, 12.75, sale.Amount)
	assert.Equal(t, StatusCompleted, sale.Status)
	assert.Equal(t, CurrentSchema, sale.SchemaVersion)

	got, err := f.stock.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)

	c, err = f.customers.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalOrders)
	assert.Equal(t, 12.75, c.TotalSpent)
	assert.Equal(t, customer.SegmentRegular, c.Segment)
}

func TestCreateSale_InsufficientStockWritesNothing(t *testing.T) {
	f := newFixture(t, t.TempDir())
	ctx := context.Background()
	item, err := f.stock.Create(ctx, inventory.CreateItemRequest{Name: "Oil", Quantity: 2, Price: 3})
	require.NoError(t, err)

	_, err = f.sales.CreateSale(ctx, CreateSaleRequest{ProductID: item.ID, Quantity: 5, PaymentMethod: "cash"})
	assert.True(t, validation.IsValidationError(err))

	sales, err := f.sales.ListSales(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, sales)
	got, err := f.stock.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
}

func TestCreateSale_Validation(t *testing.T) {
	f := newFixture(t, t.TempDir())
	ctx := context.Background()

	_, err := f.sales.CreateSale(ctx, CreateSaleRequest{ProductName: "Soap", Quantity: 1, UnitPrice: float(1), PaymentMethod: "cheque"})
	assert.True(t, validation.IsValidationError(err))

	_, err = f.sales.CreateSale(ctx, CreateSaleRequest{ProductName: "Soap", Quantity: 1, PaymentMethod: "cash"})
	assert.True(t, validation.IsValidationError(err), "free-text sales need a unit price")

	_, err = f.sales.CreateSale(ctx, CreateSaleRequest{CustomerID: "ghost", ProductName: "Soap", Quantity: 1, UnitPrice: float(1), PaymentMethod: "cash"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "customerId", verr.Fields[0].Field)
}

func TestRefundSale(t *testing.T) {
	f := newFixture(t, t.TempDir())
	ctx := context.Background()
	item, err := f.stock.Create(ctx, inventory.CreateItemRequest{Name: "Sugar", Quantity: 4, Price: 2})
	require.NoError(t, err)
	c, err := f.customers.Create(ctx, customer.CreateRequest{Name: "Ben"})
	require.NoError(t, err)
	sale, err := f.sales.CreateSale(ctx, CreateSaleRequest{CustomerID: c.ID, ProductID: item.ID, Quantity: 4, PaymentMethod: "card"})
	require.NoError(t, err)

	refunded, err := f.sales.RefundSale(ctx, sale.ID, RefundRequest{Reason: "damaged"})
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, refunded.Status)
	require.NotNil(t, refunded.RefundedAt)
	assert.Equal(t, "damaged", refunded.RefundReason)

	got, err := f.stock.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
	c, err = f.customers.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, c.TotalOrders)
	assert.Equal(t, 0.0, c.TotalSpent)

	_, err = f.sales.RefundSale(ctx, sale.ID, RefundRequest{Reason: "again"})
	assert.True(t, validation.IsValidationError(err), "refunded sales cannot be refunded twice")

	_, err = f.sales.RefundSale(ctx, "missing", RefundRequest{Reason: "x"})
	assert.ErrorIs(t, err, jsonstore.ErrNotFound)
}

func TestMigrate_UpgradesLegacySales(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, jsonstoretest.WriteRaw(dir, "sales", `{"sales":[
		{"id":"old-1","product":"Rice","amount":25.5,"date":"2024-03-01"},
		{"id":"new-1","schemaVersion":2,"productName":"Oil","quantity":2,"unitPrice":3,"totalPrice":6,"amount":6,
		 "paymentMethod":"card","status":"completed","soldAt":"2024-03-02T10:00:00Z"}
	]}`))
	f := newFixture(t, dir)
	ctx := context.Background()

	// Reads see the upgraded shape before anything is written.
	old, err := f.sales.GetSale(ctx, "old-1")
	require.NoError(t, err)
	assert.Equal(t, "Rice", old.ProductName)
	assert.Equal(t, CurrentSchema, old.SchemaVersion)

	n, err := f.sales.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	raw, err := jsonstoretest.ReadRaw(dir, "sales")
	require.NoError(t, err)
	var doc struct {
		Sales []map[string]any `json:"sales"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Sales, 2)
	migrated := doc.Sales[0]
	assert.Equal(t, float64(CurrentSchema), migrated["schemaVersion"])
	assert.Equal(t, "Rice", migrated["productName"])
	assert.Equal(t, float64(1), migrated["quantity"])
	assert.Equal(t, 25.5, migrated["unitPrice"])
	assert.Equal(t, 25.5, migrated["totalPrice"])
	assert.Equal(t, "cash", migrated["paymentMethod"])
	assert.Equal(t, "completed", migrated["status"])
	assert.Equal(t, "2024-03-01T00:00:00Z", migrated["soldAt"])

	n, err = f.sales.Migrate(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a second run finds nothing to do")
}

func TestListSales_FiltersAndOrders(t *testing.T) {
	f := newFixture(t, t.TempDir())
	ctx := context.Background()
	day := func(d int) *time.Time {
		t := time.Date(2024, 5, d, 12, 0, 0, 0, time.UTC)
		return &t
	}
	for i, d := range []int{1, 15, 30} {
		method := "cash"
		if i == 1 {
			method = "card"
		}
		_, err := f.sales.CreateSale(ctx, CreateSaleRequest{
			ProductName: "Bread", Quantity: 1, UnitPrice: float(1), PaymentMethod: method, SoldAt: day(d),
		})
		require.NoError(t, err)
	}

	all, err := f.sales.ListSales(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].SoldAt.Equal(*day(30)))

	cash, err := f.sales.ListSales(ctx, ListFilter{PaymentMethod: PaymentCash})
	require.NoError(t, err)
	assert.Len(t, cash, 2)

	mid, err := f.sales.ListSales(ctx, ListFilter{From: *day(10), To: *day(20)})
	require.NoError(t, err)
	require.Len(t, mid, 1)
	assert.Equal(t, PaymentCard, mid[0].PaymentMethod)
}

func TestHandler_CreateAndRefund(t *testing.T) {
	f := newFixture(t, t.TempDir())
	r := chi.NewRouter()
	NewHandler(f.sales, logger.Discard()).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sales",
		strings.NewReader(`{"productName":"Tea","quantity":2,"unitPrice":1.5,"paymentMethod":"bank_transfer"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sale Sale
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sale))
	assert.Equal(t, 3.0, sale.Amount)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sales/"+sale.ID+"/refund", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "a reason is required")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sales/"+sale.ID+"/refund", strings.NewReader(`{"reason":"wrong item"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sales?from=2024-13-01", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
