package customer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore/jsonstoretest"
	"github.com/georgemunganga/bizdesk-backend/internal/logger"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/customer"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

func newService(t *testing.T) (customer.Service, string) {
	t.Helper()
	dir := t.TempDir()
	db, err := jsonstore.Open(dir)
	require.NoError(t, err)
	return customer.NewService(customer.NewStore(db), logger.Discard()), dir
}

func ada(t *testing.T, svc customer.Service) customer.Customer {
	t.Helper()
	c, err := svc.Create(context.Background(), customer.CreateRequest{
		Name:    "Ada",
		Email:   "a@x.com",
		Phone:   "123",
		Address: "Addr",
		Segment: customer.SegmentNew,
	})
	require.NoError(t, err)
	return c
}

func TestCreate_InitialisesCounters(t *testing.T) {
	svc, _ := newService(t)
	c := ada(t, svc)

	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)
	assert.Zero(t, c.TotalOrders)
	assert.Zero(t, c.TotalSpent)
	assert.Zero(t, c.LoyaltyPoints)
	assert.Equal(t, customer.SegmentNew, c.Segment)

	got, err := svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestCreate_DefaultsSegmentAndValidates(t *testing.T) {
	svc, _ := newService(t)
	c, err := svc.Create(context.Background(), customer.CreateRequest{Name: "Bo"})
	require.NoError(t, err)
	assert.Equal(t, customer.SegmentNew, c.Segment)

	_, err = svc.Create(context.Background(), customer.CreateRequest{Email: "not-an-email"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestAdjustLoyaltyPoints_Bounds(t *testing.T) {
	svc, dir := newService(t)
	ctx := context.Background()
	c := ada(t, svc)

	_, _, err := svc.AdjustLoyaltyPoints(ctx, c.ID, customer.AdjustLoyaltyRequest{Points: 1500, Reason: "promo"})
	assert.True(t, validation.IsValidationError(err))

	_, _, err = svc.AdjustLoyaltyPoints(ctx, c.ID, customer.AdjustLoyaltyRequest{Points: 0, Reason: "promo"})
	assert.True(t, validation.IsValidationError(err))

	_, _, err = svc.AdjustLoyaltyPoints(ctx, c.ID, customer.AdjustLoyaltyRequest{Points: 10})
	assert.True(t, validation.IsValidationError(err))

	history, err := svc.LoyaltyHistory(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	updated, entry, err := svc.AdjustLoyaltyPoints(ctx, c.ID, customer.AdjustLoyaltyRequest{Points: 500, Reason: "promo"})
	require.NoError(t, err)
	assert.Equal(t, 500, updated.LoyaltyPoints)
	assert.Equal(t, c.ID, entry.CustomerID)
	assert.Equal(t, 500, entry.Points)
	assert.Equal(t, 0, entry.BalanceBefore)
	assert.Equal(t, 500, entry.BalanceAfter)
	assert.Equal(t, "promo", entry.Reason)
	assert.NotEmpty(t, entry.ID)

	history, err = svc.LoyaltyHistory(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entry, history[0])

	raw, err := jsonstoretest.ReadRaw(dir, "customers")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"loyaltyPointsHistory"`)
}

func TestAdjustLoyaltyPoints_RejectsNegativeBalance(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c := ada(t, svc)
	_, _, err := svc.AdjustLoyaltyPoints(ctx, c.ID, customer.AdjustLoyaltyRequest{Points: 50, Reason: "welcome"})
	require.NoError(t, err)

	_, _, err = svc.AdjustLoyaltyPoints(ctx, c.ID, customer.AdjustLoyaltyRequest{Points: -100, Reason: "redeem"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "points", verr.Fields[0].Field)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.LoyaltyPoints)

	history, err := svc.LoyaltyHistory(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, _, err = svc.AdjustLoyaltyPoints(ctx, c.ID, customer.AdjustLoyaltyRequest{Points: -50, Reason: "redeem"})
	require.NoError(t, err)
}

func TestAdjustLoyaltyPoints_UnknownCustomer(t *testing.T) {
	svc, _ := newService(t)
	_, _, err := svc.AdjustLoyaltyPoints(context.Background(), "missing", customer.AdjustLoyaltyRequest{Points: 5, Reason: "x"})
	assert.ErrorIs(t, err, jsonstore.ErrNotFound)

	_, err = svc.LoyaltyHistory(context.Background(), "missing")
	assert.ErrorIs(t, err, jsonstore.ErrNotFound)
}

func TestRecordPurchaseAndRefund(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c := ada(t, svc)

	require.NoError(t, svc.RecordPurchase(ctx, c.ID, 19.99))
	require.NoError(t, svc.RecordPurchase(ctx, c.ID, 0.02))

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalOrders)
	assert.Equal(t, 20.01, got.TotalSpent)
	assert.Equal(t, customer.SegmentRegular, got.Segment)
	require.NotNil(t, got.LastPurchaseAt)

	require.NoError(t, svc.RecordRefund(ctx, c.ID, 19.99))
	got, err = svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalOrders)
	assert.Equal(t, 0.02, got.TotalSpent)

	assert.ErrorIs(t, svc.RecordPurchase(ctx, "missing", 1), jsonstore.ErrNotFound)
}

func TestUpdate_OnlySetFields(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c := ada(t, svc)

	vip := customer.SegmentVIP
	phone := "999"
	got, err := svc.Update(ctx, c.ID, customer.UpdateRequest{Segment: &vip, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, customer.SegmentVIP, got.Segment)
	assert.Equal(t, "999", got.Phone)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, c.CreatedAt, got.CreatedAt)

	_, err = svc.Update(ctx, "missing", customer.UpdateRequest{Phone: &phone})
	assert.ErrorIs(t, err, jsonstore.ErrNotFound)
}

func TestUpdate_ClearsFields(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c := ada(t, svc)
	notes := "vip later"
	_, err := svc.Update(ctx, c.ID, customer.UpdateRequest{Notes: &notes})
	require.NoError(t, err)

	empty := ""
	_, err = svc.Update(ctx, c.ID, customer.UpdateRequest{Notes: &empty, Address: &empty, Phone: &empty})
	require.NoError(t, err)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Notes)
	assert.Empty(t, got.Address)
	assert.Empty(t, got.Phone)
	assert.Equal(t, "Ada", got.Name)
}

func TestList_Filters(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	ada(t, svc)
	_, err := svc.Create(ctx, customer.CreateRequest{Name: "Grace", Email: "grace@navy.mil", Segment: customer.SegmentVIP})
	require.NoError(t, err)

	all, err := svc.List(ctx, customer.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	vips, err := svc.List(ctx, customer.ListFilter{Segment: customer.SegmentVIP})
	require.NoError(t, err)
	require.Len(t, vips, 1)
	assert.Equal(t, "Grace", vips[0].Name)

	found, err := svc.List(ctx, customer.ListFilter{Search: "A@X"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ada", found[0].Name)
}

func TestDelete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c := ada(t, svc)

	require.NoError(t, svc.Delete(ctx, c.ID))
	assert.ErrorIs(t, svc.Delete(ctx, c.ID), jsonstore.ErrNotFound)
	_, err := svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, jsonstore.ErrNotFound)
}
