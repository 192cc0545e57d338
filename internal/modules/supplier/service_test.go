package supplier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

func newService(t *testing.T) Service {
	t.Helper()
	db, err := jsonstore.Open(t.TempDir())
	require.NoError(t, err)
	return NewService(NewStore(db))
}

func TestService_CreateDefaults(t *testing.T) {
	svc := newService(t)
	sup, err := svc.Create(context.Background(), CreateRequest{Name: " Douala Textiles ", Rating: 4.5})
	require.NoError(t, err)
	assert.Equal(t, "Douala Textiles", sup.Name)
	assert.Equal(t, StatusActive, sup.Status)
	assert.NotNil(t, sup.Products)
}

func TestService_CreateValidates(t *testing.T) {
	svc := newService(t)
	_, err := svc.Create(context.Background(), CreateRequest{Name: "X", Rating: 6})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "rating", verr.Fields[0].Field)

	_, err = svc.Create(context.Background(), CreateRequest{Name: "X", Status: "paused"})
	assert.True(t, validation.IsValidationError(err))
}

func TestService_UpdateAndFilter(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	a, err := svc.Create(ctx, CreateRequest{Name: "A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{Name: "B"})
	require.NoError(t, err)

	inactive := StatusInactive
	products := []string{"cotton", "wax print"}
	got, err := svc.Update(ctx, a.ID, UpdateRequest{Status: &inactive, Products: &products})
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, got.Status)
	assert.Equal(t, products, got.Products)
	assert.Equal(t, "A", got.Name)

	active, err := svc.List(ctx, StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "B", active[0].Name)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestService_NotFound(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, err := svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, jsonstore.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "nope"), jsonstore.ErrNotFound)
	name := "x"
	_, err = svc.Update(ctx, "nope", UpdateRequest{Name: &name})
	assert.ErrorIs(t, err, jsonstore.ErrNotFound)
}
