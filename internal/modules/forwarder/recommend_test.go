package forwarder

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

func seed(t *testing.T) Service {
	t.Helper()
	db, err := jsonstore.Open(t.TempDir())
	require.NoError(t, err)
	svc := NewService(NewStore(db))
	ctx := context.Background()
	for _, req := range []CreateRequest{
		{Name: "Slow Boat", Services: []string{"sea"}, RatePerKg: 2, TransitDays: 20},
		{Name: "Quick Air", Services: []string{"air", "sea"}, RatePerKg: 4, TransitDays: 5},
		{Name: "Dormant", Services: []string{"sea"}, RatePerKg: 1, TransitDays: 1, Status: StatusInactive},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}
	return svc
}

func TestRecommend_Priorities(t *testing.T) {
	svc := seed(t)
	ctx := context.Background()

	tests := []struct {
		priority Priority
		best     string
		score    float64
	}{
		{PriorityCost, "Slow Boat", 225},
		{PrioritySpeed, "Quick Air", 250},
		{PriorityBalanced, "Quick Air", 150},
		{"", "Quick Air", 150},
	}
	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			rec, err := svc.Recommend(ctx, RecommendRequest{WeightKg: 10, Service: "sea", Priority: tt.priority})
			require.NoError(t, err)
			require.Len(t, rec.Candidates, 2, "inactive forwarders are skipped")
			assert.Equal(t, tt.best, rec.Best.Name)
			assert.Equal(t, tt.score, rec.Best.Score)
		})
	}
}

func TestRecommend_NoCandidates(t *testing.T) {
	svc := seed(t)

	_, err := svc.Recommend(context.Background(), RecommendRequest{WeightKg: 1, Service: "rail"})
	assert.ErrorIs(t, err, jsonstore.ErrNotFound)

	_, err = svc.Recommend(context.Background(), RecommendRequest{WeightKg: 0})
	assert.True(t, validation.IsValidationError(err))
}

func TestHandler_Recommend(t *testing.T) {
	r := newRouter(t)
	require.Equal(t, http.StatusCreated,
		do(r, http.MethodPost, "/api/v1/forwarders/", `{"name":"Road Co","services":["road"],"ratePerKg":1.5,"transitDays":4}`).Code)

	rec := do(r, http.MethodPost, "/api/v1/forwarders/recommend", `{"weightKg":20,"service":"road"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"name":"Road Co"`)
	assert.Contains(t, rec.Body.String(), `"cost":30`)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/v1/forwarders/recommend", `{"weightKg":20,"service":"air"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/v1/forwarders/recommend", `{"weightKg":20,"priority":"cheap"}`).Code)
}
