package forwarder

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/currency"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

// Priority weighs cost against speed when ranking forwarders.
type Priority string

const (
	PriorityBalanced Priority = "balanced"
	PriorityCost     Priority = "cost"
	PrioritySpeed    Priority = "speed"
)

// RecommendRequest describes a shipment to place with a forwarder.
type RecommendRequest struct {
	WeightKg float64  `json:"weightKg" validate:"gt=0"`
	Service  string   `json:"service" validate:"omitempty,oneof=air sea road rail"`
	Priority Priority `json:"priority" validate:"omitempty,oneof=balanced cost speed"`
}

// Candidate is a forwarder quote with its ranking score.
type Candidate struct {
	Quote
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Recommendation ranks every eligible forwarder, best first.
type Recommendation struct {
	Best       Candidate   `json:"best"`
	Candidates []Candidate `json:"candidates"`
}

// Recommend quotes every active forwarder offering the service and ranks them.
//
// Each candidate scores up to 100 for cost (cheapest quote / its quote) and up to 100 for
// speed (fastest transit / its transit). The priority doubles one of the two. Ties go to
// the faster forwarder, then by name.
func (s *service) Recommend(ctx context.Context, req RecommendRequest) (Recommendation, error) {
	if err := validation.Struct(req); err != nil {
		return Recommendation{}, err
	}
	eligible, err := s.List(ctx, req.Service)
	if err != nil {
		return Recommendation{}, err
	}

	candidates := make([]Candidate, 0, len(eligible))
	for _, f := range eligible {
		if f.Status != StatusActive {
			continue
		}
		candidates = append(candidates, Candidate{
			Quote: Quote{
				ForwarderID: f.ID,
				WeightKg:    req.WeightKg,
				Cost:        currency.Round2(f.RatePerKg * req.WeightKg),
				TransitDays: f.TransitDays,
			},
			Name: f.Name,
		})
	}
	if len(candidates) == 0 {
		what := "shipments"
		if req.Service != "" {
			what = req.Service + " freight"
		}
		return Recommendation{}, fmt.Errorf("no active forwarder offers %s: %w", what, jsonstore.ErrNotFound)
	}

	cheapest, fastest := candidates[0].Cost, candidates[0].TransitDays
	for _, c := range candidates[1:] {
		cheapest = min(cheapest, c.Cost)
		fastest = min(fastest, c.TransitDays)
	}
	for i := range candidates {
		candidates[i].Score, candidates[i].Reason = score(candidates[i], cheapest, fastest, req.Priority)
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		switch {
		case a.Score != b.Score:
			if a.Score > b.Score {
				return -1
			}
			return 1
		case a.TransitDays != b.TransitDays:
			return a.TransitDays - b.TransitDays
		default:
			return strings.Compare(a.Name, b.Name)
		}
	})
	return Recommendation{Best: candidates[0], Candidates: candidates}, nil
}

func score(c Candidate, cheapest float64, fastest int, p Priority) (float64, string) {
	costScore := 100.0
	if c.Cost > 0 {
		costScore = 100 * cheapest / c.Cost
	}
	speedScore := 100.0
	if c.TransitDays > 0 {
		speedScore = 100 * float64(fastest) / float64(c.TransitDays)
	}

	costWeight, speedWeight := 1.0, 1.0
	switch p {
	case PriorityCost:
		costWeight = 2
	case PrioritySpeed:
		speedWeight = 2
	}
	total := currency.Round2(costScore*costWeight + speedScore*speedWeight)
	reason := fmt.Sprintf("cost %.2f (score %.0f), %d days transit (score %.0f)",
		c.Cost, costScore, c.TransitDays, speedScore)
	return total, reason
}
