package customer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/currency"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

// Service defines customer business logic.
type Service interface {
	List(ctx context.Context, f ListFilter) ([]Customer, error)
	Get(ctx context.Context, id string) (Customer, error)
	Create(ctx context.Context, req CreateRequest) (Customer, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Customer, error)
	Delete(ctx context.Context, id string) error

	// AdjustLoyaltyPoints changes the balance by req.Points and appends a history entry.
	// The balance may never go below zero.
	AdjustLoyaltyPoints(ctx context.Context, id string, req AdjustLoyaltyRequest) (Customer, LoyaltyEntry, error)
	LoyaltyHistory(ctx context.Context, id string) ([]LoyaltyEntry, error)

	// RecordPurchase adds a completed sale to the customer's totals.
	RecordPurchase(ctx context.Context, id string, amount float64) error
	// RecordRefund reverses a purchase previously recorded.
	RecordRefund(ctx context.Context, id string, amount float64) error
}

type service struct {
	repo Repository
	log  logrus.FieldLogger
	now  func() time.Time
}

// NewService creates a new customer service.
func NewService(repo Repository, log logrus.FieldLogger) Service {
	return &service{repo: repo, log: log, now: time.Now}
}

func notFound(id string) error {
	return fmt.Errorf("customer %s: %w", id, jsonstore.ErrNotFound)
}

func (s *service) List(ctx context.Context, f ListFilter) ([]Customer, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if f.Segment == "" && f.Search == "" {
		return all, nil
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Customer, 0, len(all))
	for _, c := range all {
		if f.Segment != "" && c.Segment != f.Segment {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Email), search) &&
			!strings.Contains(c.Phone, search) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (Customer, error) {
	c, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return Customer{}, err
	}
	if !ok {
		return Customer{}, notFound(id)
	}
	return c, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (Customer, error) {
	if err := validation.Struct(req); err != nil {
		return Customer{}, err
	}
	segment := req.Segment
	if segment == "" {
		segment = SegmentNew
	}
	c, err := s.repo.Create(ctx, Customer{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   req.Phone,
		Address: req.Address,
		Segment: segment,
		Notes:   req.Notes,
	})
	if err != nil {
		return Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (Customer, error) {
	if err := validation.Struct(req); err != nil {
		return Customer{}, err
	}
	c, ok, err := s.repo.Modify(ctx, id, func(c *Customer) error {
		if req.Name != nil {
			c.Name = strings.TrimSpace(*req.Name)
		}
		if req.Email != nil {
			c.Email = strings.TrimSpace(*req.Email)
		}
		if req.Phone != nil {
			c.Phone = *req.Phone
		}
		if req.Address != nil {
			c.Address = *req.Address
		}
		if req.Segment != nil {
			c.Segment = *req.Segment
		}
		if req.Notes != nil {
			c.Notes = *req.Notes
		}
		return nil
	})
	if err != nil {
		return Customer{}, err
	}
	if !ok {
		return Customer{}, notFound(id)
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(id)
	}
	return nil
}

func (s *service) AdjustLoyaltyPoints(ctx context.Context, id string, req AdjustLoyaltyRequest) (Customer, LoyaltyEntry, error) {
	if err := validation.Struct(req); err != nil {
		return Customer{}, LoyaltyEntry{}, err
	}
	var before int
	c, ok, err := s.repo.Modify(ctx, id, func(c *Customer) error {
		before = c.LoyaltyPoints
		after := before + req.Points
		if after < 0 {
			return validation.Newf("points", "balance",
				"adjustment of %d would leave a negative balance (current %d)", req.Points, before)
		}
		c.LoyaltyPoints = after
		return nil
	})
	if err != nil {
		return Customer{}, LoyaltyEntry{}, err
	}
	if !ok {
		return Customer{}, LoyaltyEntry{}, notFound(id)
	}

	entry, err := s.repo.AppendLoyalty(ctx, LoyaltyEntry{
		CustomerID:    id,
		Points:        req.Points,
		Reason:        strings.TrimSpace(req.Reason),
		BalanceBefore: before,
		BalanceAfter:  c.LoyaltyPoints,
	})
	if err != nil {
		// The balance is already saved; the history is behind by one entry.
		s.log.WithError(err).WithField("id", id).Error("loyalty history append failed")
		return Customer{}, LoyaltyEntry{}, fmt.Errorf("failed to record loyalty history: %w", err)
	}
	s.log.WithFields(logrus.Fields{"id": id, "points": req.Points, "balance": c.LoyaltyPoints}).
		Info("loyalty points adjusted")
	return c, entry, nil
}

func (s *service) LoyaltyHistory(ctx context.Context, id string) ([]LoyaltyEntry, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.LoyaltyHistory(ctx, id)
}

func (s *service) RecordPurchase(ctx context.Context, id string, amount float64) error {
	now := s.now().UTC()
	_, ok, err := s.repo.Modify(ctx, id, func(c *Customer) error {
		c.TotalOrders++
		c.TotalSpent = currency.Round2(c.TotalSpent + amount)
		c.LastPurchaseAt = &now
		if c.Segment == SegmentNew || c.Segment == SegmentInactive {
			c.Segment = SegmentRegular
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return notFound(id)
	}
	return nil
}

func (s *service) RecordRefund(ctx context.Context, id string, amount float64) error {
	_, ok, err := s.repo.Modify(ctx, id, func(c *Customer) error {
		if c.TotalOrders > 0 {
			c.TotalOrders--
		}
		c.TotalSpent = max(0, currency.Round2(c.TotalSpent-amount))
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return notFound(id)
	}
	return nil
}
