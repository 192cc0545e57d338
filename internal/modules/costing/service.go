package costing

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/currency"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

// Service defines costing business logic.
type Service interface {
	List(ctx context.Context) ([]Costing, error)
	Get(ctx context.Context, id string) (Costing, error)
	Create(ctx context.Context, req CreateRequest) (Costing, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Costing, error)
	Delete(ctx context.Context, id string) error
	// Preview computes a costing without saving it.
	Preview(ctx context.Context, in Inputs) (Result, error)
}

type service struct {
	repo         Repository
	baseCurrency func() currency.Code
}

// NewService creates a new costing service. baseCurrency supplies the currency of
// costings that do not name one.
func NewService(repo Repository, baseCurrency func() currency.Code) Service {
	return &service{repo: repo, baseCurrency: baseCurrency}
}

func notFound(id string) error {
	return fmt.Errorf("costing %s: %w", id, jsonstore.ErrNotFound)
}

func (s *service) List(ctx context.Context) ([]Costing, error) {
	return s.repo.FindAll(ctx)
}

func (s *service) Get(ctx context.Context, id string) (Costing, error) {
	c, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Costing{}, err
	}
	if !ok {
		return Costing{}, notFound(id)
	}
	return c, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (Costing, error) {
	if err := validation.Struct(req); err != nil {
		return Costing{}, err
	}
	code := s.baseCurrency()
	if req.Currency != "" {
		code = currency.Code(req.Currency)
	}
	c := Costing{
		ProductName:   strings.TrimSpace(req.ProductName),
		SupplierID:    req.SupplierID,
		ForwarderID:   req.ForwarderID,
		Quantity:      req.Quantity,
		PurchasePrice: *req.PurchasePrice,
		ShippingCost:  req.ShippingCost,
		CustomsDuty:   req.CustomsDuty,
		OtherCosts:    req.OtherCosts,
		MarkupPercent: req.MarkupPercent,
		Currency:      code,
		Notes:         req.Notes,
	}
	c.apply(Calculate(c.inputs()))
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return Costing{}, fmt.Errorf("failed to create costing: %w", err)
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (Costing, error) {
	if err := validation.Struct(req); err != nil {
		return Costing{}, err
	}
	c, ok, err := s.repo.Modify(ctx, id, func(c *Costing) error {
		if req.ProductName != nil {
			c.ProductName = strings.TrimSpace(*req.ProductName)
		}
		if req.SupplierID != nil {
			c.SupplierID = *req.SupplierID
		}
		if req.ForwarderID != nil {
			c.ForwarderID = *req.ForwarderID
		}
		if req.Quantity != nil {
			c.Quantity = *req.Quantity
		}
		if req.PurchasePrice != nil {
			c.PurchasePrice = *req.PurchasePrice
		}
		if req.ShippingCost != nil {
			c.ShippingCost = *req.ShippingCost
		}
		if req.CustomsDuty != nil {
			c.CustomsDuty = *req.CustomsDuty
		}
		if req.OtherCosts != nil {
			c.OtherCosts = *req.OtherCosts
		}
		if req.MarkupPercent != nil {
			c.MarkupPercent = *req.MarkupPercent
		}
		if req.Notes != nil {
			c.Notes = *req.Notes
		}
		c.apply(Calculate(c.inputs()))
		return nil
	})
	if err != nil {
		return Costing{}, err
	}
	if !ok {
		return Costing{}, notFound(id)
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

func (s *service) Preview(_ context.Context, in Inputs) (Result, error) {
	if err := validation.Struct(in); err != nil {
		return Result{}, err
	}
	return Calculate(in), nil
}
