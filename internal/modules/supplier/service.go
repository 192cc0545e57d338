package supplier

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

// Service defines supplier business logic.
type Service interface {
	List(ctx context.Context, status Status) ([]Supplier, error)
	Get(ctx context.Context, id string) (Supplier, error)
	Create(ctx context.Context, req CreateRequest) (Supplier, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Supplier, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

// NewService creates a new supplier service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func notFound(id string) error {
	return fmt.Errorf("supplier %s: %w", id, jsonstore.ErrNotFound)
}

func (s *service) List(ctx context.Context, status Status) ([]Supplier, error) {
	all, err := s.repo.List(ctx)
	if err != nil || status == "" {
		return all, err
	}
	out := make([]Supplier, 0, len(all))
	for _, sup := range all {
		if sup.Status == status {
			out = append(out, sup)
		}
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (Supplier, error) {
	sup, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return Supplier{}, err
	}
	if !ok {
		return Supplier{}, notFound(id)
	}
	return sup, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (Supplier, error) {
	if err := validation.Struct(req); err != nil {
		return Supplier{}, err
	}
	status := req.Status
	if status == "" {
		status = StatusActive
	}
	products := req.Products
	if products == nil {
		products = []string{}
	}
	sup, err := s.repo.Create(ctx, Supplier{
		Name:          strings.TrimSpace(req.Name),
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Country:       req.Country,
		Products:      products,
		Status:        status,
		Rating:        req.Rating,
		Notes:         req.Notes,
	})
	if err != nil {
		return Supplier{}, fmt.Errorf("failed to create supplier: %w", err)
	}
	return sup, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (Supplier, error) {
	if err := validation.Struct(req); err != nil {
		return Supplier{}, err
	}
	sup, ok, err := s.repo.Modify(ctx, id, func(sup *Supplier) error {
		if req.Name != nil {
			sup.Name = strings.TrimSpace(*req.Name)
		}
		if req.ContactPerson != nil {
			sup.ContactPerson = *req.ContactPerson
		}
		if req.Email != nil {
			sup.Email = *req.Email
		}
		if req.Phone != nil {
			sup.Phone = *req.Phone
		}
		if req.Address != nil {
			sup.Address = *req.Address
		}
		if req.Country != nil {
			sup.Country = *req.Country
		}
		if req.Products != nil {
			sup.Products = *req.Products
		}
		if req.Status != nil {
			sup.Status = *req.Status
		}
		if req.Rating != nil {
			sup.Rating = *req.Rating
		}
		if req.Notes != nil {
			sup.Notes = *req.Notes
		}
		return nil
	})
	if err != nil {
		return Supplier{}, err
	}
	if !ok {
		return Supplier{}, notFound(id)
	}
	return sup, nil
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
