package forwarder

import (
	"context"
	"fmt"
	"strings"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/currency"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

// Service defines forwarder business logic.
type Service interface {
	List(ctx context.Context, service string) ([]Forwarder, error)
	Get(ctx context.Context, id string) (Forwarder, error)
	Create(ctx context.Context, req CreateRequest) (Forwarder, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Forwarder, error)
	Delete(ctx context.Context, id string) error

	// Quote estimates the cost of shipping weightKg at the forwarder's rate.
	Quote(ctx context.Context, id string, weightKg float64) (Quote, error)
	// Recommend ranks the active forwarders able to carry a shipment.
	Recommend(ctx context.Context, req RecommendRequest) (Recommendation, error)
}

type service struct {
	repo Repository
}

// NewService creates a new forwarder service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func notFound(id string) error {
	return fmt.Errorf("forwarder %s: %w", id, jsonstore.ErrNotFound)
}

// List returns every forwarder, or only those offering svc when it is set.
func (s *service) List(ctx context.Context, svc string) ([]Forwarder, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil || svc == "" {
		return all, err
	}
	out := make([]Forwarder, 0, len(all))
	for _, f := range all {
		for _, offered := range f.Services {
			if strings.EqualFold(offered, svc) {
				out = append(out, f)
				break
			}
		}
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (Forwarder, error) {
	f, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Forwarder{}, err
	}
	if !ok {
		return Forwarder{}, notFound(id)
	}
	return f, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (Forwarder, error) {
	if err := validation.Struct(req); err != nil {
		return Forwarder{}, err
	}
	status := req.Status
	if status == "" {
		status = StatusActive
	}
	services := req.Services
	if services == nil {
		services = []string{}
	}
	f, err := s.repo.Create(ctx, Forwarder{
		Name:          strings.TrimSpace(req.Name),
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Country:       req.Country,
		Services:      services,
		RatePerKg:     req.RatePerKg,
		TransitDays:   req.TransitDays,
		Status:        status,
	})
	if err != nil {
		return Forwarder{}, fmt.Errorf("failed to create forwarder: %w", err)
	}
	return f, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (Forwarder, error) {
	if err := validation.Struct(req); err != nil {
		return Forwarder{}, err
	}
	f, ok, err := s.repo.Modify(ctx, id, func(f *Forwarder) error {
		if req.Name != nil {
			f.Name = strings.TrimSpace(*req.Name)
		}
		if req.ContactPerson != nil {
			f.ContactPerson = *req.ContactPerson
		}
		if req.Email != nil {
			f.Email = *req.Email
		}
		if req.Phone != nil {
			f.Phone = *req.Phone
		}
		if req.Country != nil {
			f.Country = *req.Country
		}
		if req.Services != nil {
			f.Services = *req.Services
		}
		if req.RatePerKg != nil {
			f.RatePerKg = *req.RatePerKg
		}
		if req.TransitDays != nil {
			f.TransitDays = *req.TransitDays
		}
		if req.Status != nil {
			f.Status = *req.Status
		}
		return nil
	})
	if err != nil {
		return Forwarder{}, err
	}
	if !ok {
		return Forwarder{}, notFound(id)
	}
	return f, nil
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

func (s *service) Quote(ctx context.Context, id string, weightKg float64) (Quote, error) {
	if weightKg <= 0 {
		return Quote{}, validation.New("weightKg", "gt", "weightKg must be greater than 0")
	}
	f, err := s.Get(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	if f.Status != StatusActive {
		return Quote{}, validation.Newf("id", "active", "forwarder %s is not active", f.Name)
	}
	return Quote{
		ForwarderID: f.ID,
		WeightKg:    weightKg,
		Cost:        currency.Round2(f.RatePerKg * weightKg),
		TransitDays: f.TransitDays,
	}, nil
}
