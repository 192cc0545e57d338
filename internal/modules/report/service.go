package report

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

// Service defines report business logic.
type Service interface {
	List(ctx context.Context, f ListFilter) ([]Report, error)
	Get(ctx context.Context, id string) (Report, error)
	// Generate computes and saves a report.
	Generate(ctx context.Context, req GenerateRequest) (Report, error)
	// Regenerate recomputes the figures of a saved report over its period.
	Regenerate(ctx context.Context, id string) (Report, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Report, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
	gen  *Generator
	log  logrus.FieldLogger
}

// NewService creates a new report service.
func NewService(repo Repository, gen *Generator, log logrus.FieldLogger) Service {
	return &service{repo: repo, gen: gen, log: log}
}

func notFound(id string) error {
	return fmt.Errorf("report %s: %w", id, jsonstore.ErrNotFound)
}

func (s *service) List(ctx context.Context, f ListFilter) ([]Report, error) {
	reports, err := s.repo.Filter(ctx, func(r Report) bool {
		return f.Type == "" || r.Type == f.Type
	})
	if err != nil {
		return nil, err
	}
	slices.Reverse(reports)
	return reports, nil
}

func (s *service) Get(ctx context.Context, id string) (Report, error) {
	r, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Report{}, err
	}
	if !ok {
		return Report{}, notFound(id)
	}
	return r, nil
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (Report, error) {
	if err := validation.Struct(req); err != nil {
		return Report{}, err
	}
	start, end := req.PeriodStart.UTC(), req.PeriodEnd.UTC()
	data, err := s.gen.Compute(ctx, start, end)
	if err != nil {
		return Report{}, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultTitle(req.Type, start, end)
	}
	r, err := s.repo.Create(ctx, Report{
		Type:        req.Type,
		Title:       title,
		PeriodStart: start,
		PeriodEnd:   end,
		Data:        data,
		Notes:       req.Notes,
	})
	if err != nil {
		return Report{}, fmt.Errorf("failed to save report: %w", err)
	}
	s.log.WithFields(logrus.Fields{"id": r.ID, "type": r.Type, "revenue": data.Revenue}).Info("report generated")
	return r, nil
}

func defaultTitle(t Type, start, end time.Time) string {
	name := strings.ToUpper(string(t[:1])) + string(t[1:])
	return fmt.Sprintf("%s report %s to %s", name, start.Format(time.DateOnly), end.Format(time.DateOnly))
}

func (s *service) Regenerate(ctx context.Context, id string) (Report, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Report{}, err
	}
	data, err := s.gen.Compute(ctx, current.PeriodStart, current.PeriodEnd)
	if err != nil {
		return Report{}, err
	}
	r, ok, err := s.repo.Modify(ctx, id, func(r *Report) error {
		r.Data = data
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	if !ok {
		return Report{}, notFound(id)
	}
	return r, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (Report, error) {
	if err := validation.Struct(req); err != nil {
		return Report{}, err
	}
	r, ok, err := s.repo.Modify(ctx, id, func(r *Report) error {
		if req.Title != nil {
			r.Title = strings.TrimSpace(*req.Title)
		}
		if req.Notes != nil {
			r.Notes = *req.Notes
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	if !ok {
		return Report{}, notFound(id)
	}
	return r, nil
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
