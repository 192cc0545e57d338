package notification

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/settings"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

// Service defines notification business logic.
type Service interface {
	List(ctx context.Context, unreadOnly bool) ([]Notification, error)
	Get(ctx context.Context, id string) (Notification, error)
	Create(ctx context.Context, req CreateRequest) (Notification, error)
	MarkRead(ctx context.Context, id string) (Notification, error)
	MarkAllRead(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error

	// Notify posts a notification on behalf of another module. Low-stock and order
	// notifications are dropped when muted in the settings.
	Notify(ctx context.Context, t Type, title, message, link string) error

	// SetPreferences replaces the toggles consulted by Notify.
	SetPreferences(p settings.Notifications)
	// Watch consumes settings changes until ctx is done or changes is closed.
	Watch(ctx context.Context, changes <-chan settings.Change)
}

type service struct {
	repo Repository
	log  logrus.FieldLogger

	mu    sync.RWMutex
	prefs settings.Notifications
}

// NewService creates a new notification service with every notification enabled.
func NewService(repo Repository, log logrus.FieldLogger) Service {
	return &service{
		repo:  repo,
		log:   log,
		prefs: settings.Notifications{Email: true, LowStock: true, Orders: true},
	}
}

func notFound(id string) error {
	return fmt.Errorf("notification %s: %w", id, jsonstore.ErrNotFound)
}

// List returns the newest notifications first.
func (s *service) List(ctx context.Context, unreadOnly bool) ([]Notification, error) {
	list, err := s.repo.Filter(ctx, func(n Notification) bool { return !unreadOnly || !n.Read })
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id string) (Notification, error) {
	n, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Notification{}, err
	}
	if !ok {
		return Notification{}, notFound(id)
	}
	return n, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (Notification, error) {
	if err := validation.Struct(req); err != nil {
		return Notification{}, err
	}
	n, err := s.repo.Create(ctx, Notification{
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
		Link:    req.Link,
	})
	if err != nil {
		return Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

func (s *service) MarkRead(ctx context.Context, id string) (Notification, error) {
	patch := jsonstore.Patch{}
	if err := patch.Set("read", true); err != nil {
		return Notification{}, err
	}
	n, ok, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return Notification{}, err
	}
	if !ok {
		return Notification{}, notFound(id)
	}
	return n, nil
}

func (s *service) MarkAllRead(ctx context.Context) (int, error) {
	return s.repo.ModifyWhere(ctx,
		func(n Notification) bool { return !n.Read },
		func(n *Notification) error {
			n.Read = true
			return nil
		})
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

func (s *service) Notify(ctx context.Context, t Type, title, message, link string) error {
	if s.muted(t) {
		s.log.WithFields(logrus.Fields{"type": t, "title": title}).Debug("notification muted")
		return nil
	}
	_, err := s.repo.Create(ctx, Notification{Type: t, Title: title, Message: message, Link: link})
	if err != nil {
		return fmt.Errorf("failed to store %s notification: %w", t, err)
	}
	return nil
}

func (s *service) muted(t Type) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch t {
	case TypeLowStock:
		return !s.prefs.LowStock
	case TypeOrder:
		return !s.prefs.Orders
	default:
		return false
	}
}

func (s *service) SetPreferences(p settings.Notifications) {
	s.mu.Lock()
	s.prefs = p
	s.mu.Unlock()
}

func (s *service) Watch(ctx context.Context, changes <-chan settings.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			s.SetPreferences(change.Current.Notifications)
			title, message := "Settings updated", "Business settings were changed."
			if change.CurrencyChanged() {
				title = "Currency changed"
				message = fmt.Sprintf("Stored amounts were converted from %s to %s.",
					change.Previous.Currency, change.Current.Currency)
			}
			if err := s.Notify(ctx, TypeSettings, title, message, "/settings"); err != nil {
				s.log.WithError(err).Error("failed to record settings notification")
			}
		}
	}
}
