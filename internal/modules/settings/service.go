package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/currency"
	"github.com/georgemunganga/bizdesk-backend/internal/validation"
)

// Converter rewrites stored amounts from one currency to another.
type Converter interface {
	ConvertAll(ctx context.Context, from, to currency.Code) error
}

// Service defines the settings lifecycle.
type Service interface {
	// Load reads settings.json, merged over the defaults, into memory.
	Load(ctx context.Context) (Settings, error)
	// Current returns the in-memory settings without touching the disk.
	Current() Settings
	// Update applies req. A currency change converts every stored amount first; if that
	// fails nothing is saved and the error is returned.
	Update(ctx context.Context, req UpdateRequest) (Settings, error)
	// Reset restores the defaults, converting stored amounts when the currency changes.
	Reset(ctx context.Context) (Settings, error)
	// ConvertCurrency rewrites stored amounts without changing the settings.
	ConvertCurrency(ctx context.Context, req ConvertCurrencyRequest) error
}

type service struct {
	store     *jsonstore.Object[Settings]
	converter Converter
	broker    *Broker
	log       logrus.FieldLogger

	mu      sync.RWMutex
	current Settings
}

// NewStore returns the settings.json object with the given defaults.
func NewStore(db *jsonstore.DB, defaults Settings) *jsonstore.Object[Settings] {
	return jsonstore.NewObject(db, "settings", defaults)
}

// NewService creates a settings service. Call Load before serving requests.
func NewService(store *jsonstore.Object[Settings], converter Converter, broker *Broker, log logrus.FieldLogger) Service {
	return &service{
		store:     store,
		converter: converter,
		broker:    broker,
		log:       log,
		current:   store.Defaults(),
	}
}

func (s *service) Load(ctx context.Context) (Settings, error) {
	loaded, err := s.store.Load(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
	return loaded, nil
}

func (s *service) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (Settings, error) {
	if err := validation.Struct(req); err != nil {
		return Settings{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, req.apply(s.current))
}

func (s *service) Reset(ctx context.Context) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, s.store.Defaults())
}

// save persists next and publishes the change. The caller holds s.mu.
func (s *service) save(ctx context.Context, next Settings) (Settings, error) {
	prev := s.current
	change := Change{Previous: prev, Current: next}

	if change.CurrencyChanged() {
		log := s.log.WithFields(logrus.Fields{"from": prev.Currency, "to": next.Currency})
		log.Info("base currency changing, converting stored amounts")
		if err := s.converter.ConvertAll(ctx, prev.Currency, next.Currency); err != nil {
			log.WithError(err).Error("currency conversion failed, settings not saved")
			return Settings{}, fmt.Errorf("failed to convert stored amounts: %w", err)
		}
	}

	if err := s.store.Save(ctx, next); err != nil {
		return Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	s.current = next
	s.broker.Publish(change)
	return next, nil
}

func (s *service) ConvertCurrency(ctx context.Context, req ConvertCurrencyRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	return s.converter.ConvertAll(ctx, currency.Code(req.FromCurrency), currency.Code(req.ToCurrency))
}
