package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alejogim/sistema-de-reserva/internal/model"
	"github.com/alejogim/sistema-de-reserva/internal/service/ports"
)

const defaultDurationMin = 60

// ServiceInput is the editable part of a service. Active is only honoured
// on update; new services always start active.
type ServiceInput struct {
	Name        string
	Description string
	Price       model.Cents
	DurationMin int
	Active      *bool
}

func (in ServiceInput) validate() (ServiceInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", model.ErrValidation)
	}
	if in.Price < 0 {
		return in, fmt.Errorf("%w: price must not be negative", model.ErrValidation)
	}
	if in.DurationMin < 0 {
		return in, fmt.Errorf("%w: duration must not be negative", model.ErrValidation)
	}
	if in.DurationMin == 0 {
		in.DurationMin = defaultDurationMin
	}
	return in, nil
}

// CatalogService manages services and lists clients.
type CatalogService struct {
	services ports.ServiceStore
	clients  ports.ClientStore
	cache    ports.CachePurger
	log      *zap.Logger
}

// NewCatalogService wires a catalogue. cache may be nil.
func NewCatalogService(services ports.ServiceStore, clients ports.ClientStore, cache ports.CachePurger, log *zap.Logger) *CatalogService {
	return &CatalogService{services: services, clients: clients, cache: cache, log: log}
}

func (s *CatalogService) ListActive(ctx context.Context) ([]model.Service, error) {
	return s.services.ListActive(ctx)
}

func (s *CatalogService) ListAll(ctx context.Context) ([]model.Service, error) {
	return s.services.ListAll(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*model.Service, error) {
	return s.services.GetByID(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, in ServiceInput) (*model.Service, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	svc := &model.Service{Name: in.Name, Description: in.Description, Price: in.Price, DurationMin: in.DurationMin}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	s.log.Info("service created", zap.Int64("service_id", svc.ID), zap.String("name", svc.Name))
	s.purge(ctx)
	return svc, nil
}

func (s *CatalogService) Update(ctx context.Context, id int64, in ServiceInput) (*model.Service, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	svc.Name = in.Name
	svc.Description = in.Description
	svc.Price = in.Price
	svc.DurationMin = in.DurationMin
	if in.Active != nil {
		svc.Active = *in.Active
	}
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}
	s.log.Info("service updated", zap.Int64("service_id", id))
	s.purge(ctx)
	return svc, nil
}

// Deactivate soft deletes a service. Its reservations stay readable.
func (s *CatalogService) Deactivate(ctx context.Context, id int64) error {
	if err := s.services.Deactivate(ctx, id); err != nil {
		return err
	}
	s.log.Info("service deactivated", zap.Int64("service_id", id))
	s.purge(ctx)
	return nil
}

func (s *CatalogService) ListClients(ctx context.Context) ([]model.ClientSummary, error) {
	return s.clients.ListWithCounts(ctx)
}

func (s *CatalogService) purge(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Purge(ctx); err != nil {
		s.log.Warn("purge response cache", zap.Error(err))
	}
}
