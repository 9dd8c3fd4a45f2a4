package service

import (
	"context"
	"errors"
	"sync"

	"github.com/frecha/iotech-storefront/internal/app/model"
	"github.com/frecha/iotech-storefront/pkg/logger"
)

var ErrCatalogUnavailable = errors.New("catalog unavailable")

// CatalogGateway is the read-only slice of the store API serving the
// product lists. Satisfied by *storeapi.Client.
type CatalogGateway interface {
	Providers(ctx context.Context) ([]model.Provider, error)
	Bundles(ctx context.Context, providerID uint) ([]model.Bundle, error)
	Routers(ctx context.Context) ([]model.RouterProduct, error)
	Electronics(ctx context.Context) ([]model.Electronic, error)
}

// CatalogService serves the storefront's product lists from an in-memory
// cache, refreshed on a schedule. A fetch started before a refresh must
// not overwrite the refreshed data, so every cache write is tagged with
// the generation observed when the fetch began.
type CatalogService interface {
	Providers(ctx context.Context) ([]model.Provider, error)
	Bundles(ctx context.Context, providerID uint) ([]model.Bundle, error)
	Routers(ctx context.Context) ([]model.RouterProduct, error)
	Electronics(ctx context.Context) ([]model.Electronic, error)
	Refresh(ctx context.Context)
}

type catalogService struct {
	gateway CatalogGateway

	mu          sync.Mutex
	gen         uint64
	providers   []model.Provider
	routers     []model.RouterProduct
	electronics []model.Electronic
	bundles     map[uint][]model.Bundle

	hasProviders   bool
	hasRouters     bool
	hasElectronics bool
}

func NewCatalogService(gateway CatalogGateway) CatalogService {
	return &catalogService{
		gateway: gateway,
		bundles: make(map[uint][]model.Bundle),
	}
}

func (s *catalogService) Providers(ctx context.Context) ([]model.Provider, error) {
	s.mu.Lock()
	if s.hasProviders {
		cached := append([]model.Provider(nil), s.providers...)
		s.mu.Unlock()
		return cached, nil
	}
	gen := s.gen
	s.mu.Unlock()

	providers, err := s.gateway.Providers(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.gen == gen {
		s.providers = providers
		s.hasProviders = true
	}
	s.mu.Unlock()
	return providers, nil
}

func (s *catalogService) Bundles(ctx context.Context, providerID uint) ([]model.Bundle, error) {
	s.mu.Lock()
	if cached, ok := s.bundles[providerID]; ok {
		result := append([]model.Bundle(nil), cached...)
		s.mu.Unlock()
		return result, nil
	}
	gen := s.gen
	s.mu.Unlock()

	bundles, err := s.gateway.Bundles(ctx, providerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.gen == gen {
		s.bundles[providerID] = bundles
	}
	s.mu.Unlock()
	return bundles, nil
}

func (s *catalogService) Routers(ctx context.Context) ([]model.RouterProduct, error) {
	s.mu.Lock()
	if s.hasRouters {
		cached := append([]model.RouterProduct(nil), s.routers...)
		s.mu.Unlock()
		return cached, nil
	}
	gen := s.gen
	s.mu.Unlock()

	routers, err := s.gateway.Routers(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.gen == gen {
		s.routers = routers
		s.hasRouters = true
	}
	s.mu.Unlock()
	return routers, nil
}

func (s *catalogService) Electronics(ctx context.Context) ([]model.Electronic, error) {
	s.mu.Lock()
	if s.hasElectronics {
		cached := append([]model.Electronic(nil), s.electronics...)
		s.mu.Unlock()
		return cached, nil
	}
	gen := s.gen
	s.mu.Unlock()

	electronics, err := s.gateway.Electronics(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.gen == gen {
		s.electronics = electronics
		s.hasElectronics = true
	}
	s.mu.Unlock()
	return electronics, nil
}

// Refresh refetches every cached list. Bumping the generation first
// makes any fetch that raced with the refresh land in the bin instead
// of the cache. Lists that fail to refresh keep their previous data.
func (s *catalogService) Refresh(ctx context.Context) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	providerIDs := make([]uint, 0, len(s.bundles))
	for id := range s.bundles {
		providerIDs = append(providerIDs, id)
	}
	s.mu.Unlock()

	logger.Info("Refreshing catalog caches", map[string]interface{}{
		"generation": gen,
	})

	if providers, err := s.gateway.Providers(ctx); err == nil {
		s.install(gen, func(s *catalogService) { s.providers = providers; s.hasProviders = true })
	} else {
		logger.Warn("Provider refresh failed", map[string]interface{}{"error": err.Error()})
	}

	if routers, err := s.gateway.Routers(ctx); err == nil {
		s.install(gen, func(s *catalogService) { s.routers = routers; s.hasRouters = true })
	} else {
		logger.Warn("Router refresh failed", map[string]interface{}{"error": err.Error()})
	}

	if electronics, err := s.gateway.Electronics(ctx); err == nil {
		s.install(gen, func(s *catalogService) { s.electronics = electronics; s.hasElectronics = true })
	} else {
		logger.Warn("Electronics refresh failed", map[string]interface{}{"error": err.Error()})
	}

	for _, id := range providerIDs {
		providerID := id
		if bundles, err := s.gateway.Bundles(ctx, providerID); err == nil {
			s.install(gen, func(s *catalogService) { s.bundles[providerID] = bundles })
		} else {
			logger.Warn("Bundle refresh failed", map[string]interface{}{
				"provider_id": providerID,
				"error":       err.Error(),
			})
		}
	}
}

// install applies a cache write only if no newer refresh superseded the
// generation the data was fetched under.
func (s *catalogService) install(gen uint64, apply func(*catalogService)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		apply(s)
	}
}
