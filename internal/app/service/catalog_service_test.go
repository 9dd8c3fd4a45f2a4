package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/frecha/iotech-storefront/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalogGateway counts calls and lets a test swap responses or
// stall a providers fetch mid-flight.
type fakeCatalogGateway struct {
	mu sync.Mutex

	providers   []model.Provider
	bundles     map[uint][]model.Bundle
	routers     []model.RouterProduct
	electronics []model.Electronic
	err         error

	providerCalls int
	bundleCalls   int

	// when set, the next Providers call signals providersStarted and
	// stalls until providersBlock is closed; later calls run freely
	providersBlock   chan struct{}
	providersStarted chan struct{}
}

func newFakeCatalogGateway() *fakeCatalogGateway {
	return &fakeCatalogGateway{
		providers: []model.Provider{{ID: 1, Name: "MTN"}},
		bundles: map[uint][]model.Bundle{
			1: {{ID: 10, ProviderID: 1, Name: "10GB", Price: 49.99}},
		},
		routers:     []model.RouterProduct{{ID: 1, Name: "AC1200"}},
		electronics: []model.Electronic{{ID: 1, Name: "Smart Camera"}},
	}
}

func (g *fakeCatalogGateway) Providers(ctx context.Context) ([]model.Provider, error) {
	g.mu.Lock()
	g.providerCalls++
	providers, err := g.providers, g.err
	block := g.providersBlock
	started := g.providersStarted
	g.providersBlock = nil
	g.providersStarted = nil
	g.mu.Unlock()

	if block != nil {
		if started != nil {
			close(started)
		}
		<-block
	}
	return providers, err
}

func (g *fakeCatalogGateway) Bundles(ctx context.Context, providerID uint) ([]model.Bundle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bundleCalls++
	if g.err != nil {
		return nil, g.err
	}
	return g.bundles[providerID], nil
}

func (g *fakeCatalogGateway) Routers(ctx context.Context) ([]model.RouterProduct, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.routers, g.err
}

func (g *fakeCatalogGateway) Electronics(ctx context.Context) ([]model.Electronic, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.electronics, g.err
}

func (g *fakeCatalogGateway) setProviders(providers []model.Provider) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.providers = providers
}

func TestCatalogService_CachesLists(t *testing.T) {
	gateway := newFakeCatalogGateway()
	svc := NewCatalogService(gateway)

	providers, err := svc.Providers(context.Background())
	require.NoError(t, err)
	require.Len(t, providers, 1)

	// second read is served from cache
	_, err = svc.Providers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.providerCalls)
}

func TestCatalogService_BundlesCachedPerProvider(t *testing.T) {
	gateway := newFakeCatalogGateway()
	gateway.bundles[2] = []model.Bundle{{ID: 20, ProviderID: 2, Name: "5GB", Price: 25}}
	svc := NewCatalogService(gateway)

	first, err := svc.Bundles(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, uint(1), first[0].ProviderID)

	second, err := svc.Bundles(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), second[0].ProviderID)

	_, err = svc.Bundles(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, gateway.bundleCalls)
}

func TestCatalogService_ErrorNotCached(t *testing.T) {
	gateway := newFakeCatalogGateway()
	gateway.err = errors.New("upstream down")
	svc := NewCatalogService(gateway)

	_, err := svc.Providers(context.Background())
	require.Error(t, err)

	// after the upstream recovers, the next read succeeds
	gateway.mu.Lock()
	gateway.err = nil
	gateway.mu.Unlock()

	providers, err := svc.Providers(context.Background())
	require.NoError(t, err)
	assert.Len(t, providers, 1)
}

func TestCatalogService_RefreshReplacesCache(t *testing.T) {
	gateway := newFakeCatalogGateway()
	svc := NewCatalogService(gateway)

	_, err := svc.Providers(context.Background())
	require.NoError(t, err)
	_, err = svc.Bundles(context.Background(), 1)
	require.NoError(t, err)

	gateway.setProviders([]model.Provider{{ID: 1, Name: "MTN"}, {ID: 2, Name: "Telecel"}})
	svc.Refresh(context.Background())

	providers, err := svc.Providers(context.Background())
	require.NoError(t, err)
	assert.Len(t, providers, 2)
}

func TestCatalogService_RefreshFailureKeepsOldData(t *testing.T) {
	gateway := newFakeCatalogGateway()
	svc := NewCatalogService(gateway)

	_, err := svc.Providers(context.Background())
	require.NoError(t, err)

	gateway.mu.Lock()
	gateway.err = errors.New("upstream down")
	gateway.mu.Unlock()
	svc.Refresh(context.Background())

	providers, err := svc.Providers(context.Background())
	require.NoError(t, err)
	assert.Len(t, providers, 1)
}

func TestCatalogService_StaleFetchDoesNotOverwriteRefresh(t *testing.T) {
	gateway := newFakeCatalogGateway()
	svc := NewCatalogService(gateway)

	// a providers fetch stalls in flight holding the old one-entry list
	block := make(chan struct{})
	started := make(chan struct{})
	gateway.providersBlock = block
	gateway.providersStarted = started
	fetched := make(chan []model.Provider, 1)
	go func() {
		providers, _ := svc.Providers(context.Background())
		fetched <- providers
	}()
	<-started

	// meanwhile a refresh lands newer data
	gateway.setProviders([]model.Provider{{ID: 1, Name: "MTN"}, {ID: 2, Name: "Telecel"}})
	svc.Refresh(context.Background())

	// let the stale fetch finish; its result must not replace the cache
	close(block)
	<-fetched

	providers, err := svc.Providers(context.Background())
	require.NoError(t, err)
	assert.Len(t, providers, 2)
}
