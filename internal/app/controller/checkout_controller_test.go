package controller

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/frecha/iotech-storefront/internal/app/model"
	"github.com/frecha/iotech-storefront/internal/app/repository"
	"github.com/frecha/iotech-storefront/internal/app/service"
	"github.com/frecha/iotech-storefront/internal/db"
	"github.com/frecha/iotech-storefront/internal/middleware"
	"github.com/frecha/iotech-storefront/pkg/storeapi"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubOrderGateway struct {
	mu           sync.Mutex
	confirmation *model.OrderConfirmation
	err          error
}

func (g *stubOrderGateway) SubmitOrder(ctx context.Context, req storeapi.OrderRequest) (*model.OrderConfirmation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.confirmation, g.err
}

type stubAuthGateway struct{}

func (stubAuthGateway) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	return &model.User{ID: 1, Username: username, Email: username + "@example.com"}, "tok", nil
}

func (stubAuthGateway) Signup(ctx context.Context, req storeapi.SignupRequest) (*model.User, string, error) {
	return &model.User{ID: 2, Username: req.Username, Email: req.Email}, "tok", nil
}

func (stubAuthGateway) Logout(ctx context.Context, token string) error { return nil }

func (stubAuthGateway) Me(ctx context.Context, token string) (*model.User, error) {
	return &model.User{ID: 1}, nil
}

type stubSessionRepo struct {
	mu         sync.Mutex
	identities map[string]*model.Identity
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{identities: make(map[string]*model.Identity)}
}

func (r *stubSessionRepo) SaveIdentity(sessionID string, identity *model.Identity, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.identities[sessionID] = identity
	return nil
}

func (r *stubSessionRepo) GetIdentity(sessionID string) (*model.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if identity, ok := r.identities[sessionID]; ok {
		return identity, nil
	}
	return model.Anonymous(), nil
}

func (r *stubSessionRepo) ClearIdentity(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.identities, sessionID)
	return nil
}

func (r *stubSessionRepo) PushRecentSearch(sessionID, trackingNumber string) error { return nil }

func (r *stubSessionRepo) RecentSearches(sessionID string) ([]string, error) { return nil, nil }

var _ repository.SessionRepository = (*stubSessionRepo)(nil)

func setupCheckoutRouter(t *testing.T) (*gorm.DB, *gin.Engine, service.CartService, *stubOrderGateway) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	cartService := service.NewCartService(repository.NewCartSnapshotRepository(testDB))
	sessions := newStubSessionRepo()
	authService := service.NewAuthService(stubAuthGateway{}, sessions, time.Hour)
	gateway := &stubOrderGateway{}
	checkoutService := service.NewCheckoutService(cartService, authService, sessions, gateway, 6, time.Hour)

	ctrl := NewCheckoutController(checkoutService)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.SessionIDKey, "sess-1")
	})
	r.POST("/checkout", ctrl.Begin)
	r.GET("/checkout", ctrl.Get)
	r.POST("/checkout/choice", ctrl.Choose)
	r.POST("/checkout/confirm", ctrl.Confirm)
	r.POST("/checkout/retry", ctrl.Retry)
	r.POST("/checkout/back", ctrl.Back)
	r.DELETE("/checkout", ctrl.Cancel)

	return testDB, r, cartService, gateway
}

func seedCart(t *testing.T, cartService service.CartService) {
	_, err := cartService.Add("sess-1", model.LineItem{
		ProductID: 1, Name: "Router A", UnitPrice: 79.99, Quantity: 1, Category: "router",
	})
	require.NoError(t, err)
}

func confirmPayload() gin.H {
	return gin.H{
		"name":             "Ama Mensah",
		"email":            "ama@example.com",
		"phone":            "0240000000",
		"shipping_address": "12 Ring Road, Accra",
	}
}

func TestCheckoutController_BeginEmptyCart(t *testing.T) {
	testDB, r, _, _ := setupCheckoutRouter(t)
	defer db.CleanupTestDB(testDB)

	w := doJSON(r, http.MethodPost, "/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CART_EMPTY")
}

func TestCheckoutController_FullGuestFlow(t *testing.T) {
	testDB, r, cartService, gateway := setupCheckoutRouter(t)
	defer db.CleanupTestDB(testDB)

	gateway.confirmation = &model.OrderConfirmation{OrderID: "ORD-1", OrderNumber: "ORD-1", TrackingNumber: "FRE1"}
	seedCart(t, cartService)

	w := doJSON(r, http.MethodPost, "/checkout", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"step":"choice"`)

	w = doJSON(r, http.MethodPost, "/checkout/choice", gin.H{"path": "guest"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"step":"guest_details"`)

	w = doJSON(r, http.MethodPost, "/checkout/confirm", confirmPayload())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"step":"success"`)
	assert.Contains(t, w.Body.String(), "FRE1")

	cart, err := cartService.Get("sess-1")
	require.NoError(t, err)
	assert.Len(t, cart.Lines, 0)
}

func TestCheckoutController_ConfirmValidationError(t *testing.T) {
	testDB, r, cartService, _ := setupCheckoutRouter(t)
	defer db.CleanupTestDB(testDB)

	seedCart(t, cartService)
	doJSON(r, http.MethodPost, "/checkout", nil)
	doJSON(r, http.MethodPost, "/checkout/choice", gin.H{"path": "guest"})

	payload := confirmPayload()
	payload["shipping_address"] = ""
	w := doJSON(r, http.MethodPost, "/checkout/confirm", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "shipping_address")

	// still on the details step
	w = doJSON(r, http.MethodGet, "/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"step":"guest_details"`)
}

func TestCheckoutController_FailureAndRetry(t *testing.T) {
	testDB, r, cartService, gateway := setupCheckoutRouter(t)
	defer db.CleanupTestDB(testDB)

	gateway.err = fmt.Errorf("%w: %s", storeapi.ErrOrderRejected, "Out of stock")
	seedCart(t, cartService)
	doJSON(r, http.MethodPost, "/checkout", nil)
	doJSON(r, http.MethodPost, "/checkout/choice", gin.H{"path": "guest"})

	w := doJSON(r, http.MethodPost, "/checkout/confirm", confirmPayload())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"step":"failure"`)
	assert.Contains(t, w.Body.String(), "Out of stock")

	gateway.mu.Lock()
	gateway.err = nil
	gateway.confirmation = &model.OrderConfirmation{OrderID: "ORD-2", TrackingNumber: "FRE2"}
	gateway.mu.Unlock()

	w = doJSON(r, http.MethodPost, "/checkout/retry", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"step":"success"`)
}

func TestCheckoutController_BackFromChoiceCancels(t *testing.T) {
	testDB, r, cartService, _ := setupCheckoutRouter(t)
	defer db.CleanupTestDB(testDB)

	seedCart(t, cartService)
	doJSON(r, http.MethodPost, "/checkout", nil)

	w := doJSON(r, http.MethodPost, "/checkout/back", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cancelled")

	w = doJSON(r, http.MethodGet, "/checkout", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutController_RetryWithoutFailure(t *testing.T) {
	testDB, r, cartService, _ := setupCheckoutRouter(t)
	defer db.CleanupTestDB(testDB)

	seedCart(t, cartService)
	doJSON(r, http.MethodPost, "/checkout", nil)

	w := doJSON(r, http.MethodPost, "/checkout/retry", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
