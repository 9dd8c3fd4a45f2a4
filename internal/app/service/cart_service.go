package service

import (
	"errors"
	"sync"

	"github.com/frecha/iotech-storefront/internal/app/model"
	"github.com/frecha/iotech-storefront/internal/app/repository"
	"github.com/frecha/iotech-storefront/pkg/logger"
)

var ErrCartEmpty = errors.New("cart is empty")

// CartService owns the live cart for each shopper session. Mutations go
// through here so every change lands in one place and gets snapshotted.
// Snapshot writes are best effort: a failed write is logged and the
// in-memory cart stays authoritative for the life of the process.
type CartService interface {
	Get(sessionID string) (*model.Cart, error)
	Add(sessionID string, item model.LineItem) (*model.Cart, error)
	UpdateQuantity(sessionID string, key model.ItemKey, quantity int) (*model.Cart, error)
	Remove(sessionID string, key model.ItemKey) (*model.Cart, error)
	Clear(sessionID string) error
}

type cartService struct {
	snapshotRepo repository.CartSnapshotRepository

	mu    sync.Mutex
	carts map[string]*model.Cart
}

func NewCartService(snapshotRepo repository.CartSnapshotRepository) CartService {
	return &cartService{
		snapshotRepo: snapshotRepo,
		carts:        make(map[string]*model.Cart),
	}
}

// cartLocked returns the live cart for the session, restoring it from the
// last snapshot on first touch. Caller must hold s.mu.
func (s *cartService) cartLocked(sessionID string) *model.Cart {
	if cart, ok := s.carts[sessionID]; ok {
		return cart
	}

	cart := &model.Cart{}
	restored, err := s.snapshotRepo.Load(sessionID)
	switch {
	case err == nil:
		cart = restored
		logger.Info("Cart restored from snapshot", map[string]interface{}{
			"session_id": sessionID,
			"lines":      len(cart.Lines),
		})
	case errors.Is(err, repository.ErrSnapshotNotFound):
		// fresh session
	default:
		logger.Warn("Cart snapshot unreadable, starting empty", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	s.carts[sessionID] = cart
	return cart
}

// persistLocked writes the snapshot for the session's current cart.
// Failures are logged only. Caller must hold s.mu.
func (s *cartService) persistLocked(sessionID string, cart *model.Cart) {
	if err := s.snapshotRepo.Save(sessionID, cart); err != nil {
		logger.Warn("Cart snapshot write failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

func (s *cartService) Get(sessionID string) (*model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartLocked(sessionID).Clone()
	return &cart, nil
}

func (s *cartService) Add(sessionID string, item model.LineItem) (*model.Cart, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"session_id": sessionID,
		"product_id": item.ProductID,
		"category":   item.Category,
		"quantity":   item.Quantity,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartLocked(sessionID)
	if i := cart.IndexOf(item.Key()); i >= 0 {
		cart.Lines[i].Quantity += item.Quantity
	} else {
		cart.Lines = append(cart.Lines, item)
	}

	s.persistLocked(sessionID, cart)
	clone := cart.Clone()
	return &clone, nil
}

// UpdateQuantity sets the quantity for the line identified by key. A
// quantity of zero removes the line entirely. An absent key is a no-op
// so a stale client can never conjure a new line.
func (s *cartService) UpdateQuantity(sessionID string, key model.ItemKey, quantity int) (*model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartLocked(sessionID)
	i := cart.IndexOf(key)
	if i < 0 {
		logger.Debug("Update for absent cart line ignored", map[string]interface{}{
			"session_id": sessionID,
			"product_id": key.ProductID,
			"category":   key.Category,
		})
		clone := cart.Clone()
		return &clone, nil
	}

	if quantity <= 0 {
		cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
	} else {
		cart.Lines[i].Quantity = quantity
	}

	s.persistLocked(sessionID, cart)
	clone := cart.Clone()
	return &clone, nil
}

func (s *cartService) Remove(sessionID string, key model.ItemKey) (*model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartLocked(sessionID)
	i := cart.IndexOf(key)
	if i < 0 {
		clone := cart.Clone()
		return &clone, nil
	}
	cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)

	s.persistLocked(sessionID, cart)
	clone := cart.Clone()
	return &clone, nil
}

func (s *cartService) Clear(sessionID string) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"session_id": sessionID,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[sessionID] = &model.Cart{}
	if err := s.snapshotRepo.Delete(sessionID); err != nil {
		logger.Warn("Cart snapshot delete failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
	return nil
}
