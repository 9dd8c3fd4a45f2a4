package repository

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/frecha/iotech-storefront/internal/app/model"
	"github.com/frecha/iotech-storefront/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// CartSnapshotRepository persists cart contents keyed by session id so a
// shopper's cart survives restarts and reconnects.
type CartSnapshotRepository interface {
	Save(sessionID string, cart *model.Cart) error
	Load(sessionID string) (*model.Cart, error)
	Delete(sessionID string) error
}

type cartSnapshotRepository struct {
	db *gorm.DB
}

func NewCartSnapshotRepository(db *gorm.DB) CartSnapshotRepository {
	return &cartSnapshotRepository{db: db}
}

// snapshotLine is the stored form of a cart line. Unit prices are kept as
// strings so the decimal representation round-trips exactly.
type snapshotLine struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Category  string `json:"category"`
}

func (r *cartSnapshotRepository) Save(sessionID string, cart *model.Cart) error {
	logger.Debug("Saving cart snapshot", map[string]interface{}{
		"session_id": sessionID,
		"lines":      len(cart.Lines),
	})

	lines := make([]snapshotLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, snapshotLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: strconv.FormatFloat(line.UnitPrice, 'f', -1, 64),
			Quantity:  line.Quantity,
			Category:  line.Category,
		})
	}

	data, err := json.Marshal(lines)
	if err != nil {
		logger.Error("Failed to encode cart snapshot", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}

	snapshot := model.CartSnapshot{
		SessionID: sessionID,
		Data:      string(data),
	}
	err = r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&snapshot).Error
	if err != nil {
		logger.Error("Failed to save cart snapshot", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}
	return nil
}

func (r *cartSnapshotRepository) Load(sessionID string) (*model.Cart, error) {
	var snapshot model.CartSnapshot
	err := r.db.First(&snapshot, "session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		logger.Error("Failed to load cart snapshot", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	var lines []snapshotLine
	if err := json.Unmarshal([]byte(snapshot.Data), &lines); err != nil {
		logger.Error("Failed to decode cart snapshot", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	cart := &model.Cart{Lines: make([]model.LineItem, 0, len(lines))}
	for _, line := range lines {
		price, err := strconv.ParseFloat(line.UnitPrice, 64)
		if err != nil {
			logger.Error("Failed to parse snapshot unit price", err, map[string]interface{}{
				"session_id": sessionID,
				"product_id": line.ProductID,
			})
			return nil, err
		}
		cart.Lines = append(cart.Lines, model.LineItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: price,
			Quantity:  line.Quantity,
			Category:  line.Category,
		})
	}

	logger.Debug("Cart snapshot loaded", map[string]interface{}{
		"session_id": sessionID,
		"lines":      len(cart.Lines),
	})
	return cart, nil
}

func (r *cartSnapshotRepository) Delete(sessionID string) error {
	if err := r.db.Delete(&model.CartSnapshot{}, "session_id = ?", sessionID).Error; err != nil {
		logger.Error("Failed to delete cart snapshot", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}
	return nil
}
