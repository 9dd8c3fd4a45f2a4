package service

import (
	"context"
	"errors"
	"strings"

	"github.com/frecha/iotech-storefront/internal/app/model"
	"github.com/frecha/iotech-storefront/internal/app/repository"
	"github.com/frecha/iotech-storefront/pkg/logger"
	"github.com/frecha/iotech-storefront/pkg/storeapi"
)

var (
	ErrTrackingNotFound = errors.New("tracking number not found")
	ErrTrackingEmpty    = errors.New("tracking number is required")
)

// TrackingGateway is the slice of the store API serving order status
// lookups. Satisfied by *storeapi.Client.
type TrackingGateway interface {
	Track(ctx context.Context, trackingNumber string) (*model.TrackingInfo, error)
}

// TrackingService looks up order status timelines and remembers each
// session's recent lookups for quick re-checking.
type TrackingService interface {
	Track(ctx context.Context, sessionID, trackingNumber string) (*model.TrackingInfo, error)
	Recent(sessionID string) ([]string, error)
}

type trackingService struct {
	gateway     TrackingGateway
	sessionRepo repository.SessionRepository
}

func NewTrackingService(gateway TrackingGateway, sessionRepo repository.SessionRepository) TrackingService {
	return &trackingService{
		gateway:     gateway,
		sessionRepo: sessionRepo,
	}
}

func (s *trackingService) Track(ctx context.Context, sessionID, trackingNumber string) (*model.TrackingInfo, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, ErrTrackingEmpty
	}

	info, err := s.gateway.Track(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, storeapi.ErrTrackingNotFound) {
			return nil, ErrTrackingNotFound
		}
		logger.Error("Tracking lookup failed", err, map[string]interface{}{
			"session_id":      sessionID,
			"tracking_number": trackingNumber,
		})
		return nil, err
	}

	// remembering the lookup is best effort
	if err := s.sessionRepo.PushRecentSearch(sessionID, trackingNumber); err != nil {
		logger.Warn("Could not record tracking lookup", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	return info, nil
}

func (s *trackingService) Recent(sessionID string) ([]string, error) {
	return s.sessionRepo.RecentSearches(sessionID)
}
