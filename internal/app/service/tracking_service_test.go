package service

import (
	"context"
	"testing"
	"time"

	"github.com/frecha/iotech-storefront/internal/app/model"
	"github.com/frecha/iotech-storefront/pkg/storeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrackingGateway struct {
	infos map[string]*model.TrackingInfo
	err   error
}

func (g *fakeTrackingGateway) Track(ctx context.Context, trackingNumber string) (*model.TrackingInfo, error) {
	if g.err != nil {
		return nil, g.err
	}
	if info, ok := g.infos[trackingNumber]; ok {
		return info, nil
	}
	return nil, storeapi.ErrTrackingNotFound
}

func setupTracking() (TrackingService, *fakeTrackingGateway, *memSessionRepo) {
	gateway := &fakeTrackingGateway{
		infos: map[string]*model.TrackingInfo{
			"FRE1": {
				TrackingNumber: "FRE1",
				Status:         "shipped",
				StatusDisplay:  "Shipped",
				CustomerName:   "Ama Mensah",
				OrderDate:      time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
				Updates: []model.StatusUpdate{
					{Status: "pending", Timestamp: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)},
					{Status: "shipped", Timestamp: time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)},
				},
			},
		},
	}
	sessions := newMemSessionRepo()
	return NewTrackingService(gateway, sessions), gateway, sessions
}

func TestTrackingService_Track(t *testing.T) {
	svc, _, _ := setupTracking()

	info, err := svc.Track(context.Background(), "sess-1", "FRE1")
	require.NoError(t, err)
	assert.Equal(t, "Shipped", info.StatusDisplay)
	assert.Len(t, info.Updates, 2)
}

func TestTrackingService_TrackUnknownNumber(t *testing.T) {
	svc, _, _ := setupTracking()

	_, err := svc.Track(context.Background(), "sess-1", "NOPE")
	assert.ErrorIs(t, err, ErrTrackingNotFound)
}

func TestTrackingService_TrackEmptyNumber(t *testing.T) {
	svc, _, _ := setupTracking()

	_, err := svc.Track(context.Background(), "sess-1", "   ")
	assert.ErrorIs(t, err, ErrTrackingEmpty)
}

func TestTrackingService_RecordsRecentLookups(t *testing.T) {
	svc, gateway, _ := setupTracking()
	gateway.infos["FRE2"] = &model.TrackingInfo{TrackingNumber: "FRE2", Status: "pending"}

	_, err := svc.Track(context.Background(), "sess-1", "FRE1")
	require.NoError(t, err)
	_, err = svc.Track(context.Background(), "sess-1", "FRE2")
	require.NoError(t, err)

	recent, err := svc.Recent("sess-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"FRE2", "FRE1"}, recent)
}

func TestTrackingService_FailedLookupNotRecorded(t *testing.T) {
	svc, _, _ := setupTracking()

	_, err := svc.Track(context.Background(), "sess-1", "NOPE")
	require.Error(t, err)

	recent, err := svc.Recent("sess-1")
	require.NoError(t, err)
	assert.Empty(t, recent)
}
