package scheduler

import (
	"context"
	"time"

	"github.com/frecha/iotech-storefront/internal/app/service"
	"github.com/frecha/iotech-storefront/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CatalogScheduler refreshes the catalog caches on a schedule so the
// storefront keeps serving lists even when the upstream store is slow.
type CatalogScheduler struct {
	cron           *cron.Cron
	catalogService service.CatalogService
	schedule       string
}

func NewCatalogScheduler(catalogService service.CatalogService, schedule string) *CatalogScheduler {
	return &CatalogScheduler{
		cron:           cron.New(),
		catalogService: catalogService,
		schedule:       schedule,
	}
}

// Start registers the refresh job and runs one refresh immediately so
// the caches are warm before the first shopper arrives.
func (s *CatalogScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		s.catalogService.Refresh(ctx)
	})
	if err != nil {
		logger.Error("Failed to register catalog refresh job", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		s.catalogService.Refresh(ctx)
	}()

	s.cron.Start()
	logger.Info("Catalog scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// Stop halts the schedule; an in-flight refresh finishes on its own.
func (s *CatalogScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Catalog scheduler stopped", nil)
}
