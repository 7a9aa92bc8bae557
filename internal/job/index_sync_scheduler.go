// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"collection-filter-service/internal/app/service"
	"collection-filter-service/pkg/locker"
)

// lockKey guards index sync across instances.
const lockKey = "index-sync:lock"

// IndexSyncer rebuilds the facet index.
// Implementations: internal/app/service/sync_service.go
type IndexSyncer interface {
	SyncAll(ctx context.Context) []service.SyncResult
}

// IndexSyncConfig holds scheduler settings.
type IndexSyncConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// IndexSyncScheduler runs index sync periodically. One instance syncs per
// interval: a successful run keeps the lock until it expires, a failed run
// releases it so another instance can retry.
type IndexSyncScheduler struct {
	syncer IndexSyncer
	cfg    IndexSyncConfig
	locker locker.Locker
	logger *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewIndexSyncScheduler creates a new IndexSyncScheduler.
func NewIndexSyncScheduler(syncer IndexSyncer, cfg IndexSyncConfig, l locker.Locker, logger *zap.Logger) *IndexSyncScheduler {
	return &IndexSyncScheduler{
		syncer: syncer,
		cfg:    cfg,
		locker: l,
		logger: logger,
	}
}

// Start begins the background sync loop.
func (s *IndexSyncScheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.logger.Info("starting index sync scheduler",
		zap.Duration("interval", s.cfg.Interval),
		zap.Bool("on_startup", s.cfg.OnStartup),
	)

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop stops the loop and waits for a running sync to finish.
func (s *IndexSyncScheduler) Stop() {
	if s.cancel == nil {
		return
	}

	s.logger.Info("stopping index sync scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("index sync scheduler stopped")
}

func (s *IndexSyncScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	if s.cfg.OnStartup {
		s.RunOnce(ctx)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce syncs every source if no other instance synced during the current
// interval. It reports whether a sync ran.
func (s *IndexSyncScheduler) RunOnce(ctx context.Context) bool {
	ok, err := s.locker.TryLock(ctx, lockKey, s.cfg.Interval)
	if err != nil {
		s.logger.Error("failed to take index sync lock", zap.Error(err))
		return false
	}
	if !ok {
		s.logger.Debug("index sync ran elsewhere, skipping")
		return false
	}

	syncCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	failed := 0
	synced := 0
	for _, r := range s.syncer.SyncAll(syncCtx) {
		if r.Error != nil {
			failed++
			continue
		}
		synced += r.Count
	}

	if failed > 0 {
		if err := s.locker.Unlock(ctx, lockKey); err != nil {
			s.logger.Error("failed to release index sync lock", zap.Error(err))
		}
		s.logger.Warn("index sync finished with errors, lock released",
			zap.Int("total_synced", synced),
			zap.Int("sources_failed", failed),
		)
		return true
	}

	s.logger.Info("index sync finished",
		zap.Int("total_synced", synced),
		zap.Duration("cooldown", s.cfg.Interval),
	)

	return true
}
