package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"collection-filter-service/internal/domain"
)

// IndexSyncService rebuilds the facet index from the site's index sources.
type IndexSyncService struct {
	repo    domain.IndexRepository
	sources []domain.Source
	logger  *zap.Logger
}

// NewIndexSyncService creates a new IndexSyncService.
func NewIndexSyncService(repo domain.IndexRepository, sources []domain.Source, logger *zap.Logger) *IndexSyncService {
	return &IndexSyncService{
		repo:    repo,
		sources: sources,
		logger:  logger,
	}
}

// SyncResult holds the result of syncing one source.
type SyncResult struct {
	Source   string
	Count    int
	Removed  int64
	Duration time.Duration
	Error    error
}

// SyncAll synchronizes every source concurrently.
// Returns results for each source. Partial failures are allowed.
func (s *IndexSyncService) SyncAll(ctx context.Context) []SyncResult {
	results := make([]SyncResult, len(s.sources))

	s.logger.Info("starting index sync",
		zap.Int("source_count", len(s.sources)),
	)

	var g errgroup.Group
	for i, src := range s.sources {
		g.Go(func() error {
			results[i] = s.syncSource(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	totalSynced := 0
	totalErrors := 0
	for _, r := range results {
		if r.Error != nil {
			totalErrors++
		} else {
			totalSynced += r.Count
		}
	}

	s.logger.Info("index sync completed",
		zap.Int("total_synced", totalSynced),
		zap.Int("sources_failed", totalErrors),
	)

	return results
}

// syncSource fetches the entries of one source, upserts them and prunes the
// entries the source no longer exports.
func (s *IndexSyncService) syncSource(ctx context.Context, src domain.Source) SyncResult {
	start := time.Now()
	result := SyncResult{Source: src.Name()}
	log := s.logger.With(zap.String("source", src.Name()))

	log.Debug("syncing source")

	entries, err := src.Fetch(ctx)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		log.Warn("source fetch failed", zap.Error(err))
		return result
	}

	if err := s.repo.BulkUpsert(ctx, entries); err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		log.Error("bulk upsert failed", zap.Error(err))
		return result
	}

	keep := make([]string, len(entries))
	for i, e := range entries {
		keep[i] = e.ExternalID
	}

	removed, err := s.repo.DeleteStale(ctx, src.Name(), keep)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		log.Error("pruning stale entries failed", zap.Error(err))
		return result
	}

	result.Count = len(entries)
	result.Removed = removed
	result.Duration = time.Since(start)

	log.Info("source sync completed",
		zap.Int("count", result.Count),
		zap.Int64("removed", result.Removed),
		zap.Duration("duration", result.Duration),
	)

	return result
}

// SyncSource synchronizes one source by name. It returns nil, nil when no
// source has that name.
func (s *IndexSyncService) SyncSource(ctx context.Context, name string) (*SyncResult, error) {
	for _, src := range s.sources {
		if src.Name() == name {
			result := s.syncSource(ctx, src)
			return &result, result.Error
		}
	}

	return nil, nil // Source not found
}

// SourceNames returns the names of all registered sources.
func (s *IndexSyncService) SourceNames() []string {
	names := make([]string, len(s.sources))
	for i, src := range s.sources {
		names[i] = src.Name()
	}

	return names
}

// Count returns the number of indexed entries, of one collection when
// collection is not empty.
func (s *IndexSyncService) Count(ctx context.Context, collection string) (int64, error) {
	return s.repo.Count(ctx, collection)
}
