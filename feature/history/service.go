package history

import (
	"context"
	"fmt"

	"scale-sync/feature/sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultRecentLimit bounds history listings when the caller gives none.
const DefaultRecentLimit = 20

// Service persists and queries reconciliation run history. It implements
// the sync recorder contract, so the engine stays unaware of the
// database.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a history service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Migrate creates or updates the sync_runs table.
func (s *Service) Migrate() error {
	if err := s.db.AutoMigrate(&Run{}); err != nil {
		return fmt.Errorf("migrating sync_runs: %w", err)
	}
	return nil
}

// Record stores one run outcome.
func (s *Service) Record(ctx context.Context, summary sync.RunSummary) error {
	run := Run{
		Trigger:     summary.Trigger,
		WindowStart: summary.WindowStart,
		WindowEnd:   summary.WindowEnd,
		Synced:      summary.Synced,
		Skipped:     summary.Skipped,
		Message:     summary.Message,
		Error:       summary.Error,
	}

	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	s.logger.Debug("Recorded sync run", zap.Uint("id", run.ID))
	return nil
}

// Recent returns the most recent runs, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var runs []Run
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}
