package scheduler

import (
	"context"
	"time"

	"github.com/aristath/autocall/internal/modules/history"
)

// syncTimeout bounds one full sync pass across all symbols.
const syncTimeout = 10 * time.Minute

// PriceSyncJob refreshes the stored history for the configured underlyings.
type PriceSyncJob struct {
	sync    *history.SyncService
	symbols []string
}

// NewPriceSyncJob creates a price sync job.
func NewPriceSyncJob(sync *history.SyncService, symbols []string) *PriceSyncJob {
	return &PriceSyncJob{sync: sync, symbols: symbols}
}

// Name returns the job identifier for logging.
func (j *PriceSyncJob) Name() string { return "price_sync" }

// Run syncs all configured symbols.
func (j *PriceSyncJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()
	j.sync.SyncAll(ctx, j.symbols)
	return nil
}
