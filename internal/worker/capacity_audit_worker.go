package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lakeshorecc/classreg-backend/internal/repository"
)

// CapacityAuditWorker periodically resyncs class seat counters with the
// live registration count. The transactional engine keeps the two in step;
// the audit catches drift from operator edits or partial restores.
type CapacityAuditWorker struct {
	classes  *repository.ClassRepository
	interval time.Duration
	log      zerolog.Logger
}

// NewCapacityAuditWorker creates a new CapacityAuditWorker.
func NewCapacityAuditWorker(classes *repository.ClassRepository, interval time.Duration, log zerolog.Logger) *CapacityAuditWorker {
	return &CapacityAuditWorker{
		classes:  classes,
		interval: interval,
		log:      log.With().Str("component", "capacity_audit_worker").Logger(),
	}
}

// Start begins the audit loop. Call in a goroutine.
func (w *CapacityAuditWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.audit(ctx)
		}
	}
}

func (w *CapacityAuditWorker) audit(ctx context.Context) {
	repaired, err := w.classes.RepairSeatCounts(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("seat count audit failed")
		}
		return
	}
	if repaired > 0 {
		w.log.Warn().Int64("repaired", repaired).Msg("seat counters drifted and were resynced")
	}
}
