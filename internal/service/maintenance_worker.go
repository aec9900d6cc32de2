package service

import (
	"context"
	"log"
	"time"
)

// MaintenanceWorker is a periodic background job that clears expired
// warnings, reinstates creators whose probation has elapsed, and samples
// diversity trends.
type MaintenanceWorker struct {
	warningsSvc  *WarningService
	diversitySvc *DiversityService
	interval     time.Duration
	stopCh       chan struct{}
}

// NewMaintenanceWorker creates a worker that ticks every interval.
func NewMaintenanceWorker(warningsSvc *WarningService, diversitySvc *DiversityService, interval time.Duration) *MaintenanceWorker {
	return &MaintenanceWorker{
		warningsSvc:  warningsSvc,
		diversitySvc: diversitySvc,
		interval:     interval,
		stopCh:       make(chan struct{}),
	}
}

// Start begins the periodic maintenance loop. It runs one tick
// immediately, then every interval.
func (w *MaintenanceWorker) Start(ctx context.Context) {
	log.Printf("maintenance-worker: starting (interval=%s)", w.interval)

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick(ctx)
		case <-ctx.Done():
			log.Println("maintenance-worker: stopping (context cancelled)")
			return
		case <-w.stopCh:
			log.Println("maintenance-worker: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the worker to stop.
func (w *MaintenanceWorker) Stop() {
	close(w.stopCh)
}

// tick runs one maintenance cycle. Each step is independent; a failure in
// one does not skip the others.
func (w *MaintenanceWorker) tick(ctx context.Context) {
	start := time.Now()

	cleared, err := w.warningsSvc.ClearExpiredWarnings(ctx)
	if err != nil {
		log.Printf("maintenance-worker: clear expired warnings error: %v", err)
	}

	reinstated, err := w.warningsSvc.ReinstateExpiredProbations(ctx)
	if err != nil {
		log.Printf("maintenance-worker: reinstate probations error: %v", err)
	}

	trends, err := w.diversitySvc.TrackDiversityTrends(ctx)
	if err != nil {
		log.Printf("maintenance-worker: diversity trends error: %v", err)
	}

	elapsed := time.Since(start)
	if trends != nil {
		log.Printf("maintenance-worker: tick complete — %d warnings cleared, %d probations reinstated, avg diversity %.2f over %d posts (%s)",
			cleared, reinstated, trends.AvgDiversityScore, trends.TotalPostsAnalyzed, elapsed.Round(time.Millisecond))
	} else {
		log.Printf("maintenance-worker: tick complete — %d warnings cleared, %d probations reinstated (%s)",
			cleared, reinstated, elapsed.Round(time.Millisecond))
	}
}
