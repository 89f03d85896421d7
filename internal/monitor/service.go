package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/pagesentry/pagesentry/internal/config"
	"github.com/pagesentry/pagesentry/internal/datastore"
	"github.com/pagesentry/pagesentry/internal/models"
	"github.com/pagesentry/pagesentry/internal/notifier"

	"github.com/rs/zerolog"
)

// MonitoringService orchestrates periodic checking of monitored pages. It
// owns the target registry and the per-cycle bookkeeping; the scheduler
// drives it on an interval, or RunCycle executes a single pass.
type MonitoringService struct {
	cfg                *config.MonitorConfig
	logger             zerolog.Logger
	checker            *TargetChecker
	tracker            *CycleTracker
	checkLogStore      *datastore.CheckLogStore
	notificationHelper *notifier.NotificationHelper
	scheduler          *Scheduler

	targets      map[string]models.MonitorTarget
	targetsMutex sync.RWMutex

	serviceCtx        context.Context
	serviceCancelFunc context.CancelFunc
}

// NewMonitoringService creates a new MonitoringService.
func NewMonitoringService(
	cfg *config.MonitorConfig,
	checker *TargetChecker,
	checkLogStore *datastore.CheckLogStore,
	notificationHelper *notifier.NotificationHelper,
	baseLogger zerolog.Logger,
) *MonitoringService {
	serviceCtx, serviceCancel := context.WithCancel(context.Background())

	s := &MonitoringService{
		cfg:                cfg,
		logger:             baseLogger.With().Str("component", "MonitoringService").Logger(),
		checker:            checker,
		tracker:            NewCycleTracker(cfg.MaxCycles),
		checkLogStore:      checkLogStore,
		notificationHelper: notificationHelper,
		targets:            make(map[string]models.MonitorTarget),
		serviceCtx:         serviceCtx,
		serviceCancelFunc:  serviceCancel,
	}
	s.scheduler = NewScheduler(cfg, baseLogger, s)
	return s
}

// AddTarget adds or updates a target in the monitoring registry.
func (s *MonitoringService) AddTarget(target models.MonitorTarget) {
	if target.URL == "" {
		return
	}
	s.targetsMutex.Lock()
	defer s.targetsMutex.Unlock()

	if _, exists := s.targets[target.URL]; !exists {
		s.logger.Info().Str("url", target.URL).Msg("Added target for monitoring")
	}
	s.targets[target.URL] = target
}

// AddTargets adds a batch of targets to the monitoring registry.
func (s *MonitoringService) AddTargets(targets []models.MonitorTarget) {
	for _, target := range targets {
		s.AddTarget(target)
	}
}

// RemoveTarget removes a URL from the monitoring registry.
func (s *MonitoringService) RemoveTarget(url string) {
	s.targetsMutex.Lock()
	defer s.targetsMutex.Unlock()

	if _, exists := s.targets[url]; exists {
		delete(s.targets, url)
		s.logger.Info().Str("url", url).Msg("Removed target from monitoring")
	}
}

// GetCurrentTargets returns the active targets to check this cycle.
func (s *MonitoringService) GetCurrentTargets() []models.MonitorTarget {
	s.targetsMutex.RLock()
	defer s.targetsMutex.RUnlock()

	targets := make([]models.MonitorTarget, 0, len(s.targets))
	for _, target := range s.targets {
		if target.IsActive() {
			targets = append(targets, target)
		}
	}
	return targets
}

// GetTargetURLs returns the URLs of all active targets.
func (s *MonitoringService) GetTargetURLs() []string {
	targets := s.GetCurrentTargets()
	urls := make([]string, 0, len(targets))
	for _, target := range targets {
		urls = append(urls, target.URL)
	}
	return urls
}

// Start begins scheduled monitoring.
func (s *MonitoringService) Start() error {
	s.logger.Info().Msg("Starting MonitoringService")
	return s.scheduler.Start()
}

// Stop shuts the service down gracefully.
func (s *MonitoringService) Stop() {
	s.logger.Info().Msg("Stopping MonitoringService")
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	s.serviceCancelFunc()
	s.logger.Info().Msg("MonitoringService stopped")
}

// Done is closed when scheduled monitoring has finished on its own, which
// happens once the configured cycle count is exhausted.
func (s *MonitoringService) Done() <-chan struct{} {
	return s.scheduler.Done()
}

// RunCycle performs one complete monitoring pass over all active targets.
// It is the one-shot counterpart to scheduled monitoring.
func (s *MonitoringService) RunCycle(ctx context.Context) models.CycleSummaryData {
	cycleID, targets := s.beginCycle(ctx)

	numWorkers := s.workerCount()
	jobs := make(chan models.MonitorTarget)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for target := range jobs {
				s.checkTarget(ctx, target, cycleID)
			}
		}()
	}

submission:
	for _, target := range targets {
		select {
		case jobs <- target:
		case <-ctx.Done():
			s.logger.Info().Msg("Context cancelled, stopping job submission for this cycle")
			break submission
		}
	}
	close(jobs)
	wg.Wait()

	return s.completeCycle(ctx, len(targets), ctx.Err() != nil)
}

// workerCount resolves the configured concurrency, defaulting to one worker.
func (s *MonitoringService) workerCount() int {
	if s.cfg.MaxConcurrentChecks <= 0 {
		s.logger.Warn().
			Int("configured_workers", s.cfg.MaxConcurrentChecks).
			Msg("MaxConcurrentChecks is not configured, defaulting to 1 worker")
		return 1
	}
	return s.cfg.MaxConcurrentChecks
}

// beginCycle opens a new cycle: new cycle ID, cycle row in the check log,
// and the start notification on the first cycle of a run.
func (s *MonitoringService) beginCycle(ctx context.Context) (string, []models.MonitorTarget) {
	cycleID := s.tracker.StartCycle()
	targets := s.GetCurrentTargets()

	s.logger.Info().
		Str("cycle_id", cycleID).
		Int("cycle_number", s.tracker.CurrentCycle()).
		Int("target_count", len(targets)).
		Msg("Monitoring cycle started")

	if _, err := s.checkLogStore.RecordCycleStart(cycleID, time.Now()); err != nil {
		s.logger.Error().Err(err).Str("cycle_id", cycleID).Msg("Failed to record cycle start")
	}

	if s.tracker.CurrentCycle() == 1 {
		s.notificationHelper.SendMonitorStartNotification(ctx, s.GetTargetURLs(), cycleID)
	}

	return cycleID, targets
}

// checkTarget checks one target and folds the outcome into the cycle state.
func (s *MonitoringService) checkTarget(ctx context.Context, target models.MonitorTarget, cycleID string) {
	outcome := s.checker.CheckTarget(ctx, target, cycleID)
	s.tracker.RecordChecked()

	switch outcome.Status {
	case models.CheckStatusOK:
		s.tracker.RecordChanged(outcome.URL, outcome.Severity)
	case models.CheckStatusError:
		s.tracker.RecordFailed(outcome.URL)
	}
}

// completeCycle closes the running cycle: check log completion row and the
// cycle summary notification.
func (s *MonitoringService) completeCycle(ctx context.Context, totalTargets int, interrupted bool) models.CycleSummaryData {
	summary := s.tracker.BuildSummary(totalTargets, interrupted)

	status := models.CycleStatusCompleted
	if interrupted {
		status = models.CycleStatusInterrupted
	}
	if err := s.checkLogStore.UpdateCycleCompletion(summary.CycleID, summary.CompletedAt, status, summary.CheckedCount, len(summary.ChangedURLs)); err != nil {
		s.logger.Error().Err(err).Str("cycle_id", summary.CycleID).Msg("Failed to record cycle completion")
	}

	s.logger.Info().
		Str("cycle_id", summary.CycleID).
		Int("checked", summary.CheckedCount).
		Int("changed", len(summary.ChangedURLs)).
		Int("failed", len(summary.FailedURLs)).
		Bool("interrupted", interrupted).
		Msg("Monitoring cycle completed")

	s.notificationHelper.SendCycleCompleteNotification(ctx, summary)
	return summary
}
