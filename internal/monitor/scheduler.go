package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/pagesentry/pagesentry/internal/config"
	"github.com/pagesentry/pagesentry/internal/models"

	"github.com/rs/zerolog"
)

// monitorJob wraps one target check belonging to a specific cycle.
type monitorJob struct {
	Target  models.MonitorTarget
	CycleID string
	CycleWG *sync.WaitGroup
}

// Scheduler drives the MonitoringService on the configured interval using a
// long-lived worker pool. Each tick runs one full cycle; the run stops on
// Stop or once the configured cycle count is exhausted.
type Scheduler struct {
	logger  zerolog.Logger
	cfg     *config.MonitorConfig
	service *MonitoringService

	ctx        context.Context
	cancelFunc context.CancelFunc
	workerChan chan monitorJob
	wg         sync.WaitGroup
	done       chan struct{}
	active     bool
	mu         sync.Mutex
}

// NewScheduler creates a new monitor scheduler.
func NewScheduler(cfg *config.MonitorConfig, logger zerolog.Logger, service *MonitoringService) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		logger:     logger.With().Str("component", "MonitorScheduler").Logger(),
		cfg:        cfg,
		service:    service,
		ctx:        ctx,
		cancelFunc: cancel,
		done:       make(chan struct{}),
	}
}

// Done is closed when the scheduler loop has fully stopped.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Start begins the scheduler loop and worker pool. The first cycle runs
// immediately; subsequent cycles follow the configured interval.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		s.logger.Warn().Msg("MonitorScheduler already active")
		return nil
	}
	s.active = true
	s.mu.Unlock()

	numWorkers := s.service.workerCount()
	s.workerChan = make(chan monitorJob, numWorkers)

	s.logger.Info().Int("num_workers", numWorkers).Msg("Starting monitor workers")
	for i := 0; i < numWorkers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	go s.run()
	return nil
}

// run is the scheduler main loop.
func (s *Scheduler) run() {
	defer func() {
		close(s.workerChan)
		s.wg.Wait()

		s.mu.Lock()
		s.active = false
		s.mu.Unlock()
		close(s.done)
		s.logger.Info().Msg("MonitorScheduler main loop and workers stopped")
	}()

	interval := time.Duration(s.cfg.CheckIntervalSeconds) * time.Second
	if s.cfg.CheckIntervalSeconds <= 0 {
		s.logger.Warn().
			Int("configured_interval", s.cfg.CheckIntervalSeconds).
			Msg("CheckIntervalSeconds is not configured, defaulting to 1 hour")
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First cycle runs immediately.
	s.runCycle()

	for {
		if !s.service.tracker.ShouldContinue() {
			s.logger.Info().
				Int("max_cycles", s.cfg.MaxCycles).
				Msg("Maximum cycle count reached, scheduler stopping")
			return
		}

		select {
		case <-s.ctx.Done():
			s.logger.Info().Msg("MonitorScheduler context cancelled, main loop stopping")
			return
		case <-ticker.C:
			s.runCycle()
		}
	}
}

// runCycle executes one monitoring cycle through the worker pool and blocks
// until every submitted check finished.
func (s *Scheduler) runCycle() {
	cycleID, targets := s.service.beginCycle(s.ctx)
	if len(targets) == 0 {
		s.logger.Debug().Msg("No active targets to check in this cycle")
		s.service.completeCycle(s.ctx, 0, s.ctx.Err() != nil)
		return
	}

	var cycleWG sync.WaitGroup
	cycleWG.Add(len(targets))
	for _, target := range targets {
		job := monitorJob{Target: target, CycleID: cycleID, CycleWG: &cycleWG}
		select {
		case s.workerChan <- job:
		case <-s.ctx.Done():
			cycleWG.Done()
		}
	}
	cycleWG.Wait()

	s.service.completeCycle(s.ctx, len(targets), s.ctx.Err() != nil)
}

// worker consumes target checks until the channel closes. After cancellation
// remaining jobs are drained unprocessed so cycle WaitGroups still resolve.
func (s *Scheduler) worker(id int) {
	defer s.wg.Done()
	s.logger.Debug().Int("worker_id", id).Msg("Monitor worker started")
	for job := range s.workerChan {
		select {
		case <-s.ctx.Done():
			job.CycleWG.Done()
			continue
		default:
		}
		s.service.checkTarget(s.ctx, job.Target, job.CycleID)
		job.CycleWG.Done()
	}
	s.logger.Debug().Int("worker_id", id).Msg("Monitor worker stopped")
}

// Stop signals the scheduler to shut down and waits for the main loop and
// workers to finish, up to a timeout.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		s.logger.Debug().Msg("MonitorScheduler was not active")
		return
	}
	s.mu.Unlock()

	s.logger.Info().Msg("Stopping MonitorScheduler")
	s.cancelFunc()

	const shutdownTimeout = 10 * time.Second
	const checkInterval = 200 * time.Millisecond

	start := time.Now()
	for {
		s.mu.Lock()
		isActive := s.active
		s.mu.Unlock()

		if !isActive {
			s.logger.Info().Msg("MonitorScheduler stopped")
			return
		}
		if time.Since(start) > shutdownTimeout {
			s.logger.Warn().Msg("MonitorScheduler did not stop within the shutdown timeout")
			return
		}
		time.Sleep(checkInterval)
	}
}
