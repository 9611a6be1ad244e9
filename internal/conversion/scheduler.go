package conversion

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"snaplogd/internal/conversion/interfaces"
	"snaplogd/internal/models"
	"snaplogd/internal/providers"
	"snaplogd/internal/store"
	"snaplogd/internal/structures"
)

// Scheduler runs the background conversion loop. It polls at a fixed cadence,
// reloads the server config on every tick so external edits apply without a
// restart, and fires a sweep when the active schedule says one is due.
//
// Sweeps are serialized behind opsMu: a manual trigger and the loop's own
// sweep never touch the raw directories concurrently.
type Scheduler struct {
	conf    *structures.Config
	server  *store.ServerStore
	sweeper interfaces.SweeperInterface
	history interfaces.HistoryInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface

	now func() time.Time

	mu       sync.Mutex
	stopCh   chan struct{}
	doneCh   chan struct{}
	status   string
	onStatus func(status string)

	// last-fired memory, guarded by mu
	lastKind        models.ScheduleKind
	lastDailyMinute string
	lastRun         time.Time
	ranOnce         bool

	opsMu sync.Mutex
}

func NewScheduler(
	conf *structures.Config,
	server *store.ServerStore,
	sweeper interfaces.SweeperInterface,
	history interfaces.HistoryInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) interfaces.SchedulerInterface {
	return &Scheduler{
		conf:    conf,
		server:  server,
		sweeper: sweeper,
		history: history,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
		status:  "idle",
	}
}

// Start launches the polling loop. Starting an already running scheduler is a
// no-op. After a (re)start the fire memory is clean, so a periodic schedule
// fires on its first tick.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.stopCh != nil {
		s.mu.Unlock()
		return
	}
	s.lastDailyMinute = ""
	s.lastRun = time.Time{}
	s.ranOnce = false
	s.lastKind = ""
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	cfg := s.server.Load()
	s.logger.Infof(providers.TypeScheduler, "Started conversion scheduler (%s)", cfg.ScheduleSpec())
	s.setStatus("scheduled for " + cfg.ScheduleSpec())

	go s.loop(stopCh, doneCh)
}

// Stop signals the loop and waits up to the configured join timeout. A sweep
// already in progress runs to completion; if it outlives the timeout the loop
// is abandoned in place and an error returned.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.stopCh == nil {
		s.mu.Unlock()
		return nil
	}
	stopCh, doneCh := s.stopCh, s.doneCh
	s.stopCh, s.doneCh = nil, nil
	s.mu.Unlock()

	close(stopCh)
	select {
	case <-doneCh:
		s.logger.Infof(providers.TypeScheduler, "Stopped conversion scheduler")
	case <-time.After(s.conf.Conversion.JoinTimeout):
		s.logger.Warnf(providers.TypeScheduler, "Conversion loop did not stop within %s, abandoning it", s.conf.Conversion.JoinTimeout)
		s.setStatus("idle")
		return fmt.Errorf("conversion loop did not stop within %s", s.conf.Conversion.JoinTimeout)
	}
	s.setStatus("idle")
	return nil
}

// Restart tears down the current loop and launches a fresh one, picking up
// whatever schedule is persisted now.
func (s *Scheduler) Restart() {
	if err := s.Stop(); err != nil {
		s.logger.Warnf(providers.TypeScheduler, "Restart proceeding despite stop error: %s", err)
	}
	s.Start()
}

// RunNow fires a sweep on its own goroutine so the loop's cadence is
// undisturbed. It queues behind any sweep already running.
func (s *Scheduler) RunNow() {
	s.logger.Infof(providers.TypeScheduler, "Manual sweep requested")
	go s.runSweep(models.TriggerManual)
}

func (s *Scheduler) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetStatusObserver registers a callback invoked on every status change. The
// callback runs on scheduler goroutines; UI front ends must marshal onto
// their own event loop.
func (s *Scheduler) SetStatusObserver(fn func(status string)) {
	s.mu.Lock()
	s.onStatus = fn
	s.mu.Unlock()
}

func (s *Scheduler) setStatus(status string) {
	s.mu.Lock()
	s.status = status
	fn := s.onStatus
	s.mu.Unlock()
	if fn != nil {
		fn(status)
	}
}

func (s *Scheduler) loop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(s.conf.Conversion.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick is one scheduling step. It never lets an error or panic kill the loop;
// a bad iteration is logged and the next tick starts clean.
func (s *Scheduler) tick() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf(providers.TypeScheduler, "Recovered from panic during scheduler tick: %v", r)
		}
	}()

	cfg := s.server.Load()
	if s.evaluate(cfg, s.now()) {
		s.logger.Infof(providers.TypeScheduler, "Conversion schedule reached (%s), starting conversion", cfg.ScheduleSpec())
		s.runSweep(models.TriggerScheduled)
	}
}

// evaluate decides whether a sweep is due at the given instant.
//
// daily: due when the wall clock truncated to the minute equals the target
// and this minute has not fired yet; the guard clears as soon as the minute
// moves on, so the next day's occurrence can fire.
//
// periodic: due on the first tick after (re)start, then whenever the elapsed
// time since the last completed run reaches the interval.
//
// Switching schedule type clears the opposing memory so a later switch back
// starts clean. A malformed value logs and skips the tick.
func (s *Scheduler) evaluate(cfg *models.ServerConfig, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastKind != cfg.ConversionType {
		s.lastDailyMinute = ""
		s.lastRun = time.Time{}
		s.ranOnce = false
		s.lastKind = cfg.ConversionType
	}

	switch cfg.ConversionType {
	case models.ScheduleDaily:
		target, err := cfg.ConversionValue.DailyTime()
		if err != nil {
			s.logger.Errorf(providers.TypeScheduler, "Invalid daily conversion time %q: %s", cfg.ConversionValue, err)
			return false
		}
		current := now.Format("15:04")
		if current == target.Format("15:04") {
			if current == s.lastDailyMinute {
				return false
			}
			s.lastDailyMinute = current
			return true
		}
		s.lastDailyMinute = ""
		return false

	case models.SchedulePeriodic:
		interval, err := cfg.ConversionValue.PeriodicInterval()
		if err != nil {
			s.logger.Errorf(providers.TypeScheduler, "Invalid periodic conversion interval %q: %s", cfg.ConversionValue, err)
			return false
		}
		if !s.ranOnce {
			return true
		}
		return now.Sub(s.lastRun) >= interval

	default:
		s.logger.Errorf(providers.TypeScheduler, "Unknown conversion type %q", cfg.ConversionType)
		return false
	}
}

func (s *Scheduler) runSweep(trigger models.TriggerKind) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.setStatus("running")
	runID := uuid.NewString()
	res := s.sweeper.Run(runID, trigger)

	finished := s.now()
	s.mu.Lock()
	s.lastRun = finished
	s.ranOnce = true
	s.mu.Unlock()

	s.metrics.SetLastRunTimestamp(finished)
	s.history.Append(res)
	if err := s.history.Persist(); err != nil {
		s.logger.Warnf(providers.TypeScheduler, "Failed to persist sweep history: %s", err)
	}

	s.setStatus("last run at " + finished.Format("15:04:05"))
}
