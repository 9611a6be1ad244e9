package testutil

import (
	"strings"
	"sync"
	"time"

	"snaplogd/internal/models"
	"snaplogd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// CountLevel returns how many entries were logged at the given level.
func (m *MockLogger) CountLevel(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// HasEntry reports whether any entry at the given level contains substr in
// its format string.
func (m *MockLogger) HasEntry(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level && strings.Contains(e.Format, substr) {
			return true
		}
	}
	return false
}

// MockCompressor passes data through unchanged unless a hook is set.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	return val, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	return val, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

// MockCache implements providers.CacheProviderInterface on a plain map.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Data == nil {
		return nil, false
	}
	v, ok := m.Data[key]
	return v, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Data == nil {
		m.Data = make(map[string][]byte)
	}
	m.Data[key] = value
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu        sync.Mutex
	Sweeps    map[string]int
	Converted map[string]int
	Failures  map[string]int
	Durations []time.Duration
	Devices   int
	LastRun   time.Time
}

func (m *MockMetrics) IncSweepsTotal(trigger string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Sweeps == nil {
		m.Sweeps = make(map[string]int)
	}
	m.Sweeps[trigger]++
}

func (m *MockMetrics) IncFilesConverted(device string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Converted == nil {
		m.Converted = make(map[string]int)
	}
	m.Converted[device]++
}

func (m *MockMetrics) IncFileFailures(device string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Failures == nil {
		m.Failures = make(map[string]int)
	}
	m.Failures[device]++
}

func (m *MockMetrics) ObserveSweepDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Durations = append(m.Durations, duration)
}

func (m *MockMetrics) SetDevicesKnown(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Devices = count
}

func (m *MockMetrics) SetLastRunTimestamp(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRun = t
}

// MockSweeper implements interfaces.SweeperInterface and records each run.
// Delay simulates a slow sweep; MaxConcurrent tracks overlap so tests can
// assert sweeps are serialized.
type MockSweeper struct {
	mu            sync.Mutex
	Runs          []SweepCall
	Delay         time.Duration
	running       int
	MaxConcurrent int
}

type SweepCall struct {
	RunID   string
	Trigger models.TriggerKind
}

func (m *MockSweeper) Run(runID string, trigger models.TriggerKind) *models.SweepResult {
	m.mu.Lock()
	m.running++
	if m.running > m.MaxConcurrent {
		m.MaxConcurrent = m.running
	}
	m.Runs = append(m.Runs, SweepCall{RunID: runID, Trigger: trigger})
	m.mu.Unlock()

	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}

	m.mu.Lock()
	m.running--
	m.mu.Unlock()

	return &models.SweepResult{
		RunID:      runID,
		Trigger:    trigger,
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
	}
}

func (m *MockSweeper) RunCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Runs)
}

// MockHistory implements interfaces.HistoryInterface.
type MockHistory struct {
	mu           sync.Mutex
	Appended     []*models.SweepResult
	PersistCalls int
	RestoreErr   error
	PersistErr   error
}

func (m *MockHistory) Append(res *models.SweepResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Appended = append(m.Appended, res)
}

func (m *MockHistory) Records() []*models.SweepResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.SweepResult, len(m.Appended))
	copy(out, m.Appended)
	return out
}

func (m *MockHistory) Restore() error { return m.RestoreErr }

func (m *MockHistory) Persist() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistCalls++
	return m.PersistErr
}

func (m *MockHistory) Close() {}

// MockScheduler implements interfaces.SchedulerInterface.
type MockScheduler struct {
	mu       sync.Mutex
	Started  int
	Stopped  int
	Restarts int
	Manual   int
	StopErr  error
	status   string
}

func (m *MockScheduler) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Started++
}

func (m *MockScheduler) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stopped++
	return m.StopErr
}

func (m *MockScheduler) Restart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Restarts++
}

func (m *MockScheduler) RunNow() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Manual++
}

func (m *MockScheduler) Status() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *MockScheduler) SetStatusObserver(_ func(string)) {}
