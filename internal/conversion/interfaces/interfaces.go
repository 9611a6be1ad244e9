package interfaces

import "snaplogd/internal/models"

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

type SweeperInterface interface {
	Run(runID string, trigger models.TriggerKind) *models.SweepResult
}

type SchedulerInterface interface {
	Start()
	Restart()
	Stop() error
	RunNow()
	Status() string
	SetStatusObserver(fn func(status string))
}

type HistoryInterface interface {
	Append(res *models.SweepResult)
	Records() []*models.SweepResult
	Restore() error
	Persist() error
	Close()
}
