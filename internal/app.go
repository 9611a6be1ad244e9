package internal

import (
	"os"
	"os/signal"
	"syscall"

	"snaplogd/internal/conversion/interfaces"
	"snaplogd/internal/providers"
	"snaplogd/internal/services"
	"snaplogd/internal/structures"
)

type App struct {
	Service services.DashboardServiceInterface
}

// NewApp starts the conversion scheduler and blocks until a shutdown signal,
// then stops the loop with a bounded wait and persists the sweep journal.
func NewApp(
	service services.DashboardServiceInterface,
	history interfaces.HistoryInterface,
	conf *structures.Config,
	logger providers.Logger,
) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)

	if err := history.Restore(); err != nil {
		logger.Errorf(providers.TypeApp, "Failed to restore sweep history: %s", err)
	}

	service.StartScheduler()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Infof(providers.TypeApp, "Shutdown signal received")

	if err := service.StopScheduler(); err != nil {
		logger.Warnf(providers.TypeApp, "Scheduler shutdown: %s", err)
	}
	if err := history.Persist(); err != nil {
		logger.Errorf(providers.TypeApp, "Failed to persist sweep history: %s", err)
	}
	history.Close()

	logger.Infof(providers.TypeApp, "gracefully stopped")
	logger.Close()
	return &App{Service: service}, nil
}
