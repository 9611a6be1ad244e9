package services

import (
	"fmt"
	"sort"

	"snaplogd/internal/conversion/interfaces"
	"snaplogd/internal/models"
	"snaplogd/internal/providers"
	"snaplogd/internal/registry"
	"snaplogd/internal/store"
)

// DashboardServiceInterface is the control surface any front end (GUI, CLI)
// talks to. There is no network listener; callers embed the daemon.
type DashboardServiceInterface interface {
	ReloadServerConfig() *models.ServerConfig
	SaveServerConfig(cfg *models.ServerConfig) error
	ClientSettings(deviceID string) models.ClientSettings
	SaveClientSettings(deviceID string, settings models.ClientSettings) error
	SetAlias(deviceID, alias string) error
	Alias(deviceID string) string
	ListClients() []string
	StartScheduler()
	StopScheduler() error
	TriggerManualSweep()
	SchedulerStatus() string
	SweepHistory() []*models.SweepResult
}

type DashboardService struct {
	server    *store.ServerStore
	clients   *store.ClientStore
	registry  *registry.Registry
	scheduler interfaces.SchedulerInterface
	history   interfaces.HistoryInterface
	logger    providers.Logger
}

func NewDashboardService(
	server *store.ServerStore,
	clients *store.ClientStore,
	reg *registry.Registry,
	scheduler interfaces.SchedulerInterface,
	history interfaces.HistoryInterface,
	logger providers.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		server:    server,
		clients:   clients,
		registry:  reg,
		scheduler: scheduler,
		history:   history,
		logger:    logger,
	}
}

func (d *DashboardService) ReloadServerConfig() *models.ServerConfig {
	return d.server.Load()
}

// SaveServerConfig validates at the save boundary: an invalid schedule is
// rejected and the persisted settings stay in effect. On success the
// scheduler is restarted so the new schedule applies immediately.
func (d *DashboardService) SaveServerConfig(cfg *models.ServerConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid conversion schedule: %w", err)
	}
	if err := d.server.Save(cfg); err != nil {
		return err
	}
	d.logger.Infof(providers.TypeApp, "Server conversion schedule updated: %s", cfg.ScheduleSpec())
	d.scheduler.Restart()
	return nil
}

// ClientSettings returns the persisted settings for a device, with defaults
// filled in for absent fields or an absent entry.
func (d *DashboardService) ClientSettings(deviceID string) models.ClientSettings {
	cfgs, err := d.clients.Load()
	if err != nil {
		d.logger.Errorf(providers.TypeApp, "Failed to load client configs: %s", err)
		return models.DefaultClientSettings()
	}
	settings, ok := cfgs[deviceID]
	if !ok {
		return models.DefaultClientSettings()
	}
	settings.Normalize()
	return settings
}

func (d *DashboardService) SaveClientSettings(deviceID string, settings models.ClientSettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings for %s: %w", deviceID, err)
	}

	cfgs, err := d.clients.Load()
	if err != nil {
		return err
	}
	cfgs[deviceID] = settings
	if err := d.clients.Save(cfgs); err != nil {
		return err
	}
	d.logger.Infof(providers.TypeApp, "Configuration saved for %s", deviceID)
	return nil
}

func (d *DashboardService) SetAlias(deviceID, alias string) error {
	cfg := d.server.Load()
	if alias == "" {
		delete(cfg.ClientAliases, deviceID)
	} else {
		cfg.ClientAliases[deviceID] = alias
	}
	return d.server.Save(cfg)
}

func (d *DashboardService) Alias(deviceID string) string {
	return d.server.Load().ClientAliases[deviceID]
}

func (d *DashboardService) ListClients() []string {
	ids := d.registry.Discover()
	sort.Strings(ids)
	return ids
}

func (d *DashboardService) StartScheduler() {
	d.scheduler.Start()
}

func (d *DashboardService) StopScheduler() error {
	return d.scheduler.Stop()
}

func (d *DashboardService) TriggerManualSweep() {
	d.scheduler.RunNow()
}

func (d *DashboardService) SchedulerStatus() string {
	return d.scheduler.Status()
}

func (d *DashboardService) SweepHistory() []*models.SweepResult {
	return d.history.Records()
}
