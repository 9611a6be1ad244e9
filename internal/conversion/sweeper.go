package conversion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"snaplogd/internal/conversion/interfaces"
	"snaplogd/internal/models"
	"snaplogd/internal/providers"
	"snaplogd/internal/registry"
	"snaplogd/internal/structures"
)

const (
	rawPrefix  = "screen_"
	rawExt     = ".binn"
	sidecarExt = ".json"
)

// Sweeper performs one full conversion pass: for every known device, convert
// pending raw captures to PNG and remove the consumed inputs. A bad file is
// logged and left in place for the next sweep; only a missing shared root
// aborts the whole pass.
type Sweeper struct {
	conf     *structures.Config
	registry *registry.Registry
	logger   providers.Logger
	cache    providers.CacheProviderInterface
	metrics  providers.MetricsProviderInterface
}

func NewSweeper(
	conf *structures.Config,
	reg *registry.Registry,
	logger providers.Logger,
	cache providers.CacheProviderInterface,
	metrics providers.MetricsProviderInterface,
) interfaces.SweeperInterface {
	return &Sweeper{
		conf:     conf,
		registry: reg,
		logger:   logger,
		cache:    cache,
		metrics:  metrics,
	}
}

func (s *Sweeper) Run(runID string, trigger models.TriggerKind) *models.SweepResult {
	res := &models.SweepResult{
		RunID:     runID,
		Trigger:   trigger,
		StartedAt: time.Now(),
	}
	defer func() {
		res.FinishedAt = time.Now()
		s.metrics.IncSweepsTotal(string(trigger))
		s.metrics.ObserveSweepDuration(res.Duration())
	}()

	base := s.conf.Storage.BasePath
	if _, err := os.Stat(base); err != nil {
		s.logger.Errorf(providers.TypeSweep, "[%s] network base path %s is unavailable, cannot perform conversions: %s", runID, base, err)
		res.Fatal = true
		return res
	}

	devices := s.registry.Discover()
	res.Devices = len(devices)
	s.metrics.SetDevicesKnown(len(devices))

	s.logger.Infof(providers.TypeSweep, "[%s] starting batch conversion for %d devices", runID, len(devices))
	for _, device := range devices {
		s.sweepDevice(runID, device, res)
	}
	s.logger.Infof(providers.TypeSweep, "[%s] batch conversion finished: %d converted, %d failed, %d devices skipped",
		runID, res.Converted, res.Failed, res.SkippedDevices)
	return res
}

func (s *Sweeper) sweepDevice(runID, device string, res *models.SweepResult) {
	rawDir := filepath.Join(s.conf.Storage.BasePath, device)
	convertedDir := filepath.Join(s.conf.Storage.ConvertedPath, device)

	entries, err := os.ReadDir(rawDir)
	if err != nil {
		if os.IsNotExist(err) {
			// known from config only, no directory yet
			s.logger.Debugf(providers.TypeSweep, "[%s] no directory for device %s", runID, device)
			return
		}
		s.logger.Errorf(providers.TypeSweep, "[%s] failed to list raw files for %s: %s", runID, device, err)
		res.SkippedDevices++
		return
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), rawExt) {
			files = append(files, entry.Name())
		}
	}
	if len(files) == 0 {
		s.logger.Debugf(providers.TypeSweep, "[%s] no %s files found for conversion in %s", runID, rawExt, rawDir)
		return
	}

	if err := os.MkdirAll(convertedDir, 0755); err != nil {
		s.logger.Errorf(providers.TypeSweep, "[%s] failed to create converted directory for %s, skipping device: %s", runID, device, err)
		res.SkippedDevices++
		return
	}

	s.logger.Infof(providers.TypeSweep, "[%s] converting %d files for device %s", runID, len(files), device)
	for _, name := range files {
		res.Scanned++
		if err := s.convertOne(runID, device, rawDir, convertedDir, name); err != nil {
			res.Failed++
			s.metrics.IncFileFailures(device)
			s.logFailure(runID, device, name, err)
			continue
		}
		res.Converted++
		s.metrics.IncFilesConverted(device)
	}
}

func (s *Sweeper) convertOne(runID, device, rawDir, convertedDir, name string) error {
	rawPath := filepath.Join(rawDir, name)
	raw, err := os.ReadFile(rawPath)
	if err != nil {
		return fmt.Errorf("failed to read raw capture: %w", err)
	}

	width := s.conf.Conversion.FallbackWidth
	height := s.conf.Conversion.FallbackHeight
	sidecarPath := strings.TrimSuffix(rawPath, rawExt) + sidecarExt
	sidecarData, sidecarErr := os.ReadFile(sidecarPath)
	if sidecarErr != nil {
		s.logger.Warnf(providers.TypeSweep, "[%s] no sidecar metadata for %s, assuming %dx%d", runID, name, width, height)
	} else if w, h, err := ParseSidecar(sidecarData); err != nil {
		s.logger.Warnf(providers.TypeSweep, "[%s] invalid sidecar metadata for %s, assuming %dx%d: %s", runID, name, width, height, err)
	} else {
		width, height = w, h
	}

	if expected := width * height * 3; len(raw) != expected {
		s.logger.Warnf(providers.TypeSweep, "[%s] raw data size mismatch for %s: expected %d bytes, got %d, attempting conversion anyway",
			runID, name, expected, len(raw))
	}

	img, err := DecodeRGB(raw, width, height)
	if err != nil {
		return err
	}

	timestamp := strings.TrimSuffix(strings.TrimPrefix(name, rawPrefix), rawExt)
	pngName := device + "_" + timestamp + ".png"
	if err := WritePNG(filepath.Join(convertedDir, pngName), img); err != nil {
		return err
	}

	if s.conf.Thumbnail.Enabled {
		thumbPath := filepath.Join(convertedDir, device+"_"+timestamp+"_thumb.png")
		if err := WriteThumbnail(thumbPath, img, s.conf.Thumbnail.MaxWidth); err != nil {
			s.logger.Warnf(providers.TypeSweep, "[%s] failed to write thumbnail for %s: %s", runID, name, err)
		}
	}

	// consume the inputs only once the PNG is in place
	if err := os.Remove(rawPath); err != nil {
		return fmt.Errorf("converted but failed to remove raw capture: %w", err)
	}
	if err := os.Remove(sidecarPath); err != nil && !os.IsNotExist(err) {
		s.logger.Warnf(providers.TypeSweep, "[%s] failed to remove sidecar for %s: %s", runID, name, err)
	}

	s.logger.Infof(providers.TypeSweep, "[%s] converted %s to %s for %s", runID, name, pngName, device)
	return nil
}

// logFailure reports a per-file failure once per cache TTL window; a file
// that keeps failing sweep after sweep drops to debug level on repeats.
func (s *Sweeper) logFailure(runID, device, name string, err error) {
	key := "fail:" + device + "/" + name
	if _, seen := s.cache.Get(key); seen {
		s.logger.Debugf(providers.TypeSweep, "[%s] still failing to convert %s for %s: %s", runID, name, device, err)
		return
	}
	s.cache.Set(key, []byte{1})
	s.logger.Errorf(providers.TypeSweep, "[%s] failed to convert %s for %s: %s", runID, name, device, err)
}
