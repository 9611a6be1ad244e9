package conversion

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaplogd/internal/models"
	"snaplogd/internal/registry"
	"snaplogd/internal/store"
	"snaplogd/internal/structures"
	"snaplogd/internal/testutil"
)

type sweeperFixture struct {
	conf    *structures.Config
	sweeper *Sweeper
	logger  *testutil.MockLogger
	cache   *testutil.MockCache
	metrics *testutil.MockMetrics
}

func newSweeperFixture(t *testing.T) *sweeperFixture {
	t.Helper()
	root := t.TempDir()
	conf := &structures.Config{
		Storage: structures.StorageConfig{
			BasePath:         filepath.Join(root, "base"),
			ConvertedPath:    filepath.Join(root, "converted"),
			ClientConfigFile: filepath.Join(root, "base", "client_configs.json"),
		},
		Conversion: structures.ConversionConfig{
			FallbackWidth:  4,
			FallbackHeight: 2,
		},
	}
	require.NoError(t, os.MkdirAll(conf.Storage.BasePath, 0755))

	logger := &testutil.MockLogger{}
	cache := &testutil.MockCache{}
	metrics := &testutil.MockMetrics{}
	clients := store.NewClientStore(conf, logger)
	reg := registry.NewRegistry(conf, clients, logger)
	sw := NewSweeper(conf, reg, logger, cache, metrics).(*Sweeper)

	return &sweeperFixture{conf: conf, sweeper: sw, logger: logger, cache: cache, metrics: metrics}
}

func (f *sweeperFixture) addRaw(t *testing.T, device, name string, data []byte) string {
	t.Helper()
	dir := filepath.Join(f.conf.Storage.BasePath, device)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func (f *sweeperFixture) addSidecar(t *testing.T, device, name, doc string) string {
	t.Helper()
	path := filepath.Join(f.conf.Storage.BasePath, device, name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	return img
}

func TestSweeper_ConvertsWithSidecar(t *testing.T) {
	f := newSweeperFixture(t)
	rawPath := f.addRaw(t, "dev1", "screen_20240101120000.binn", make([]byte, 100*50*3))
	sidecarPath := f.addSidecar(t, "dev1", "screen_20240101120000.json", `{"width":100,"height":50}`)

	res := f.sweeper.Run("run1", models.TriggerScheduled)

	assert.Equal(t, 1, res.Converted)
	assert.Equal(t, 0, res.Failed)

	pngPath := filepath.Join(f.conf.Storage.ConvertedPath, "dev1", "dev1_20240101120000.png")
	img := decodePNG(t, pngPath)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())

	// consumed inputs are gone
	_, err := os.Stat(rawPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(sidecarPath)
	assert.True(t, os.IsNotExist(err))
}

func TestSweeper_NoSidecarUsesFallbackResolution(t *testing.T) {
	f := newSweeperFixture(t)
	// exactly fallback-sized (4x2x3), no sidecar
	f.addRaw(t, "dev1", "screen_1.binn", make([]byte, 4*2*3))

	res := f.sweeper.Run("run1", models.TriggerScheduled)

	assert.Equal(t, 1, res.Converted)
	assert.True(t, f.logger.HasEntry("warn", "no sidecar metadata"))

	img := decodePNG(t, filepath.Join(f.conf.Storage.ConvertedPath, "dev1", "dev1_1.png"))
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
}

func TestSweeper_SizeMismatchStillAttempts(t *testing.T) {
	f := newSweeperFixture(t)
	// longer than fallback needs: warns about the mismatch but converts
	f.addRaw(t, "dev1", "screen_1.binn", make([]byte, 4*2*3+5))

	res := f.sweeper.Run("run1", models.TriggerScheduled)

	assert.Equal(t, 1, res.Converted)
	assert.True(t, f.logger.HasEntry("warn", "size mismatch"))
}

func TestSweeper_ShortBufferIsPerFileFailure(t *testing.T) {
	f := newSweeperFixture(t)
	rawPath := f.addRaw(t, "dev1", "screen_1.binn", make([]byte, 3))

	res := f.sweeper.Run("run1", models.TriggerScheduled)

	assert.Equal(t, 0, res.Converted)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, f.metrics.Failures["dev1"])

	// failed input stays for the next sweep
	_, err := os.Stat(rawPath)
	assert.NoError(t, err)
}

func TestSweeper_MixedGoodAndCorrupt(t *testing.T) {
	f := newSweeperFixture(t)
	f.addRaw(t, "dev1", "screen_good.binn", make([]byte, 10*5*3))
	f.addSidecar(t, "dev1", "screen_good.json", `{"width":10,"height":5}`)
	corruptPath := f.addRaw(t, "dev1", "screen_bad.binn", make([]byte, 7))
	f.addSidecar(t, "dev1", "screen_bad.json", `{"width":10,"height":5}`)

	res := f.sweeper.Run("run1", models.TriggerScheduled)

	assert.Equal(t, 1, res.Converted)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, f.logger.CountLevel("error"))

	_, err := os.Stat(filepath.Join(f.conf.Storage.ConvertedPath, "dev1", "dev1_good.png"))
	assert.NoError(t, err)
	_, err = os.Stat(corruptPath)
	assert.NoError(t, err)
}

func TestSweeper_ConvertedDirFailureSkipsDeviceOnly(t *testing.T) {
	f := newSweeperFixture(t)
	f.addRaw(t, "dev1", "screen_1.binn", make([]byte, 4*2*3))
	f.addRaw(t, "dev2", "screen_1.binn", make([]byte, 4*2*3))

	// a plain file where dev1's converted directory should go
	require.NoError(t, os.MkdirAll(f.conf.Storage.ConvertedPath, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(f.conf.Storage.ConvertedPath, "dev1"), []byte("x"), 0644))

	res := f.sweeper.Run("run1", models.TriggerScheduled)

	assert.Equal(t, 1, res.SkippedDevices)
	assert.Equal(t, 1, res.Converted)
	_, err := os.Stat(filepath.Join(f.conf.Storage.ConvertedPath, "dev2", "dev2_1.png"))
	assert.NoError(t, err)
}

func TestSweeper_MissingBasePathIsFatal(t *testing.T) {
	f := newSweeperFixture(t)
	require.NoError(t, os.RemoveAll(f.conf.Storage.BasePath))

	res := f.sweeper.Run("run1", models.TriggerScheduled)

	assert.True(t, res.Fatal)
	assert.Equal(t, 0, res.Converted)
	assert.True(t, f.logger.HasEntry("error", "unavailable"))
}

func TestSweeper_DeviceKnownFromConfigOnly(t *testing.T) {
	f := newSweeperFixture(t)
	clients := store.NewClientStore(f.conf, f.logger)
	require.NoError(t, clients.Save(models.ClientConfigs{"ghost": models.DefaultClientSettings()}))

	res := f.sweeper.Run("run1", models.TriggerScheduled)

	// no directory yet: nothing converted, nothing skipped, no error
	assert.Equal(t, 1, res.Devices)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 0, res.SkippedDevices)
}

func TestSweeper_RepeatedFailureLogsOnce(t *testing.T) {
	f := newSweeperFixture(t)
	f.addRaw(t, "dev1", "screen_1.binn", make([]byte, 3))

	f.sweeper.Run("run1", models.TriggerScheduled)
	f.sweeper.Run("run2", models.TriggerScheduled)

	assert.Equal(t, 1, f.logger.CountLevel("error"))
	assert.GreaterOrEqual(t, f.logger.CountLevel("debug"), 1)
}

func TestSweeper_WritesThumbnailWhenEnabled(t *testing.T) {
	f := newSweeperFixture(t)
	f.conf.Thumbnail = structures.ThumbnailConfig{Enabled: true, MaxWidth: 50}
	f.addRaw(t, "dev1", "screen_1.binn", make([]byte, 100*50*3))
	f.addSidecar(t, "dev1", "screen_1.json", `{"width":100,"height":50}`)

	f.sweeper.Run("run1", models.TriggerScheduled)

	img := decodePNG(t, filepath.Join(f.conf.Storage.ConvertedPath, "dev1", "dev1_1_thumb.png"))
	assert.Equal(t, 50, img.Bounds().Dx())
}
