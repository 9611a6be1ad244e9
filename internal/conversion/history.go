package conversion

import (
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"

	"snaplogd/internal/conversion/interfaces"
	"snaplogd/internal/models"
	"snaplogd/internal/providers"
	"snaplogd/internal/structures"
)

// historyFile is the on-disk format: zstd-compressed JSON.
type historyFile struct {
	Records []*models.SweepResult `json:"records"`
}

// History keeps a bounded journal of sweep results so "what did the last runs
// do" survives a restart. It is never consulted for scheduling decisions.
type History struct {
	mu         sync.Mutex
	path       string
	maxRecords int
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	records    []*models.SweepResult
}

func NewHistory(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) interfaces.HistoryInterface {
	return &History{
		path:       conf.History.FilePath,
		maxRecords: conf.History.MaxRecords,
		compressor: compressor,
		logger:     logger,
	}
}

func (h *History) Append(res *models.SweepResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, res)
	if h.maxRecords > 0 && len(h.records) > h.maxRecords {
		h.records = h.records[len(h.records)-h.maxRecords:]
	}
}

// Records returns newest-last copies of the journal.
func (h *History) Records() []*models.SweepResult {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*models.SweepResult, len(h.records))
	copy(out, h.records)
	return out
}

// Restore loads the journal from disk. A missing file is a fresh start; a
// corrupt one is logged and dropped rather than blocking startup.
func (h *History) Restore() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := h.compressor.Decompress(data)
	if err != nil {
		h.logger.Warnf(providers.TypeApp, "Corrupt sweep history %s, starting fresh: %s", h.path, err)
		h.records = nil
		return nil
	}

	var hf historyFile
	if err := json.Unmarshal(decompressed, &hf); err != nil {
		h.logger.Warnf(providers.TypeApp, "Unreadable sweep history %s, starting fresh: %s", h.path, err)
		h.records = nil
		return nil
	}

	h.records = hf.Records
	return nil
}

func (h *History) Persist() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	jsonData, err := json.Marshal(&historyFile{Records: h.records})
	if err != nil {
		return err
	}
	compressed, err := h.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return err
	}
	tmpFile := h.path + ".tmp"
	if err := os.WriteFile(tmpFile, compressed, 0644); err != nil {
		return err
	}
	return os.Rename(tmpFile, h.path)
}

func (h *History) Close() {
	h.compressor.Close()
}
