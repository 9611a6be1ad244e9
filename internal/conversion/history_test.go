package conversion

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snaplogd/internal/models"
	"snaplogd/internal/structures"
	"snaplogd/internal/testutil"
)

func historyConfig(path string, maxRecords int) *structures.Config {
	return &structures.Config{
		History: structures.HistoryConfig{FilePath: path, MaxRecords: maxRecords},
	}
}

func sweepRecord(runID string) *models.SweepResult {
	now := time.Now().Truncate(time.Second)
	return &models.SweepResult{
		RunID:      runID,
		Trigger:    models.TriggerScheduled,
		StartedAt:  now,
		FinishedAt: now.Add(2 * time.Second),
		Converted:  3,
	}
}

func TestHistory_AppendAndRecords(t *testing.T) {
	h := NewHistory(historyConfig("", 0), &testutil.MockCompressor{}, &testutil.MockLogger{})

	h.Append(sweepRecord("a"))
	h.Append(sweepRecord("b"))

	records := h.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].RunID)
	assert.Equal(t, "b", records[1].RunID)
}

func TestHistory_AppendTrimsToMaxRecords(t *testing.T) {
	h := NewHistory(historyConfig("", 2), &testutil.MockCompressor{}, &testutil.MockLogger{})

	for _, id := range []string{"a", "b", "c"} {
		h.Append(sweepRecord(id))
	}

	records := h.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].RunID)
	assert.Equal(t, "c", records[1].RunID)
}

func TestHistory_PersistRestoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.dat")
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	h := NewHistory(historyConfig(path, 0), comp, &testutil.MockLogger{})
	h.Append(sweepRecord("a"))
	require.NoError(t, h.Persist())

	restored := NewHistory(historyConfig(path, 0), comp, &testutil.MockLogger{})
	require.NoError(t, restored.Restore())

	records := restored.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].RunID)
	assert.Equal(t, 3, records[0].Converted)
}

func TestHistory_RestoreMissingFile(t *testing.T) {
	h := NewHistory(historyConfig(filepath.Join(t.TempDir(), "none.dat"), 0), &testutil.MockCompressor{}, &testutil.MockLogger{})
	assert.NoError(t, h.Restore())
	assert.Empty(t, h.Records())
}

func TestHistory_RestoreCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.dat")
	require.NoError(t, os.WriteFile(path, []byte("not zstd"), 0644))

	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	logger := &testutil.MockLogger{}

	h := NewHistory(historyConfig(path, 0), comp, logger)
	assert.NoError(t, h.Restore())
	assert.Empty(t, h.Records())
	assert.Equal(t, 1, logger.CountLevel("warn"))
}
