package history

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHistory(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content     *string
		wantEntries int
		wantBackup  bool
	}{
		"missing file": {
			wantEntries: 0,
		},
		"valid file": {
			content:     strPtr("entries:\n  - id: abc\n    command: run\n    fixture: fibonacci.lua\n    backend: script\n    status: completed\n    exit_code: 0\n"),
			wantEntries: 1,
		},
		"empty entries": {
			content:     strPtr("entries:\n"),
			wantEntries: 0,
		},
		"corrupted file": {
			content:     strPtr("entries: [unclosed\n"),
			wantEntries: 0,
			wantBackup:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if tt.content != nil {
				require.NoError(t, os.WriteFile(filepath.Join(dir, HistoryFileName), []byte(*tt.content), 0o644))
			}

			h, err := LoadHistory(dir)
			require.NoError(t, err)
			assert.Len(t, h.Entries, tt.wantEntries)
			assert.NotNil(t, h.Entries)

			_, err = os.Stat(filepath.Join(dir, HistoryFileName+BackupSuffix))
			assert.Equal(t, tt.wantBackup, err == nil)
		})
	}
}

func TestSaveAndClearHistory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "state")
	h := &HistoryFile{Entries: []HistoryEntry{{ID: "one", Command: "run", Status: StatusCompleted}}}
	require.NoError(t, SaveHistory(dir, h))

	loaded, err := LoadHistory(dir)
	require.NoError(t, err)
	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, "one", loaded.Entries[0].ID)

	_, err = os.Stat(filepath.Join(dir, HistoryFileName+".tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should not be left behind")

	require.NoError(t, ClearHistory(dir))
	loaded, err = LoadHistory(dir)
	require.NoError(t, err)
	assert.Empty(t, loaded.Entries)
}

func TestWriter_StartAndComplete(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir(), 10)
	id, err := w.WriteStart("run", "fibonacci.wasm", "bytecode", "fibonacci")
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	h, err := LoadHistory(w.StateDir)
	require.NoError(t, err)
	require.Len(t, h.Entries, 1)
	assert.Equal(t, StatusRunning, h.Entries[0].Status)
	assert.Nil(t, h.Entries[0].CompletedAt)

	err = w.UpdateComplete(id, Completion{
		Status:     StatusCompleted,
		Duration:   2 * time.Second,
		Iterations: 10,
		AvgNs:      1500,
	})
	require.NoError(t, err)

	h, err = LoadHistory(w.StateDir)
	require.NoError(t, err)
	e := h.Entries[0]
	assert.Equal(t, StatusCompleted, e.Status)
	assert.Equal(t, "2s", e.Duration)
	assert.Equal(t, 10, e.Iterations)
	assert.Equal(t, int64(1500), e.AvgNs)
	assert.NotNil(t, e.CompletedAt)
	assert.Equal(t, "fibonacci", e.Entry)
}

func TestWriter_UpdateUnknownID(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir(), 10)
	err := w.UpdateComplete("missing", Completion{Status: StatusFailed})
	assert.Error(t, err)
}

func TestWriter_Pruning(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		existing    int
		maxEntries  int
		wantEntries int
	}{
		"no pruning needed":    {existing: 5, maxEntries: 10, wantEntries: 6},
		"prune oldest":         {existing: 10, maxEntries: 10, wantEntries: 10},
		"unlimited with zero":  {existing: 12, maxEntries: 0, wantEntries: 13},
		"shrinks to new limit": {existing: 8, maxEntries: 3, wantEntries: 3},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			seed := &HistoryFile{}
			for i := 0; i < tt.existing; i++ {
				seed.Entries = append(seed.Entries, HistoryEntry{ID: uuid.NewString(), Command: "provision"})
			}
			require.NoError(t, SaveHistory(dir, seed))

			w := NewWriter(dir, tt.maxEntries)
			id, err := w.WriteStart("run", "empty.lua", "script", "empty")
			require.NoError(t, err)

			h, err := LoadHistory(dir)
			require.NoError(t, err)
			assert.Len(t, h.Entries, tt.wantEntries)
			assert.Equal(t, id, h.Entries[len(h.Entries)-1].ID, "newest entry is kept")
		})
	}
}

func TestWriter_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir(), 0)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.WriteStart("run", "fibonacci.lua", "script", "fibonacci")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	h, err := LoadHistory(w.StateDir)
	require.NoError(t, err)
	assert.Len(t, h.Entries, 10)
}

func strPtr(s string) *string { return &s }
