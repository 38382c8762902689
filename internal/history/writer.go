package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Writer appends entries to the history file and prunes old ones.
type Writer struct {
	// StateDir is the directory containing the history file.
	StateDir string
	// MaxEntries is the number of entries kept; 0 keeps everything.
	MaxEntries int

	mu sync.Mutex
}

// NewWriter creates a history writer.
func NewWriter(stateDir string, maxEntries int) *Writer {
	return &Writer{
		StateDir:   stateDir,
		MaxEntries: maxEntries,
	}
}

func (w *Writer) append(entry HistoryEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	history, err := LoadHistory(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	history.Entries = append(history.Entries, entry)
	if w.MaxEntries > 0 && len(history.Entries) > w.MaxEntries {
		excess := len(history.Entries) - w.MaxEntries
		history.Entries = history.Entries[excess:]
	}

	if err := SaveHistory(w.StateDir, history); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// WriteStart records a running entry and returns its ID.
func (w *Writer) WriteStart(command, fixture, backend, entryPoint string) (string, error) {
	id := uuid.NewString()
	entry := HistoryEntry{
		ID:        id,
		Timestamp: time.Now(),
		Command:   command,
		Fixture:   fixture,
		Backend:   backend,
		Entry:     entryPoint,
		Status:    StatusRunning,
	}

	if err := w.append(entry); err != nil {
		return "", fmt.Errorf("writing start entry: %w", err)
	}
	return id, nil
}

// Completion is the final state of a run.
type Completion struct {
	Status     string
	ExitCode   int
	Duration   time.Duration
	Iterations int
	AvgNs      int64
}

// UpdateComplete marks the entry id as finished.
func (w *Writer) UpdateComplete(id string, c Completion) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	history, err := LoadHistory(w.StateDir)
	if err != nil {
		return fmt.Errorf("loading history for update: %w", err)
	}

	found := false
	for i := range history.Entries {
		if history.Entries[i].ID != id {
			continue
		}
		now := time.Now()
		e := &history.Entries[i]
		e.Status = c.Status
		e.ExitCode = c.ExitCode
		e.Duration = c.Duration.String()
		e.Iterations = c.Iterations
		e.AvgNs = c.AvgNs
		e.CompletedAt = &now
		found = true
		break
	}
	if !found {
		return fmt.Errorf("entry not found with ID: %s", id)
	}

	if err := SaveHistory(w.StateDir, history); err != nil {
		return fmt.Errorf("saving updated history: %w", err)
	}
	return nil
}
