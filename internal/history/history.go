// Package history stores a log of provisioning and benchmark runs.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// HistoryFileName is the name of the history file.
	HistoryFileName = "history.yaml"
	// BackupSuffix is the suffix for backup files when corruption is detected.
	BackupSuffix = ".backup"
)

// Status constants for history entries.
const (
	// StatusRunning indicates the run is in progress.
	StatusRunning = "running"
	// StatusCompleted indicates the run finished successfully.
	StatusCompleted = "completed"
	// StatusFailed indicates provisioning or an invocation failed.
	StatusFailed = "failed"
)

// HistoryEntry records a single run.
type HistoryEntry struct {
	// ID is a random UUID assigned when the run starts.
	ID string `yaml:"id"`
	// Timestamp is when the run started.
	Timestamp time.Time `yaml:"timestamp"`
	// Command is the munbench command, e.g. "run" or "provision".
	Command string `yaml:"command"`
	// Fixture is the fixture path relative to the resource root.
	Fixture string `yaml:"fixture"`
	// Backend is compiled, script or bytecode.
	Backend string `yaml:"backend"`
	// Entry is the invoked entry point, empty for provision-only runs.
	Entry string `yaml:"entry,omitempty"`
	// Status is running, completed or failed.
	Status string `yaml:"status"`
	// CompletedAt is nil while the run is in progress.
	CompletedAt *time.Time `yaml:"completed_at,omitempty"`
	// ExitCode is the process exit code the run maps to.
	ExitCode int `yaml:"exit_code"`
	// Duration is the wall time in Go duration format.
	Duration string `yaml:"duration,omitempty"`
	// Iterations is the number of timed invocations.
	Iterations int `yaml:"iterations,omitempty"`
	// AvgNs is the mean invocation time.
	AvgNs int64 `yaml:"avg_ns,omitempty"`
}

// HistoryFile is the on-disk layout.
type HistoryFile struct {
	// Entries are ordered oldest first.
	Entries []HistoryEntry `yaml:"entries"`
}

// LoadHistory loads the history file from stateDir. A missing file yields an
// empty history; a corrupted one is moved aside to a .backup file.
func LoadHistory(stateDir string) (*HistoryFile, error) {
	historyPath := filepath.Join(stateDir, HistoryFileName)

	data, err := os.ReadFile(historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &HistoryFile{Entries: []HistoryEntry{}}, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var history HistoryFile
	if err := yaml.Unmarshal(data, &history); err != nil {
		if backupErr := backupCorruptedFile(historyPath); backupErr != nil {
			return nil, fmt.Errorf("backing up corrupted history file: %w", backupErr)
		}
		return &HistoryFile{Entries: []HistoryEntry{}}, nil
	}

	if history.Entries == nil {
		history.Entries = []HistoryEntry{}
	}

	return &history, nil
}

func backupCorruptedFile(path string) error {
	if err := os.Rename(path, path+BackupSuffix); err != nil {
		return fmt.Errorf("renaming corrupted file to backup: %w", err)
	}
	return nil
}

// SaveHistory writes the history atomically, creating stateDir if needed.
func SaveHistory(stateDir string, history *HistoryFile) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	historyPath := filepath.Join(stateDir, HistoryFileName)
	tmpPath := historyPath + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp history file: %w", err)
	}

	if err := os.Rename(tmpPath, historyPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp history file: %w", err)
	}

	return nil
}

// ClearHistory removes all entries.
func ClearHistory(stateDir string) error {
	return SaveHistory(stateDir, &HistoryFile{Entries: []HistoryEntry{}})
}
