package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mun-lang/munbench/internal/history"
)

type fakeHistory struct {
	startErr    error
	updateErr   error
	panicStart  bool
	started     []Invocation
	completions map[string]history.Completion
}

func (f *fakeHistory) WriteStart(command, fixture, backend, entryPoint string) (string, error) {
	if f.panicStart {
		panic("boom")
	}
	if f.startErr != nil {
		return "", f.startErr
	}
	f.started = append(f.started, Invocation{command, fixture, backend, entryPoint})
	return "id-1", nil
}

func (f *fakeHistory) UpdateComplete(id string, c history.Completion) error {
	if f.completions == nil {
		f.completions = map[string]history.Completion{}
	}
	f.completions[id] = c
	return f.updateErr
}

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestRunWithHistory(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	inv := Invocation{Command: "run", Fixture: "fibonacci.lua", Backend: "script", Entry: "fibonacci"}

	tests := map[string]struct {
		fnErr        error
		wantStatus   string
		wantExitCode int
	}{
		"success": {wantStatus: history.StatusCompleted},
		"failure": {fnErr: boom, wantStatus: history.StatusFailed, wantExitCode: 4},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			h := &fakeHistory{}
			err := RunWithHistory(context.Background(), h, inv, Options{
				ExitCode: func(error) int { return 4 },
			}, func(ctx context.Context) (history.Completion, error) {
				return history.Completion{Iterations: 3, AvgNs: 10}, tt.fnErr
			})

			assert.Equal(t, tt.fnErr, err)
			require.Equal(t, []Invocation{inv}, h.started)
			c := h.completions["id-1"]
			assert.Equal(t, tt.wantStatus, c.Status)
			assert.Equal(t, tt.wantExitCode, c.ExitCode)
			assert.Equal(t, 3, c.Iterations)
			assert.Equal(t, int64(10), c.AvgNs)
		})
	}
}

func TestRunWithHistory_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := &fakeHistory{}
	called := false
	err := RunWithHistory(ctx, h, Invocation{Command: "run"}, Options{}, func(context.Context) (history.Completion, error) {
		called = true
		return history.Completion{}, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Equal(t, history.StatusFailed, h.completions["id-1"].Status)
	assert.Equal(t, 1, h.completions["id-1"].ExitCode)
}

func TestRunWithHistory_HistoryFailuresAreNonFatal(t *testing.T) {
	t.Parallel()

	tests := map[string]*fakeHistory{
		"start error":  {startErr: errors.New("disk full")},
		"start panic":  {panicStart: true},
		"update error": {updateErr: errors.New("disk full")},
	}

	for name, h := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer
			called := false
			err := RunWithHistory(context.Background(), h, Invocation{Command: "provision"}, Options{Logger: quietLogger(&logs)},
				func(context.Context) (history.Completion, error) {
					called = true
					return history.Completion{}, nil
				})

			assert.NoError(t, err)
			assert.True(t, called)
			assert.Contains(t, logs.String(), "history")
		})
	}
}

func TestRunWithHistory_NilLogger(t *testing.T) {
	t.Parallel()

	err := RunWithHistory(context.Background(), nil, Invocation{}, Options{}, func(context.Context) (history.Completion, error) {
		return history.Completion{}, nil
	})
	assert.NoError(t, err)
}
