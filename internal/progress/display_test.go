package progress_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mun-lang/munbench/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var plainCaps = progress.TerminalCapabilities{}

func TestProgressDisplay_StartStage(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		stage   progress.StageInfo
		want    string
		wantErr bool
	}{
		"first stage": {
			stage: progress.StageInfo{Name: "compile", Detail: "fibonacci.mun", Number: 1, TotalStages: 2},
			want:  "[1/2] Running Compile fibonacci.mun\n",
		},
		"without detail": {
			stage: progress.StageInfo{Name: "benchmark", Number: 3, TotalStages: 3},
			want:  "[3/3] Running Benchmark\n",
		},
		"invalid stage": {
			stage:   progress.StageInfo{Name: "load", Number: 4, TotalStages: 3},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			d := progress.NewProgressDisplayTo(&buf, plainCaps)
			err := d.StartStage(tt.stage)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, buf.String())
				assert.Nil(t, d.CurrentStage())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
			require.NotNil(t, d.CurrentStage())
			assert.Equal(t, progress.StageInProgress, d.CurrentStage().Status)
		})
	}
}

func TestProgressDisplay_CompleteAndFail(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps progress.TerminalCapabilities
		fail bool
		want string
	}{
		"ascii complete": {
			caps: plainCaps,
			want: "[OK] [1/1] Finished Load empty.wasm\n",
		},
		"ascii failure": {
			caps: plainCaps,
			fail: true,
			want: "[FAIL] [1/1] Failed Load empty.wasm: boom\n",
		},
		"unicode complete without color": {
			caps: progress.TerminalCapabilities{SupportsUnicode: true},
			want: "✓ [1/1] Finished Load empty.wasm\n",
		},
		"unicode complete with color": {
			caps: progress.TerminalCapabilities{SupportsUnicode: true, SupportsColor: true},
			want: "\x1b[32m✓\x1b[0m [1/1] Finished Load empty.wasm\n",
		},
		"unicode failure with color": {
			caps: progress.TerminalCapabilities{SupportsUnicode: true, SupportsColor: true},
			fail: true,
			want: "\x1b[31m✗\x1b[0m [1/1] Failed Load empty.wasm: boom\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			d := progress.NewProgressDisplayTo(&buf, tt.caps)
			stage := progress.StageInfo{Name: "load", Detail: "empty.wasm", Number: 1, TotalStages: 1}
			if tt.fail {
				require.NoError(t, d.FailStage(stage, errors.New("boom")))
			} else {
				require.NoError(t, d.CompleteStage(stage))
			}
			assert.Equal(t, tt.want, buf.String())
			assert.Nil(t, d.CurrentStage())
		})
	}
}

func TestProgressDisplay_Track(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := progress.NewProgressDisplayTo(&buf, plainCaps)
	stage := progress.StageInfo{Name: "compile", Number: 1, TotalStages: 2}

	require.NoError(t, d.Track(stage, func() error { return nil }))
	assert.Contains(t, buf.String(), "[OK] [1/2] Finished Compile")

	boom := errors.New("compiler exploded")
	err := d.Track(stage, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "[FAIL] [1/2] Failed Compile: compiler exploded")
}

func TestSpinnerLifecycle(t *testing.T) {
	t.Parallel()

	// A buffer is not a terminal, so the spinner never draws; the lifecycle
	// still has to start and stop cleanly.
	var buf bytes.Buffer
	d := progress.NewProgressDisplayTo(&buf, progress.TerminalCapabilities{IsTTY: true, SupportsUnicode: true})
	stage := progress.StageInfo{Name: "compile", Number: 1, TotalStages: 1}

	require.NoError(t, d.StartStage(stage))
	require.NoError(t, d.StartStage(stage))
	d.StopSpinner()
	d.StopSpinner()
	require.NoError(t, d.CompleteStage(stage))
	assert.Contains(t, buf.String(), "✓ [1/1] Finished Compile")
}
