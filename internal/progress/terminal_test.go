package progress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notATerminal(t *testing.T) int {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return int(f.Fd())
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		useColor bool
	}{
		"color":    {useColor: true},
		"no color": {useColor: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			caps := detect(notATerminal(t), tt.useColor)
			assert.Equal(t, tt.useColor, caps.SupportsColor)
			assert.False(t, caps.IsTTY)
			assert.False(t, caps.SupportsUnicode)
			assert.Zero(t, caps.Width)
		})
	}
}

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	unicode := SelectSymbols(TerminalCapabilities{SupportsUnicode: true})
	assert.Equal(t, "✓", unicode.Checkmark)
	assert.Equal(t, "✗", unicode.Failure)
	assert.Equal(t, 14, unicode.SpinnerSet)

	ascii := SelectSymbols(TerminalCapabilities{})
	assert.Equal(t, "[OK]", ascii.Checkmark)
	assert.Equal(t, "[FAIL]", ascii.Failure)
	assert.Equal(t, 9, ascii.SpinnerSet)
}

func BenchmarkDetectTerminalCapabilities(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = DetectTerminalCapabilities(true)
	}
}
