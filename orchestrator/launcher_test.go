package orchestrator

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandLauncher_ExitCodes(t *testing.T) {
	tests := []struct {
		script   string
		expected int
	}{
		{"exit 0", 0},
		{"exit 3", 3},
		{"kill -TERM $$", 1},
	}

	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			proc, err := (&CommandLauncher{Command: []string{"sh", "-c", tt.script}}).Start()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, proc.Wait())
		})
	}
}

func TestCommandLauncher_InheritsEnvironment(t *testing.T) {
	t.Setenv("MEDUSA_LAUNCHER_TEST", "inherited")

	var stdout bytes.Buffer
	proc, err := (&CommandLauncher{
		Command: []string{"sh", "-c", `printf "%s" "$MEDUSA_LAUNCHER_TEST"`},
		Stdout:  &stdout,
	}).Start()
	require.NoError(t, err)
	assert.Positive(t, proc.Pid())
	assert.Equal(t, 0, proc.Wait())
	assert.Equal(t, "inherited", stdout.String())
}

func TestCommandLauncher_EmptyCommand(t *testing.T) {
	_, err := (&CommandLauncher{}).Start()
	assert.Error(t, err)
}

func TestCommandLauncher_Signal(t *testing.T) {
	proc, err := (&CommandLauncher{Command: []string{"sleep", "30"}}).Start()
	require.NoError(t, err)
	require.NoError(t, proc.Signal(os.Interrupt))
	assert.Equal(t, 1, proc.Wait())
}
