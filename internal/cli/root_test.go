package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "timesheet", cmd.Use)
	assert.Contains(t, cmd.Long, "excl time containers")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"inspect", "simulate", "navigate", "play", "test", "trace"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestSimulateCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	simCmd, _, err := cmd.Find([]string{"simulate"})
	require.NoError(t, err)

	until := simCmd.Flags().Lookup("until")
	require.NotNil(t, until)
	assert.Equal(t, "20", until.DefValue)
	assert.NotNil(t, simCmd.Flags().Lookup("step"))
	assert.NotNil(t, simCmd.Flags().Lookup("at"))
	assert.NotNil(t, simCmd.Flags().Lookup("journal"))
	assert.NotNil(t, simCmd.Flags().Lookup("media"))
}

func TestPlayCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	playCmd, _, err := cmd.Find([]string{"play"})
	require.NoError(t, err)

	duration := playCmd.Flags().Lookup("duration")
	require.NotNil(t, duration)
	assert.Equal(t, "0s", duration.DefValue)
}

func TestTraceCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	traceCmd, _, err := cmd.Find([]string{"trace"})
	require.NoError(t, err)

	assert.NotNil(t, traceCmd.Flags().Lookup("session"))
	assert.NotNil(t, traceCmd.Flags().Lookup("node"))
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "inspect", "testdata/deck.html"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootInstallsConfiguredLogger(t *testing.T) {
	t.Setenv("TIMESHEET_LOG_FORMAT", "json")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs([]string{"-v", "navigate", "testdata/deck.html", "#nowhere"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stderr.String(), `"msg":"fragment activated nothing"`)
	assert.Contains(t, stdout.String(), "nothing to activate")
}

func TestRootRejectsBadConfig(t *testing.T) {
	t.Setenv("TIMESHEET_TICK_RATE", "-1s")
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"inspect", "testdata/deck.html"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
