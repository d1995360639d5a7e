package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the command tree with args and captures both streams.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := NewRootCommand()
	var out, errBuf bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errBuf.String(), err
}

func TestRootRejectsInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "players", "testdata/game.json", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootListsSubcommands(t *testing.T) {
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"players", "banks", "chat", "rebuild", "verify", "catalog", "protocol"} {
		assert.Contains(t, out, name)
	}
}

func TestThresholdsConfigOverride(t *testing.T) {
	opts := &RootOptions{}
	th, err := opts.Thresholds()
	require.NoError(t, err)
	assert.Equal(t, 24764, th.UserIDDriven)

	opts.Config = "does-not-exist.yaml"
	_, err = opts.Thresholds()
	assert.Error(t, err)
}
