package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "mismatch")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad dump")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitCommandError, "inner", errors.New("cause")))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestExitErrorMessage(t *testing.T) {
	assert.Equal(t, "mismatch", NewExitError(ExitFailure, "mismatch").Error())

	err := WrapExitError(ExitCommandError, "failed to load", errors.New("no such file"))
	assert.Equal(t, "failed to load: no such file", err.Error())
	assert.EqualError(t, errors.Unwrap(err), "no such file")
}

func TestFormatterJSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.JSON(map[string]int{"count": 3}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestFormatterJSONErrorEnvelope(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.JSONError(ErrCodeVerify, "digest mismatch", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeVerify, resp.Error.Code)
	assert.Equal(t, "digest mismatch", resp.Error.Message)
}

func TestVerboseLogGoesToErrWriter(t *testing.T) {
	var out, errBuf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &errBuf, Verbose: true}

	f.VerboseLog("loaded %d events", 5)
	assert.Empty(t, out.String())
	assert.Equal(t, "loaded 5 events\n", errBuf.String())

	f.Verbose = false
	f.VerboseLog("suppressed")
	assert.Equal(t, "loaded 5 events\n", errBuf.String())
}
