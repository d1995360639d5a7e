package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocolFeatures(t *testing.T) {
	out, _, err := execute(t, "protocol", "80949")
	require.NoError(t, err)
	assert.Contains(t, out, "build 80949")
	assert.Contains(t, out, "user-id origins:   yes")
	assert.Contains(t, out, "tracker stream:    yes")
}

func TestProtocolLegacyBuild(t *testing.T) {
	out, _, err := execute(t, "protocol", "17326")
	require.NoError(t, err)
	assert.Contains(t, out, "user-id origins:   no")
	assert.Contains(t, out, "working slots:     no")
}

func TestProtocolSelectionExact(t *testing.T) {
	out, _, err := execute(t, "protocol", "80949", "--known", "80871,80949,81009")
	require.NoError(t, err)
	assert.Contains(t, out, "decoder: 80949 (exact)")
}

func TestProtocolSelectionHighBuildFallback(t *testing.T) {
	out, _, err := execute(t, "protocol", "80940", "--known", "80871,80949,81009", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   ProtocolResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.NotNil(t, resp.Data.SelectedBuild)
	assert.Equal(t, 81009, *resp.Data.SelectedBuild)
	assert.True(t, resp.Data.Fallback)
}

func TestProtocolStrictRejectsUnknownBuild(t *testing.T) {
	_, _, err := execute(t, "protocol", "80940", "--known", "80871,80949", "--strict")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestProtocolRejectsNonNumericBuild(t *testing.T) {
	_, _, err := execute(t, "protocol", "abc")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
