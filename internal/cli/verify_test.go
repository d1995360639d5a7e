package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyOK(t *testing.T) {
	out, _, err := execute(t, "verify", "testdata/game.json")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "F79D488C4A5CFC390191364B980F177701B7D660")
}

func TestVerifyMismatchExitsOne(t *testing.T) {
	out, _, err := execute(t, "verify", "testdata/mismatch.json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "MISMATCH")
	assert.Contains(t, out, "expected AABB")
}

func TestVerifyMismatchJSONCarriesBothDigests(t *testing.T) {
	out, _, err := execute(t, "verify", "testdata/mismatch.json", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string       `json:"status"`
		Data   VerifyResult `json:"data"`
		Error  *CLIError    `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeVerify, resp.Error.Code)

	require.Len(t, resp.Data.Banks, 1)
	b := resp.Data.Banks[0]
	assert.Equal(t, "AABB", b.Expected)
	assert.NotEqual(t, b.Expected, b.Computed)
	require.NotNil(t, b.OK)
	assert.False(t, *b.OK)
	assert.Equal(t, 1, resp.Data.Mismatches)
}
