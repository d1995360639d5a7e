package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuildWritesBankFile(t *testing.T) {
	dir := t.TempDir()
	out, _, err := execute(t, "rebuild", "testdata/game.json", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 bank(s) written")

	path := filepath.Join(dir, "2-S2-1-12345", "2-S2-1-12345", "Save1.SC2Bank")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	xml := string(data)
	assert.True(t, strings.HasPrefix(xml, `<?xml version="1.0" encoding="utf-8"?>`))
	assert.Contains(t, xml, `<Bank version="1">`)
	assert.Contains(t, xml, `<Section name="stats">`)
	assert.Contains(t, xml, `<Value int="42"/>`)
	assert.Contains(t, xml, "F79D488C4A5CFC390191364B980F177701B7D660")
	assert.Contains(t, xml, "\r\n")
	assert.NotContains(t, strings.ReplaceAll(xml, "\r\n", ""), "\n")
}

func TestRebuildReportsVerification(t *testing.T) {
	dir := t.TempDir()
	out, _, err := execute(t, "rebuild", "testdata/game.json", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Save1")
}

func TestRebuildMismatchStillWrites(t *testing.T) {
	dir := t.TempDir()
	out, _, err := execute(t, "rebuild", "testdata/mismatch.json", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✗ Save1")

	_, statErr := os.Stat(filepath.Join(dir, "2-S2-1-12345", "2-S2-1-12345", "Save1.SC2Bank"))
	assert.NoError(t, statErr)
}
