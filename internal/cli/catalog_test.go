package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sc2kit/s2bank/internal/store"
)

func ingestTestDump(t *testing.T, db string) CatalogIngestResult {
	t.Helper()
	out, _, err := execute(t, "catalog", "ingest", "testdata/game.json", "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string              `json:"status"`
		Data   CatalogIngestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestCatalogIngest(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")

	ingested := ingestTestDump(t, db)
	require.NotEmpty(t, ingested.ReplayID)
	assert.Equal(t, 1, ingested.Participants)
	assert.Equal(t, 1, ingested.Banks)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	replays, err := st.ListReplays(context.Background())
	require.NoError(t, err)
	require.Len(t, replays, 1)
	assert.Equal(t, ingested.ReplayID, replays[0].ID)
	assert.Equal(t, 80949, replays[0].Build)

	banks, err := st.BanksForReplay(context.Background(), replays[0].ID)
	require.NoError(t, err)
	require.Len(t, banks, 1)
	assert.Equal(t, "Save1", banks[0].Name)
	assert.Equal(t, "Nyx", banks[0].Player)
	assert.Equal(t, banks[0].ExpectedDigest, banks[0].ComputedDigest)
}

func TestCatalogList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")
	ingested := ingestTestDump(t, db)

	out, _, err := execute(t, "catalog", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, ingested.ReplayID)
	assert.Contains(t, out, "testdata/game.json")
	assert.Contains(t, out, "Test Map")
}

func TestCatalogListBanksOfReplay(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")
	ingested := ingestTestDump(t, db)

	out, _, err := execute(t, "catalog", "list", "--db", db, "--replay", ingested.ReplayID, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   CatalogListResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Banks, 1)
	assert.Equal(t, "Save1", resp.Data.Banks[0].Name)
	assert.Equal(t, "Nyx", resp.Data.Banks[0].Player)
}

func TestCatalogHistoryAcrossIngests(t *testing.T) {
	db := filepath.Join(t.TempDir(), "catalog.db")
	ingestTestDump(t, db)
	ingestTestDump(t, db)

	out, _, err := execute(t, "catalog", "history", "Save1", "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string               `json:"status"`
		Data   CatalogHistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Save1", resp.Data.Bank)
	require.Len(t, resp.Data.Entries, 2)
	for _, e := range resp.Data.Entries {
		assert.Equal(t, "Save1", e.Name)
		assert.True(t, e.Signed)
	}

	text, _, err := execute(t, "catalog", "history", "Save1", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, text, "VERIFIED")
	assert.Contains(t, text, "Save1")
}

func TestCatalogRequiresDB(t *testing.T) {
	_, _, err := execute(t, "catalog", "ingest", "testdata/game.json")
	require.Error(t, err)
}
