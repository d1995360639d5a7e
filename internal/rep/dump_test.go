package rep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `{
  "build": 80949,
  "title": "Test Map",
  "region": 2,
  "playerList": [
    {
      "control": 2,
      "observe": 0,
      "name": "&lt;Op&gt;<sp/>Nyx",
      "color": {"r": 180, "g": 20, "b": 30, "a": 255},
      "toon": {"region": 2, "realm": 1, "id": 12345},
      "workingSetSlotId": 0
    }
  ],
  "lobbySlots": [
    {"control": 2, "userId": 0, "workingSetSlotId": 0}
  ],
  "gameEvents": [
    {"kind": "bankFile", "loop": 0, "userId": 0, "bits": 144, "name": "Save1"},
    {"kind": "bankSection", "loop": 0, "userId": 0, "bits": 96, "name": "stats"},
    {"kind": "bankKey", "loop": 0, "userId": 0, "bits": 232, "name": "wins", "dataKind": 2, "data": "42"},
    {"kind": "bankSignature", "loop": 0, "userId": 0, "bits": 1320, "signature": "AABB"},
    {"kind": "cameraUpdate", "loop": 17, "userId": 0, "bits": 48}
  ],
  "messageEvents": [
    {"kind": "chat", "loop": 320, "userId": 0, "bits": 80, "recipient": 0, "text": "glhf"}
  ],
  "trackerEvents": [
    {"kind": "playerSetup", "loop": 0, "playerId": 1, "userId": 0, "slotId": 0, "bits": 80}
  ]
}`

func TestParse_Sample(t *testing.T) {
	d, err := Parse([]byte(sampleDump))
	require.NoError(t, err)

	assert.Equal(t, 80949, d.Build)
	assert.Equal(t, "Test Map", d.Title)
	require.Len(t, d.PlayerList, 1)
	require.NotNil(t, d.PlayerList[0].Toon)
	assert.Equal(t, int64(12345), d.PlayerList[0].Toon.ID)
	require.Len(t, d.LobbySlots, 1)
	require.Len(t, d.GameEvents, 5)
	require.Len(t, d.MessageEvents, 1)
	require.Len(t, d.TrackerEvents, 1)
}

func TestParse_EventVariants(t *testing.T) {
	d, err := Parse([]byte(sampleDump))
	require.NoError(t, err)

	file, ok := d.GameEvents[0].(*BankFileEvent)
	require.True(t, ok)
	assert.Equal(t, "Save1", file.Name)
	require.NotNil(t, file.Origin().UserID)
	assert.Equal(t, 0, *file.Origin().UserID)
	assert.Equal(t, int64(144), file.Bits())

	key, ok := d.GameEvents[2].(*BankKeyEvent)
	require.True(t, ok)
	assert.Equal(t, "wins", key.Name)
	assert.Equal(t, 2, key.DataKind)
	assert.Equal(t, []byte("42"), key.Data)

	sig, ok := d.GameEvents[3].(*BankSignatureEvent)
	require.True(t, ok)
	assert.Equal(t, []byte{0xAA, 0xBB}, sig.Signature)

	// Unknown kinds pass through as OtherEvent with the tag preserved.
	other, ok := d.GameEvents[4].(*OtherEvent)
	require.True(t, ok)
	assert.Equal(t, "cameraUpdate", other.Kind)
	assert.Equal(t, int64(17), other.Loop())

	chat, ok := d.MessageEvents[0].(*ChatEvent)
	require.True(t, ok)
	assert.Equal(t, "glhf", chat.Text)
	assert.Equal(t, RecipientAll, chat.Recipient)

	setup, ok := d.TrackerEvents[0].(*PlayerSetupEvent)
	require.True(t, ok)
	assert.Equal(t, 1, setup.PlayerID)
	require.NotNil(t, setup.SlotID)
	assert.Equal(t, 0, *setup.SlotID)
}

func TestParse_MissingRequiredSection(t *testing.T) {
	_, err := Parse([]byte(`{"build": 80949, "playerList": [], "lobbySlots": []}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid dump")
}

func TestParse_RejectsBadSignatureHex(t *testing.T) {
	_, err := Parse([]byte(`{
	  "build": 1, "playerList": [], "lobbySlots": [],
	  "gameEvents": [{"kind": "bankSignature", "loop": 0, "signature": "zz"}]
	}`))
	assert.Error(t, err)
}

func TestParse_RejectsKeyWithoutDataKind(t *testing.T) {
	_, err := Parse([]byte(`{
	  "build": 1, "playerList": [], "lobbySlots": [],
	  "gameEvents": [{"kind": "bankKey", "loop": 0, "name": "k"}]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataKind")
}

func TestParse_NotJSON(t *testing.T) {
	_, err := Parse([]byte("not json"))
	assert.Error(t, err)
}

func TestRecipientName(t *testing.T) {
	assert.Equal(t, "ALL", RecipientName(RecipientAll))
	assert.Equal(t, "OBSERVERS", RecipientName(RecipientObservers))
	assert.Equal(t, "UNKNOWN", RecipientName(42))
}
