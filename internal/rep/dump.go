package rep

import (
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed dump.schema.json
var dumpSchemaJSON string

var dumpSchema = jsonschema.MustCompileString("dump.schema.json", dumpSchemaJSON)

// Dump is a fully decoded replay as produced by the external protocol
// decoder.
type Dump struct {
	Build  int    `json:"build"`
	Title  string `json:"title,omitempty"`
	Region int    `json:"region,omitempty"`

	PlayerList []PlayerRow `json:"playerList"`
	LobbySlots []LobbySlot `json:"lobbySlots"`

	GameEvents    []Event `json:"-"`
	MessageEvents []Event `json:"-"`
	TrackerEvents []Event `json:"-"`
}

// PlayerRow is one details player-list entry.
type PlayerRow struct {
	Control int       `json:"control"`
	Observe int       `json:"observe"`
	Name    string    `json:"name"`
	Color   ColorRGBA `json:"color"`
	Toon    *Toon     `json:"toon,omitempty"`

	// WorkingSetSlotID references the lobby slot with the same id.
	// Nil either predates the working-slot concept or marks a participant
	// that lost its slot (recovered/excluded games).
	WorkingSetSlotID *int `json:"workingSetSlotId,omitempty"`
}

// Toon is a player's account coordinates. A zero region means the account
// has no resolvable handle (local/offline play).
type Toon struct {
	Region int   `json:"region"`
	Realm  int   `json:"realm"`
	ID     int64 `json:"id"`
}

// LobbySlot is one init-data lobby slot.
type LobbySlot struct {
	Control          int  `json:"control"`
	UserID           *int `json:"userId,omitempty"`
	WorkingSetSlotID *int `json:"workingSetSlotId,omitempty"`
}

// ColorRGBA is a player color as 4 bytes.
type ColorRGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// rawDump mirrors the dump JSON with events still undecoded.
type rawDump struct {
	Build         int         `json:"build"`
	Title         string      `json:"title"`
	Region        int         `json:"region"`
	PlayerList    []PlayerRow `json:"playerList"`
	LobbySlots    []LobbySlot `json:"lobbySlots"`
	GameEvents    []rawEvent  `json:"gameEvents"`
	MessageEvents []rawEvent  `json:"messageEvents"`
	TrackerEvents []rawEvent  `json:"trackerEvents"`
}

// rawEvent is the superset of fields an event record may carry. Decoding
// turns it into exactly one tagged variant based on the kind.
type rawEvent struct {
	Kind      string `json:"kind"`
	Loop      int64  `json:"loop"`
	UserID    *int   `json:"userId"`
	PlayerID  *int   `json:"playerId"`
	Bits      int64  `json:"bits"`
	Name      string `json:"name"`
	DataKind  *int   `json:"dataKind"`
	Data      string `json:"data"`
	Signature string `json:"signature"`
	SlotID    *int   `json:"slotId"`
	Recipient int    `json:"recipient"`
	Text      string `json:"text"`
}

// Event kind tags used in dump files.
const (
	KindBankFile      = "bankFile"
	KindBankSection   = "bankSection"
	KindBankKey       = "bankKey"
	KindBankValue     = "bankValue"
	KindBankSignature = "bankSignature"
	KindPlayerSetup   = "playerSetup"
	KindChat          = "chat"
)

// Load reads, validates, and decodes a replay dump file.
func Load(path string) (*Dump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	return Parse(data)
}

// Parse validates dump JSON against the embedded schema and decodes it.
func Parse(data []byte) (*Dump, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse dump: %w", err)
	}
	if err := dumpSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid dump: %w", err)
	}

	var raw rawDump
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse dump: %w", err)
	}

	d := &Dump{
		Build:      raw.Build,
		Title:      raw.Title,
		Region:     raw.Region,
		PlayerList: raw.PlayerList,
		LobbySlots: raw.LobbySlots,
	}

	var err error
	if d.GameEvents, err = decodeEvents(raw.GameEvents); err != nil {
		return nil, fmt.Errorf("game events: %w", err)
	}
	if d.MessageEvents, err = decodeEvents(raw.MessageEvents); err != nil {
		return nil, fmt.Errorf("message events: %w", err)
	}
	if d.TrackerEvents, err = decodeEvents(raw.TrackerEvents); err != nil {
		return nil, fmt.Errorf("tracker events: %w", err)
	}

	return d, nil
}

func decodeEvents(raws []rawEvent) ([]Event, error) {
	if raws == nil {
		return nil, nil
	}
	events := make([]Event, 0, len(raws))
	for i, raw := range raws {
		ev, err := decodeEvent(raw)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func decodeEvent(raw rawEvent) (Event, error) {
	base := EventBase{
		GameLoop: raw.Loop,
		From:     Origin{UserID: raw.UserID, PlayerID: raw.PlayerID},
		NetBits:  raw.Bits,
	}

	switch raw.Kind {
	case KindBankFile:
		return &BankFileEvent{EventBase: base, Name: raw.Name}, nil

	case KindBankSection:
		return &BankSectionEvent{EventBase: base, Name: raw.Name}, nil

	case KindBankKey:
		if raw.DataKind == nil {
			return nil, fmt.Errorf("bankKey %q: missing dataKind", raw.Name)
		}
		return &BankKeyEvent{
			EventBase: base,
			Name:      raw.Name,
			DataKind:  *raw.DataKind,
			Data:      []byte(raw.Data),
		}, nil

	case KindBankValue:
		if raw.DataKind == nil {
			return nil, fmt.Errorf("bankValue %q: missing dataKind", raw.Name)
		}
		return &BankValueEvent{
			EventBase: base,
			Name:      raw.Name,
			DataKind:  *raw.DataKind,
			Data:      []byte(raw.Data),
		}, nil

	case KindBankSignature:
		sig, err := hex.DecodeString(raw.Signature)
		if err != nil {
			return nil, fmt.Errorf("bankSignature: %w", err)
		}
		return &BankSignatureEvent{EventBase: base, Signature: sig}, nil

	case KindPlayerSetup:
		if raw.PlayerID == nil {
			return nil, fmt.Errorf("playerSetup: missing playerId")
		}
		// playerSetup's playerId is payload, not an origin descriptor.
		base.From = Origin{UserID: raw.UserID}
		return &PlayerSetupEvent{
			EventBase: base,
			PlayerID:  *raw.PlayerID,
			SlotID:    raw.SlotID,
		}, nil

	case KindChat:
		return &ChatEvent{EventBase: base, Recipient: raw.Recipient, Text: raw.Text}, nil

	default:
		return &OtherEvent{EventBase: base, Kind: raw.Kind}, nil
	}
}
