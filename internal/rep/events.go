// Package rep models the decoded replay dump consumed by s2bank.
//
// The MPQ archive reader and the versioned binary protocol decoder are
// external; their output reaches this tool as a JSON dump containing the
// build number, the details player list, the init-data lobby slots, and the
// decoded game/message/tracker event sequences. This package loads that
// dump, validates it against an embedded schema, and exposes the events as
// a closed set of tagged variants behind a sealed interface.
package rep

// Origin identifies the participant an event came from. Depending on the
// protocol era exactly one of the two ids is set: user id (lobby/session
// scoped) for modern builds, player id (competitive seat) for old ones.
type Origin struct {
	UserID   *int
	PlayerID *int
}

// Event is the sealed interface over the closed set of decoded event
// variants. Dispatch is by type switch on the concrete type, never by
// probing for field presence.
type Event interface {
	// Loop returns the game-loop tick the event was recorded at.
	Loop() int64
	// Origin returns the event's originating participant descriptor.
	Origin() Origin
	// Bits returns the event's encoded size in bits on the wire.
	Bits() int64

	isEvent()
}

// EventBase carries the fields every decoded event shares.
type EventBase struct {
	GameLoop int64
	From     Origin
	NetBits  int64
}

func (b EventBase) Loop() int64    { return b.GameLoop }
func (b EventBase) Origin() Origin { return b.From }
func (b EventBase) Bits() int64    { return b.NetBits }
func (EventBase) isEvent()         {}

// BankFileEvent opens a new bank document for its originating participant.
type BankFileEvent struct {
	EventBase
	Name string
}

// BankSectionEvent appends a section to the current bank.
type BankSectionEvent struct {
	EventBase
	Name string
}

// BankKeyEvent appends a key to the current section. Unless DataKind is
// complex, Data is the key's inline value.
type BankKeyEvent struct {
	EventBase
	Name     string
	DataKind int
	Data     []byte
}

// BankValueEvent supplies a named value for the current key, used when the
// key's data kind is complex.
type BankValueEvent struct {
	EventBase
	Name     string
	DataKind int
	Data     []byte
}

// BankSignatureEvent carries the authority-computed digest of the current
// bank. An empty signature means the bank is unsigned.
type BankSignatureEvent struct {
	EventBase
	Signature []byte
}

// PlayerSetupEvent is the tracker's participant-setup record. These are
// contiguous at the start of the tracker stream.
type PlayerSetupEvent struct {
	EventBase
	PlayerID int
	SlotID   *int
}

// ChatEvent is a chat message from the message-event stream.
type ChatEvent struct {
	EventBase
	Recipient int
	Text      string
}

// OtherEvent is any decoded event this tool does not interpret. The kind
// tag is kept for diagnostics.
type OtherEvent struct {
	EventBase
	Kind string
}

// Chat recipient codes, as decoded from message events.
const (
	RecipientAll = iota
	RecipientAllies
	RecipientIndividual
	RecipientBattlenet
	RecipientObservers
)

// RecipientName returns a display label for a chat recipient code.
func RecipientName(recipient int) string {
	switch recipient {
	case RecipientAll:
		return "ALL"
	case RecipientAllies:
		return "ALLIES"
	case RecipientIndividual:
		return "INDIVIDUAL"
	case RecipientBattlenet:
		return "BATTLENET"
	case RecipientObservers:
		return "OBSERVERS"
	default:
		return "UNKNOWN"
	}
}
