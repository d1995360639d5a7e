package bank

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sc2kit/s2bank/internal/rep"
	"github.com/sc2kit/s2bank/internal/roster"
)

// UnknownDataKindError reports a data kind with no known serialization.
// Unknown kinds mean corruption or an unhandled protocol extension, so the
// affected bank is never silently coerced.
type UnknownDataKindError struct {
	Kind DataKind
	Key  string
}

func (e *UnknownDataKindError) Error() string {
	return fmt.Sprintf("unknown data kind %d for key %q", int(e.Kind), e.Key)
}

// ReconstructError is a fatal construction failure scoped to one bank.
type ReconstructError struct {
	Bank  string
	Owner *roster.Participant
	Err   error
}

func (e *ReconstructError) Error() string {
	owner := "?"
	if e.Owner != nil {
		owner = e.Owner.Name
	}
	return fmt.Sprintf("bank %q (player %s): %v", e.Bank, owner, e.Err)
}

func (e *ReconstructError) Unwrap() error { return e.Err }

// IsUnknownDataKind reports whether err stems from an unrecognized data
// kind.
func IsUnknownDataKind(err error) bool {
	var u *UnknownDataKindError
	return errors.As(err, &u)
}

// Result holds the reconstruction output: documents in participant order
// (bank order within a participant), plus the per-bank fatal errors.
type Result struct {
	Documents []*Document
	Errors    []*ReconstructError
}

// builderState is the per-participant fold position.
type builderState int

const (
	stateIdle builderState = iota
	stateInBank
	stateInSection
	stateInKey
)

// builder folds one participant's partition of the event stream.
type builder struct {
	owner *roster.Participant
	docs  []*Document
	state builderState

	// failed marks the current bank as aborted; its events are ignored
	// until the next bank-file event opens a fresh document.
	failed bool
}

func (b *builder) doc() *Document {
	return b.docs[len(b.docs)-1]
}

func (b *builder) section() *Section {
	d := b.doc()
	return &d.Sections[len(d.Sections)-1]
}

func (b *builder) key() *Key {
	s := b.section()
	return &s.Keys[len(s.Keys)-1]
}

// Reconstruct folds the game-event stream into per-participant bank
// documents. Documents come out grouped by participant in player-list
// order, banks in event order within a participant.
//
// Bank reconstruction only applies to the pre-game setup phase: the first
// non-bank event with a game-loop tick above zero ends it, and bank-kind
// events after that boundary are not folded. The stream is still consumed
// to the end. Zero-tick non-bank events before the boundary are skipped
// without terminating.
//
// An unrecognized data kind aborts the affected bank only; its error is
// recorded on the Result and other participants' banks are unaffected.
func Reconstruct(stream *rep.Stream, dir *roster.Directory, log *slog.Logger) *Result {
	if log == nil {
		log = slog.Default()
	}

	res := &Result{}
	builders := make(map[*roster.Participant]*builder)

	builderFor := func(origin rep.Origin) *builder {
		p := dir.ByOrigin(origin)
		if p == nil {
			return nil
		}
		b, ok := builders[p]
		if !ok {
			b = &builder{owner: p}
			builders[p] = b
		}
		return b
	}

	scanning := true
	for {
		ev, ok := stream.Next()
		if !ok {
			break
		}
		if !scanning {
			continue
		}

		if !isBankEvent(ev) {
			if ev.Loop() > 0 {
				scanning = false
			}
			continue
		}

		b := builderFor(ev.Origin())
		if b == nil {
			log.Warn("bank event from unresolved origin", "event", eventLabel(ev))
			continue
		}
		foldEvent(b, ev, res, log)
	}

	for _, p := range dir.Participants() {
		if b, ok := builders[p]; ok {
			res.Documents = append(res.Documents, b.docs...)
		}
	}
	return res
}

func isBankEvent(ev rep.Event) bool {
	switch ev.(type) {
	case *rep.BankFileEvent, *rep.BankSectionEvent, *rep.BankKeyEvent,
		*rep.BankValueEvent, *rep.BankSignatureEvent:
		return true
	default:
		return false
	}
}

func foldEvent(b *builder, ev rep.Event, res *Result, log *slog.Logger) {
	if file, ok := ev.(*rep.BankFileEvent); ok {
		b.docs = append(b.docs, &Document{Name: file.Name, Owner: b.owner})
		b.state = stateInBank
		b.failed = false
		b.doc().Summary.NetBits += ev.Bits()
		return
	}

	if b.state == stateIdle || b.failed {
		if b.state == stateIdle {
			log.Warn("bank event before any bank-file event", "event", eventLabel(ev))
		}
		return
	}

	sum := &b.doc().Summary
	sum.NetBits += ev.Bits()

	switch e := ev.(type) {
	case *rep.BankSectionEvent:
		b.doc().Sections = append(b.doc().Sections, Section{Name: e.Name})
		b.state = stateInSection
		sum.Sections++

	case *rep.BankKeyEvent:
		if b.state == stateInBank {
			log.Warn("bank key event outside any section",
				"bank", b.doc().Name, "key", e.Name)
			return
		}
		sum.Keys++
		sum.ContentBytes += int64(len(e.Name))

		kind := DataKind(e.DataKind)
		// Complex keys carry their data in follow-up value events; any
		// inline payload is not content.
		if kind != KindComplex {
			sum.ContentBytes += int64(len(e.Data))
		}

		attr, known := kind.AttrName()
		if !known {
			b.fail(res, &UnknownDataKindError{Kind: kind, Key: e.Name}, log)
			return
		}
		key := Key{Name: e.Name}
		if kind != KindComplex {
			key.Values = []Value{{Tag: "Value", Attrs: []Attr{{Key: attr, Value: string(e.Data)}}}}
		}
		sec := b.section()
		sec.Keys = append(sec.Keys, key)
		b.state = stateInKey

	case *rep.BankValueEvent:
		if b.state != stateInKey {
			log.Warn("bank value event outside any key",
				"bank", b.doc().Name, "value", e.Name)
			return
		}
		sum.ContentBytes += int64(len(e.Data))

		attr, known := DataKind(e.DataKind).AttrName()
		if !known || attr == "" {
			b.fail(res, &UnknownDataKindError{Kind: DataKind(e.DataKind), Key: e.Name}, log)
			return
		}
		key := b.key()
		key.Values = append(key.Values, Value{Tag: e.Name, Attrs: []Attr{{Key: attr, Value: string(e.Data)}}})

	case *rep.BankSignatureEvent:
		if len(e.Signature) > 0 {
			b.doc().Signature = hexUpper(e.Signature)
			sum.Signed = true
		}
	}
}

// fail aborts the current bank: it is dropped from the output and further
// events are ignored until the next bank-file event.
func (b *builder) fail(res *Result, cause error, log *slog.Logger) {
	doc := b.doc()
	res.Errors = append(res.Errors, &ReconstructError{
		Bank:  doc.Name,
		Owner: b.owner,
		Err:   cause,
	})
	log.Error("bank reconstruction aborted",
		"bank", doc.Name,
		"player", b.owner.Name,
		"error", cause,
	)
	b.docs = b.docs[:len(b.docs)-1]
	b.failed = true
	b.state = stateInBank
}

func hexUpper(data []byte) string {
	var sb strings.Builder
	for _, x := range data {
		fmt.Fprintf(&sb, "%02X", x)
	}
	return sb.String()
}

func eventLabel(ev rep.Event) string {
	switch e := ev.(type) {
	case *rep.BankFileEvent:
		return "bankFile " + e.Name
	case *rep.BankSectionEvent:
		return "bankSection " + e.Name
	case *rep.BankKeyEvent:
		return "bankKey " + e.Name
	case *rep.BankValueEvent:
		return "bankValue " + e.Name
	case *rep.BankSignatureEvent:
		return "bankSignature"
	default:
		return fmt.Sprintf("%T", ev)
	}
}
