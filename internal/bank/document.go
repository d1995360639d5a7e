// Package bank reconstructs per-participant SC2Bank documents from the
// game-event stream and verifies their signatures.
package bank

import (
	"fmt"

	"github.com/sc2kit/s2bank/internal/roster"
)

// DataKind is the wire enum for bank value types.
type DataKind int

const (
	KindFixed DataKind = iota
	KindFlag
	KindInt
	KindString
	KindUnit
	KindPoint
	KindText
	KindComplex
)

// AttrName returns the XML attribute a data kind serializes under.
// Complex reports ok with an empty name: complex keys carry no inline
// value, their data arrives through follow-up value events. Unit has no
// known serialization and is treated as unrecognized.
func (k DataKind) AttrName() (name string, ok bool) {
	switch k {
	case KindFixed:
		return "fixed", true
	case KindFlag:
		return "flag", true
	case KindInt:
		return "int", true
	case KindString:
		return "string", true
	case KindPoint:
		return "point", true
	case KindText:
		return "text", true
	case KindComplex:
		return "", true
	default:
		return "", false
	}
}

func (k DataKind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindFlag:
		return "flag"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindUnit:
		return "unit"
	case KindPoint:
		return "point"
	case KindText:
		return "text"
	case KindComplex:
		return "complex"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// textAttr is the attribute key whose values are excluded from digests.
const textAttr = "text"

// Attr is one attribute of a value element, in insertion order.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Value is a value-bearing element under a key: the inline "Value" element
// or a named element supplied by a follow-up value event. A finalized
// value carries exactly one typed attribute.
type Value struct {
	Tag   string `json:"tag"`
	Attrs []Attr `json:"attrs"`
}

// Key is a named entry within a section.
type Key struct {
	Name   string  `json:"name"`
	Values []Value `json:"values,omitempty"`
}

// Section is a named group of keys.
type Section struct {
	Name string `json:"name"`
	Keys []Key  `json:"keys,omitempty"`
}

// Document is one reconstructed bank. Sections and keys preserve
// first-seen event order; digest computation re-sorts independently.
type Document struct {
	Name     string    `json:"name"`
	Sections []Section `json:"sections"`

	// Signature is the authority-supplied digest in uppercase hex,
	// empty for unsigned banks.
	Signature string `json:"signature,omitempty"`

	Summary Summary `json:"summary"`

	// Owner is the participant the bank belongs to.
	Owner *roster.Participant `json:"-"`
}

// Summary is the metadata companion accumulated in lockstep with document
// construction.
type Summary struct {
	Sections     int   `json:"sections"`
	Keys         int   `json:"keys"`
	ContentBytes int64 `json:"contentBytes"`
	NetBits      int64 `json:"netBits"`
	Signed       bool  `json:"signed"`
}

// NetBytes converts the accumulated wire size to bytes.
func (s Summary) NetBytes() float64 {
	return float64(s.NetBits) / 8
}
