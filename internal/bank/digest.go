package bank

import (
	"crypto/sha1"
	"fmt"
	"sort"
	"strings"
)

// ComputeDigest recomputes a bank's canonical digest the way the game
// client does.
//
// The payload is an ordered fragment list concatenated without separators:
// author handle, self handle, bank name, then for each section in name
// order every key in name order, and under each key every value-bearing
// element in tag order, emitting the tag, then each attribute's key and,
// unless the attribute is the text kind, its value. Text values are
// client-defined and not canonical across clients, so they are excluded.
// The digest is SHA-1 over the UTF-8 bytes, rendered as uppercase hex.
//
// The sort here never reorders the document itself; sections and keys keep
// their first-seen order everywhere else.
func ComputeDigest(doc *Document, authorHandle, selfHandle string) string {
	var sb strings.Builder
	sb.WriteString(authorHandle)
	sb.WriteString(selfHandle)
	sb.WriteString(doc.Name)

	sections := make([]*Section, len(doc.Sections))
	for i := range doc.Sections {
		sections[i] = &doc.Sections[i]
	}
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Name < sections[j].Name })

	for _, sec := range sections {
		sb.WriteString(sec.Name)

		keys := make([]*Key, len(sec.Keys))
		for i := range sec.Keys {
			keys[i] = &sec.Keys[i]
		}
		sort.SliceStable(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })

		for _, key := range keys {
			sb.WriteString(key.Name)

			values := make([]*Value, len(key.Values))
			for i := range key.Values {
				values[i] = &key.Values[i]
			}
			sort.SliceStable(values, func(i, j int) bool { return values[i].Tag < values[j].Tag })

			for _, val := range values {
				sb.WriteString(val.Tag)
				for _, attr := range val.Attrs {
					sb.WriteString(attr.Key)
					if attr.Key != textAttr {
						sb.WriteString(attr.Value)
					}
				}
			}
		}
	}

	sum := sha1.Sum([]byte(sb.String()))
	return strings.ToUpper(fmt.Sprintf("%x", sum))
}

// Verification pairs a bank's embedded digest with the recomputed one.
// Mismatches are diagnostic, never fatal; both values are surfaced.
type Verification struct {
	// Expected is the digest embedded in the document's signature,
	// empty for unsigned banks.
	Expected string `json:"expected,omitempty"`

	// Computed is the locally recomputed digest.
	Computed string `json:"computed"`
}

// OK reports whether the bank is signed and the digests agree.
func (v Verification) OK() bool {
	return v.Expected != "" && v.Expected == v.Computed
}

// Verify recomputes a document's digest and pairs it with the embedded
// signature.
func Verify(doc *Document, authorHandle, selfHandle string) Verification {
	return Verification{
		Expected: doc.Signature,
		Computed: ComputeDigest(doc, authorHandle, selfHandle),
	}
}
