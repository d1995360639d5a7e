package bank

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Filename returns the deterministic relative path a bank is persisted
// under: {selfHandle}/{authorHandle}/{name}.SC2Bank. Absent handles
// collapse to the shorter path.
func Filename(doc *Document, authorHandle, selfHandle string) string {
	return filepath.Join(selfHandle, authorHandle, doc.Name+".SC2Bank")
}

// MarshalXML renders a document in the game's own SC2Bank formatting:
// UTF-8 declaration, 4-space indent, CRLF line endings, self-closing
// leaves.
func MarshalXML(doc *Document) []byte {
	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\r\n")
	sb.WriteString("<Bank version=\"1\">\r\n")

	for _, sec := range doc.Sections {
		fmt.Fprintf(&sb, "    <Section name=\"%s\">\r\n", xmlEscape(sec.Name))
		for _, key := range sec.Keys {
			if len(key.Values) == 0 {
				fmt.Fprintf(&sb, "        <Key name=\"%s\"/>\r\n", xmlEscape(key.Name))
				continue
			}
			fmt.Fprintf(&sb, "        <Key name=\"%s\">\r\n", xmlEscape(key.Name))
			for _, val := range key.Values {
				sb.WriteString("            <" + xmlEscape(val.Tag))
				for _, attr := range val.Attrs {
					fmt.Fprintf(&sb, " %s=\"%s\"", attr.Key, xmlEscape(attr.Value))
				}
				sb.WriteString("/>\r\n")
			}
			sb.WriteString("        </Key>\r\n")
		}
		sb.WriteString("    </Section>\r\n")
	}

	if doc.Signature != "" {
		fmt.Fprintf(&sb, "    <Signature value=\"%s\"/>\r\n", doc.Signature)
	}

	sb.WriteString("</Bank>\r\n")
	return []byte(sb.String())
}

// WriteFile persists a document under targetDir and returns the full path.
func WriteFile(doc *Document, targetDir, authorHandle, selfHandle string) (string, error) {
	path := filepath.Join(targetDir, Filename(doc, authorHandle, selfHandle))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("write bank: %w", err)
	}
	if err := os.WriteFile(path, MarshalXML(doc), 0o644); err != nil {
		return "", fmt.Errorf("write bank: %w", err)
	}
	return path, nil
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
