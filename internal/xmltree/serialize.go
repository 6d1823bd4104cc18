package xmltree

import (
	"bytes"
	"strings"
)

// Bytes serializes the document in condensed form: nodes exactly as held in
// the tree, with no whitespace added. The XML declaration is preserved when
// the source had one.
func (d *Document) Bytes() []byte {
	var b bytes.Buffer
	if d.Decl != "" {
		b.WriteString("<?xml ")
		b.WriteString(d.Decl)
		b.WriteString("?>")
	}
	for _, n := range d.Nodes {
		writeCompact(&b, n)
	}
	return b.Bytes()
}

// Indent serializes the document with two-space indentation for editability.
// Whitespace-only text between structural elements is treated as formatting
// and regenerated; elements carrying text content (visible-text runs in
// particular) are rendered inline so their content survives byte-exact.
func (d *Document) Indent() []byte {
	var b bytes.Buffer
	if d.Decl != "" {
		b.WriteString("<?xml ")
		b.WriteString(d.Decl)
		b.WriteString("?>\n")
	}
	for _, n := range d.Nodes {
		writeIndent(&b, n, 0)
		b.WriteByte('\n')
	}
	return b.Bytes()
}

func writeCompact(b *bytes.Buffer, n *Node) {
	switch n.Kind {
	case KindText:
		escapeText(b, n.Data)
	case KindComment:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case KindProcInst:
		b.WriteString("<?")
		b.WriteString(n.Target)
		b.WriteByte(' ')
		b.WriteString(n.Data)
		b.WriteString("?>")
	case KindDirective:
		b.WriteString("<!")
		b.WriteString(n.Data)
		b.WriteString(">")
	case KindElement:
		writeOpenTag(b, n)
		if len(n.Children) == 0 {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		for _, c := range n.Children {
			writeCompact(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Tag())
		b.WriteByte('>')
	}
}

func writeIndent(b *bytes.Buffer, n *Node, depth int) {
	if n.Kind != KindElement {
		writeCompact(b, n)
		return
	}
	writeOpenTag(b, n)
	if len(n.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')

	if renderInline(n) {
		for _, c := range n.Children {
			writeCompact(b, c)
		}
	} else {
		for _, c := range n.Children {
			if c.Kind == KindText && strings.TrimSpace(c.Data) == "" {
				continue
			}
			b.WriteByte('\n')
			pad(b, depth+1)
			writeIndent(b, c, depth+1)
		}
		b.WriteByte('\n')
		pad(b, depth)
	}

	b.WriteString("</")
	b.WriteString(n.Tag())
	b.WriteByte('>')
}

// renderInline decides whether an element's children are laid out without
// added whitespace. Visible-text runs ("t" local name) are always inline;
// so is any element whose content is textual rather than structural.
func renderInline(n *Node) bool {
	if n.Local == "t" {
		return true
	}
	hasText := false
	hasElem := false
	for _, c := range n.Children {
		switch c.Kind {
		case KindText:
			if strings.TrimSpace(c.Data) != "" {
				return true
			}
			hasText = true
		case KindElement:
			hasElem = true
		}
	}
	return hasText && !hasElem
}

func writeOpenTag(b *bytes.Buffer, n *Node) {
	b.WriteByte('<')
	b.WriteString(n.Tag())
	for _, a := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name())
		b.WriteString(`="`)
		escapeAttr(b, a.Value)
		b.WriteByte('"')
	}
}

func pad(b *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func escapeText(b *bytes.Buffer, s string) {
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
}

func escapeAttr(b *bytes.Buffer, s string) {
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\n':
			b.WriteString("&#10;")
		case '\t':
			b.WriteString("&#9;")
		default:
			b.WriteRune(r)
		}
	}
}
