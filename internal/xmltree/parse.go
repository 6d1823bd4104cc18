package xmltree

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// binding is one namespace declaration in scope.
type binding struct {
	prefix string
	uri    string
}

// nsScope reconstructs the prefixes the source document used. Go's decoder
// resolves prefixes to namespace URIs; the scope inverts that mapping so the
// serializer can emit the original names.
type nsScope struct {
	frames [][]binding
}

func (s *nsScope) push(frame []binding) { s.frames = append(s.frames, frame) }
func (s *nsScope) pop()                 { s.frames = s.frames[:len(s.frames)-1] }

// prefixFor returns the prefix bound to a namespace URI, innermost scope
// first. allowDefault permits the default namespace (empty prefix), which
// applies to element names but never to attributes.
func (s *nsScope) prefixFor(uri string, allowDefault bool) (string, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		for _, b := range s.frames[i] {
			if b.uri != uri {
				continue
			}
			if b.prefix == "" && !allowDefault {
				continue
			}
			return b.prefix, true
		}
	}
	return "", false
}

// Parse decodes an XML part into a Document. The decoder accepts legacy
// charsets via the declared encoding label. Any syntax error is returned to
// the caller; policy on whether that is fatal belongs to the caller.
func Parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	doc := &Document{}
	var scope nsScope
	var stack []*Node

	appendNode := func(n *Node) {
		if len(stack) == 0 {
			doc.Nodes = append(doc.Nodes, n)
			return
		}
		parent := stack[len(stack)-1]
		// Coalesce adjacent text nodes; the decoder may split character
		// data at entity boundaries.
		if n.Kind == KindText && len(parent.Children) > 0 {
			last := parent.Children[len(parent.Children)-1]
			if last.Kind == KindText {
				last.Data += n.Data
				return
			}
		}
		parent.Children = append(parent.Children, n)
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			scope.push(declarations(t.Attr))
			el := &Node{
				Kind:   KindElement,
				Space:  t.Name.Space,
				Local:  t.Name.Local,
				Prefix: elementPrefix(&scope, t.Name.Space),
				Attrs:  convertAttrs(&scope, t.Attr),
			}
			appendNode(el)
			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]
			scope.pop()

		case xml.CharData:
			appendNode(&Node{Kind: KindText, Data: string(t)})

		case xml.Comment:
			appendNode(&Node{Kind: KindComment, Data: string(t)})

		case xml.ProcInst:
			if t.Target == "xml" && len(stack) == 0 && doc.Decl == "" {
				doc.Decl = string(t.Inst)
				continue
			}
			appendNode(&Node{Kind: KindProcInst, Target: t.Target, Data: string(t.Inst)})

		case xml.Directive:
			appendNode(&Node{Kind: KindDirective, Data: string(t)})
		}
	}

	if doc.Root() == nil {
		return nil, fmt.Errorf("parse xml: no root element")
	}
	return doc, nil
}

// declarations extracts the namespace declarations of a start tag in
// document order.
func declarations(attrs []xml.Attr) []binding {
	var frame []binding
	for _, a := range attrs {
		switch {
		case a.Name.Space == "xmlns":
			frame = append(frame, binding{prefix: a.Name.Local, uri: a.Value})
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			frame = append(frame, binding{prefix: "", uri: a.Value})
		}
	}
	return frame
}

// elementPrefix reconstructs the prefix of an element name from its
// resolved namespace.
func elementPrefix(scope *nsScope, space string) string {
	if space == "" {
		return ""
	}
	if space == XMLNamespace {
		return "xml"
	}
	if p, ok := scope.prefixFor(space, true); ok {
		return p
	}
	// The decoder leaves undeclared prefixes unresolved, in which case
	// Space holds the prefix verbatim.
	return space
}

// attrPrefix reconstructs the prefix of an attribute name. Attributes never
// take the default namespace.
func attrPrefix(scope *nsScope, space string) string {
	if space == "" {
		return ""
	}
	if space == XMLNamespace {
		return "xml"
	}
	if p, ok := scope.prefixFor(space, false); ok {
		return p
	}
	return space
}

func convertAttrs(scope *nsScope, attrs []xml.Attr) []Attr {
	out := make([]Attr, 0, len(attrs))
	for _, a := range attrs {
		switch {
		case a.Name.Space == "xmlns":
			out = append(out, Attr{Prefix: "xmlns", Local: a.Name.Local, Value: a.Value})
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			out = append(out, Attr{Local: "xmlns", Value: a.Value})
		default:
			out = append(out, Attr{
				Space:  a.Name.Space,
				Prefix: attrPrefix(scope, a.Name.Space),
				Local:  a.Name.Local,
				Value:  a.Value,
			})
		}
	}
	return out
}
