// Package xmltree provides a lightweight, namespace-aware XML node tree for
// package parts. It preserves the original prefixes, attribute order and
// text content of a document so that parse/serialize round-trips are
// faithful, and it exposes typed traversal by qualified name instead of
// string matching on prefixed tag names.
package xmltree

import "strings"

// XMLNamespace is the namespace URI bound to the built-in "xml" prefix.
const XMLNamespace = "http://www.w3.org/XML/1998/namespace"

// Kind discriminates node types in a Document.
type Kind int

const (
	KindElement Kind = iota
	KindText
	KindComment
	KindProcInst
	KindDirective
)

// Attr is one attribute of an element. Space is the resolved namespace URI
// ("" for unprefixed attributes), Prefix the prefix as written in the source.
// Namespace declarations are kept in the attribute list: xmlns="..." has
// Local "xmlns" and empty Prefix, xmlns:a="..." has Prefix "xmlns" and
// Local "a".
type Attr struct {
	Space  string
	Prefix string
	Local  string
	Value  string
}

// IsNamespaceDecl reports whether the attribute declares a namespace.
func (a Attr) IsNamespaceDecl() bool {
	return a.Prefix == "xmlns" || (a.Prefix == "" && a.Local == "xmlns")
}

// Name returns the attribute name as written, e.g. "r:id" or "xmlns:a".
func (a Attr) Name() string {
	if a.Prefix != "" {
		return a.Prefix + ":" + a.Local
	}
	return a.Local
}

// Node is one node of the tree. For elements, Space is the resolved
// namespace URI and Prefix the prefix as written; Local is the local name.
// For text, comment and directive nodes only Data is set. For processing
// instructions Target and Data are set.
type Node struct {
	Kind     Kind
	Space    string
	Prefix   string
	Local    string
	Data     string
	Target   string
	Attrs    []Attr
	Children []*Node
}

// Document is a parsed XML part: an optional XML declaration, any prolog
// nodes, and the root element.
type Document struct {
	// Decl is the raw payload of the <?xml ...?> declaration, without the
	// target, e.g. `version="1.0" encoding="UTF-8" standalone="yes"`.
	// Empty when the source had no declaration.
	Decl string

	// Nodes are the top-level nodes in order: prolog comments,
	// directives and the single root element.
	Nodes []*Node
}

// Root returns the root element, or nil for an empty document.
func (d *Document) Root() *Node {
	for _, n := range d.Nodes {
		if n.Kind == KindElement {
			return n
		}
	}
	return nil
}

// Tag returns the element name as written, e.g. "p:sldId".
func (n *Node) Tag() string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Local
	}
	return n.Local
}

// Is reports whether the node is an element with the given namespace URI
// and local name.
func (n *Node) Is(space, local string) bool {
	return n.Kind == KindElement && n.Space == space && n.Local == local
}

// Walk visits the node and every element descendant in document order.
func (n *Node) Walk(fn func(*Node)) {
	if n.Kind != KindElement {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Elements returns the element children in order.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == KindElement {
			out = append(out, c)
		}
	}
	return out
}

// FindAll returns every descendant element (including the node itself)
// matching the namespace URI and local name. An empty space matches any
// namespace.
func (n *Node) FindAll(space, local string) []*Node {
	var out []*Node
	n.Walk(func(e *Node) {
		if e.Local == local && (space == "" || e.Space == space) {
			out = append(out, e)
		}
	})
	return out
}

// Text returns the concatenated text content of the node's direct text
// children.
func (n *Node) Text() string {
	var b strings.Builder
	for _, c := range n.Children {
		if c.Kind == KindText {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// SetText replaces the node's children with a single text node.
func (n *Node) SetText(s string) {
	n.Children = []*Node{{Kind: KindText, Data: s}}
}

// Attr returns the value of the attribute with the given namespace URI and
// local name, and whether it is present. Namespace declarations are not
// matched.
func (n *Node) Attr(space, local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.IsNamespaceDecl() {
			continue
		}
		if a.Local == local && a.Space == space {
			return a.Value, true
		}
	}
	return "", false
}

// AttrByLocal returns the value of the first non-declaration attribute with
// the given local name regardless of namespace.
func (n *Node) AttrByLocal(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.IsNamespaceDecl() {
			continue
		}
		if a.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute identified by namespace URI and
// local name. New attributes are appended with the given prefix.
func (n *Node) SetAttr(space, prefix, local, value string) {
	for i, a := range n.Attrs {
		if !a.IsNamespaceDecl() && a.Local == local && a.Space == space {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Space: space, Prefix: prefix, Local: local, Value: value})
}

// RemoveAttr deletes the attribute with the given namespace URI and local
// name. It returns true if the attribute existed.
func (n *Node) RemoveAttr(space, local string) bool {
	for i, a := range n.Attrs {
		if !a.IsNamespaceDecl() && a.Local == local && a.Space == space {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveChild deletes a direct child node. It returns true if the child was
// found.
func (n *Node) RemoveChild(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return true
		}
	}
	return false
}

// InsertChild inserts a child at the given index, clamped to the valid
// range.
func (n *Node) InsertChild(index int, child *Node) {
	if index < 0 {
		index = 0
	}
	if index > len(n.Children) {
		index = len(n.Children)
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[index+1:], n.Children[index:])
	n.Children[index] = child
}

// FilterChildren keeps only the direct children for which keep returns
// true, and returns the number removed.
func (n *Node) FilterChildren(keep func(*Node) bool) int {
	kept := n.Children[:0]
	removed := 0
	for _, c := range n.Children {
		if keep(c) {
			kept = append(kept, c)
		} else {
			removed++
		}
	}
	n.Children = kept
	return removed
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	cp := *n
	cp.Attrs = append([]Attr(nil), n.Attrs...)
	cp.Children = make([]*Node, len(n.Children))
	for i, c := range n.Children {
		cp.Children[i] = c.Clone()
	}
	return &cp
}
