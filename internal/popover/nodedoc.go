package popover

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeDocument is a Document backed by a parsed HTML tree. Nodes are
// *html.Node values.
type NodeDocument struct {
	root *html.Node

	// Navigate, when set, receives link activations.
	Navigate func(url, target string)
}

// ParseDocument parses a full HTML page.
func ParseDocument(markup string) (*NodeDocument, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &NodeDocument{root: root}, nil
}

// NewNodeDocument wraps an existing tree.
func NewNodeDocument(root *html.Node) *NodeDocument {
	return &NodeDocument{root: root}
}

// Root returns the document node.
func (d *NodeDocument) Root() Node { return d.root }

// ElementByID returns the first element with the given id, or nil.
func (d *NodeDocument) ElementByID(id string) Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && getAttr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil
	}
	return found
}

// Render serializes the whole tree.
func (d *NodeDocument) Render() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderNode serializes a single node.
func RenderNode(n Node) string {
	hn := asNode(n)
	if hn == nil {
		return ""
	}
	var buf bytes.Buffer
	_ = html.Render(&buf, hn)
	return buf.String()
}

func (d *NodeDocument) Create(tag, class string) Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

func (d *NodeDocument) Attach(parent, child Node) {
	p, c := asNode(parent), asNode(child)
	if p == nil || c == nil {
		return
	}
	if c.Parent != nil {
		c.Parent.RemoveChild(c)
	}
	p.AppendChild(c)
}

func (d *NodeDocument) Detach(n Node) {
	hn := asNode(n)
	if hn == nil || hn.Parent == nil {
		return
	}
	hn.Parent.RemoveChild(hn)
}

func (d *NodeDocument) SetAttribute(n Node, key, value string) {
	hn := asNode(n)
	if hn == nil {
		return
	}
	for i := range hn.Attr {
		if hn.Attr[i].Key == key {
			hn.Attr[i].Val = value
			return
		}
	}
	hn.Attr = append(hn.Attr, html.Attribute{Key: key, Val: value})
}

func (d *NodeDocument) RemoveAttribute(n Node, key string) {
	hn := asNode(n)
	if hn == nil {
		return
	}
	kept := hn.Attr[:0]
	for _, a := range hn.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	hn.Attr = kept
}

func (d *NodeDocument) Attribute(n Node, key string) (string, bool) {
	hn := asNode(n)
	if hn == nil {
		return "", false
	}
	for _, a := range hn.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetContent parses markup as a fragment in the context of n. Content that
// fails to parse is inserted as text.
func (d *NodeDocument) SetContent(n Node, markup string) {
	hn := asNode(n)
	if hn == nil {
		return
	}
	for c := hn.FirstChild; c != nil; c = hn.FirstChild {
		hn.RemoveChild(c)
	}
	ctx := hn
	if ctx.Type != html.ElementNode {
		ctx = &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		hn.AppendChild(&html.Node{Type: html.TextNode, Data: markup})
		return
	}
	for _, c := range nodes {
		hn.AppendChild(c)
	}
}

func (d *NodeDocument) QueryByClass(root Node, class string) []Node {
	r := asNode(root)
	if r == nil {
		r = d.root
	}
	var out []Node
	for c := r.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(n *html.Node) bool {
			if n.Type == html.ElementNode && hasClass(n, class) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// Open forwards to Navigate.
func (d *NodeDocument) Open(url, target string) {
	if d.Navigate != nil {
		d.Navigate(url, target)
	}
}

func asNode(n Node) *html.Node {
	hn, _ := n.(*html.Node)
	return hn
}

// walk visits n and its descendants depth-first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if class == "" {
		return false
	}
	for _, f := range strings.Fields(getAttr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}
