package live

import (
	"strconv"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/texotip/internal/popover"
)

// Op is one DOM mutation streamed to the browser. Nodes are referred to
// by ref: the element id for nodes that exist in the page, or a
// session-assigned ref for nodes the controller created.
type Op struct {
	Op     string `json:"op"` // create, attach, detach, attr, rmattr, content, open
	Node   string `json:"node,omitempty"`
	Parent string `json:"parent,omitempty"`
	Tag    string `json:"tag,omitempty"`
	Class  string `json:"class,omitempty"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
	URL    string `json:"url,omitempty"`
	Target string `json:"target,omitempty"`
}

// RemoteDocument is a popover.Document that applies every mutation to a
// server-side mirror of the page and records it as an Op for the browser.
type RemoteDocument struct {
	mirror  *popover.NodeDocument
	refs    map[*html.Node]string
	prefix  string
	next    int
	pending []Op
}

// NewRemoteDocument mirrors the given page. Created nodes get refs
// starting with prefix.
func NewRemoteDocument(page, prefix string) (*RemoteDocument, error) {
	mirror, err := popover.ParseDocument(page)
	if err != nil {
		return nil, err
	}
	return &RemoteDocument{
		mirror: mirror,
		refs:   make(map[*html.Node]string),
		prefix: prefix,
	}, nil
}

// Mirror returns the server-side copy of the page.
func (d *RemoteDocument) Mirror() *popover.NodeDocument { return d.mirror }

// Flush returns the ops recorded since the last flush.
func (d *RemoteDocument) Flush() []Op {
	ops := d.pending
	d.pending = nil
	return ops
}

func (d *RemoteDocument) emit(op Op) { d.pending = append(d.pending, op) }

// ref names a node for the browser. Page nodes are named by id.
func (d *RemoteDocument) ref(n popover.Node) string {
	hn, ok := n.(*html.Node)
	if !ok || hn == nil {
		return ""
	}
	if r, ok := d.refs[hn]; ok {
		return r
	}
	for _, a := range hn.Attr {
		if a.Key == "id" {
			return a.Val
		}
	}
	return ""
}

func (d *RemoteDocument) Create(tag, class string) popover.Node {
	n := d.mirror.Create(tag, class)
	d.next++
	r := d.prefix + strconv.Itoa(d.next)
	d.refs[n.(*html.Node)] = r
	d.emit(Op{Op: "create", Node: r, Tag: tag, Class: class})
	return n
}

func (d *RemoteDocument) Attach(parent, child popover.Node) {
	d.mirror.Attach(parent, child)
	d.emit(Op{Op: "attach", Node: d.ref(child), Parent: d.ref(parent)})
}

func (d *RemoteDocument) Detach(n popover.Node) {
	d.mirror.Detach(n)
	d.emit(Op{Op: "detach", Node: d.ref(n)})
	if hn, ok := n.(*html.Node); ok {
		delete(d.refs, hn)
	}
}

func (d *RemoteDocument) SetAttribute(n popover.Node, key, value string) {
	d.mirror.SetAttribute(n, key, value)
	d.emit(Op{Op: "attr", Node: d.ref(n), Key: key, Value: value})
}

func (d *RemoteDocument) RemoveAttribute(n popover.Node, key string) {
	d.mirror.RemoveAttribute(n, key)
	d.emit(Op{Op: "rmattr", Node: d.ref(n), Key: key})
}

func (d *RemoteDocument) Attribute(n popover.Node, key string) (string, bool) {
	return d.mirror.Attribute(n, key)
}

func (d *RemoteDocument) SetContent(n popover.Node, markup string) {
	d.mirror.SetContent(n, markup)
	d.emit(Op{Op: "content", Node: d.ref(n), Value: markup})
}

func (d *RemoteDocument) QueryByClass(root popover.Node, class string) []popover.Node {
	return d.mirror.QueryByClass(root, class)
}

// Open asks the browser to navigate.
func (d *RemoteDocument) Open(url, target string) {
	d.emit(Op{Op: "open", URL: url, Target: target})
}
