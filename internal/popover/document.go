package popover

// Node is an opaque handle to an element owned by a Document.
type Node interface{}

// Document is the small set of DOM capabilities the controller needs.
// Implementations decide what a node is: a parsed HTML tree, a remote
// browser page, a test double.
type Document interface {
	// Create makes a detached element with the given tag and class.
	Create(tag, class string) Node
	// Attach appends child to parent, moving it if already attached.
	Attach(parent, child Node)
	// Detach removes n from its parent. Detaching a detached node is a no-op.
	Detach(n Node)
	SetAttribute(n Node, key, value string)
	RemoveAttribute(n Node, key string)
	// Attribute returns the value of key and whether it is present.
	Attribute(n Node, key string) (string, bool)
	// SetContent replaces the children of n with the given markup.
	SetContent(n Node, markup string)
	// QueryByClass returns the descendants of root carrying class, in
	// document order.
	QueryByClass(root Node, class string) []Node
}

// Navigator opens a URL in a named browsing context. Documents that can
// navigate implement it; link activation is skipped for those that cannot.
type Navigator interface {
	Open(url, target string)
}
