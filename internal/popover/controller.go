// Package popover shows a transient box next to each annotated element.
//
// A Controller owns one Popover per annotated element and guarantees that
// at most one of them is open at a time: opening a popover first closes
// every other open one. The controller is driven by host events (pointer
// enter and leave, activation, close clicks, viewport resizes) and is not
// safe for concurrent use; hosts deliver events from a single loop.
package popover

import (
	"github.com/ziadkadry99/texotip/internal/config"
)

// State is the lifecycle stage of a popover.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Attributes read off annotated elements.
const (
	AttrContent = "data-content"
	AttrURL     = "data-url"
)

// Hook customizes how a popover is revealed or hidden. It receives the
// document and the three nodes of the popover.
type Hook func(doc Document, box, arrow, closeButton Node)

// ShowNodes is the default show hook: it unhides all three nodes.
func ShowNodes(doc Document, box, arrow, closeButton Node) {
	doc.RemoveAttribute(arrow, "hidden")
	doc.RemoveAttribute(closeButton, "hidden")
	doc.RemoveAttribute(box, "hidden")
}

// HideNodes is the default hide hook: it hides all three nodes before the
// controller detaches them.
func HideNodes(doc Document, box, arrow, closeButton Node) {
	doc.SetAttribute(arrow, "hidden", "")
	doc.SetAttribute(closeButton, "hidden", "")
	doc.SetAttribute(box, "hidden", "")
}

// Options configure a Controller.
type Options struct {
	Config config.PopoverConfig
	OnShow Hook // defaults to ShowNodes
	OnHide Hook // defaults to HideNodes
}

// Controller manages the popovers of one document.
type Controller struct {
	doc      Document
	cfg      config.PopoverConfig
	onShow   Hook
	onHide   Hook
	popovers []*Popover
	byAnchor map[Node]*Popover
}

// NewController creates a Controller for doc.
func NewController(doc Document, opts Options) *Controller {
	if opts.OnShow == nil {
		opts.OnShow = ShowNodes
	}
	if opts.OnHide == nil {
		opts.OnHide = HideNodes
	}
	return &Controller{
		doc:      doc,
		cfg:      opts.Config,
		onShow:   opts.OnShow,
		onHide:   opts.OnHide,
		byAnchor: make(map[Node]*Popover),
	}
}

// Attach registers every element under root that carries triggerClass.
func (c *Controller) Attach(root Node, triggerClass string) []*Popover {
	anchors := c.doc.QueryByClass(root, triggerClass)
	out := make([]*Popover, 0, len(anchors))
	for _, a := range anchors {
		out = append(out, c.Register(a))
	}
	return out
}

// Register returns the popover for anchor, creating it on first use.
func (c *Controller) Register(anchor Node) *Popover {
	if p, ok := c.byAnchor[anchor]; ok {
		return p
	}
	p := &Popover{c: c, anchor: anchor}
	c.byAnchor[anchor] = p
	c.popovers = append(c.popovers, p)
	return p
}

// Lookup returns the popover registered for anchor.
func (c *Controller) Lookup(anchor Node) (*Popover, bool) {
	p, ok := c.byAnchor[anchor]
	return p, ok
}

// Popovers returns every registered popover in registration order.
func (c *Controller) Popovers() []*Popover { return c.popovers }

// Current returns the open popover, or nil.
func (c *Controller) Current() *Popover {
	for _, p := range c.popovers {
		if p.state == Open {
			return p
		}
	}
	return nil
}

// OnResize force-closes every open popover. Placement is computed at open
// time, so a layout change would leave it stale.
func (c *Controller) OnResize() {
	for _, p := range c.popovers {
		c.close(p, false)
	}
}

// closeAll signals every open popover to close.
func (c *Controller) closeAll() {
	for _, p := range c.popovers {
		c.close(p, true)
	}
}

func (c *Controller) open(p *Popover, g Geometry) {
	if p.state == Open {
		return
	}
	c.closeAll()

	d := c.doc
	box := d.Create("div", c.cfg.BoxClass)
	arrow := d.Create("div", c.cfg.ArrowClass)
	closeButton := d.Create("div", c.cfg.CloseClass)
	for _, n := range []Node{box, arrow, closeButton} {
		d.SetAttribute(n, "hidden", "")
	}

	d.Attach(p.anchor, arrow)
	d.Attach(p.anchor, box)

	pl := Place(g, c.cfg)
	d.SetAttribute(box, "style", pl.Box.String())
	d.SetAttribute(arrow, "style", pl.Arrow.String())

	content, _ := d.Attribute(p.anchor, AttrContent)
	d.SetContent(box, content)

	d.Attach(box, closeButton)
	if !c.cfg.CloseButton {
		d.SetAttribute(closeButton, "style", "visibility:hidden")
	}

	p.box, p.arrow, p.closeButton = box, arrow, closeButton
	p.state = Open
	c.onShow(d, box, arrow, closeButton)
}

func (c *Controller) close(p *Popover, runHook bool) {
	if p.state != Open {
		return
	}
	if runHook {
		c.onHide(c.doc, p.box, p.arrow, p.closeButton)
	}
	c.doc.Detach(p.closeButton)
	c.doc.Detach(p.arrow)
	c.doc.Detach(p.box)
	p.box, p.arrow, p.closeButton = nil, nil, nil
	p.state = Closed
}

// Popover is the capability set attached to one annotated element.
type Popover struct {
	c           *Controller
	anchor      Node
	state       State
	box         Node
	arrow       Node
	closeButton Node
}

// Anchor returns the annotated element this popover belongs to.
func (p *Popover) Anchor() Node { return p.anchor }

// State returns whether the popover is open.
func (p *Popover) State() State { return p.state }

// Nodes returns the box, arrow and close nodes while open.
func (p *Popover) Nodes() (box, arrow, closeButton Node) {
	return p.box, p.arrow, p.closeButton
}

// OnHoverEnter opens the popover, closing any other open one first.
func (p *Popover) OnHoverEnter(g Geometry) { p.c.open(p, g) }

// OnHoverLeave closes the popover when no close button is configured.
func (p *Popover) OnHoverLeave() {
	if p.c.cfg.CloseButton {
		return
	}
	p.c.close(p, true)
}

// OnClose handles activation of the close button.
func (p *Popover) OnClose() {
	if !p.c.cfg.CloseButton {
		return
	}
	p.c.close(p, true)
}

// OnActivate follows the element's link when link activation is enabled.
// It does not change the popover state.
func (p *Popover) OnActivate() {
	if !p.c.cfg.LinkActive {
		return
	}
	nav, ok := p.c.doc.(Navigator)
	if !ok {
		return
	}
	url, _ := p.c.doc.Attribute(p.anchor, AttrURL)
	if url == "" {
		return
	}
	nav.Open(url, p.c.cfg.LinkTarget)
}
