// Package live drives the popover controller for a page open in a browser.
// The browser reports pointer and viewport events over a websocket, the
// server runs the controller against a mirror of the page, and the DOM
// mutations it makes are streamed back as ops.
package live

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ziadkadry99/texotip/internal/config"
	"github.com/ziadkadry99/texotip/internal/popover"
)

// Event types sent by the browser.
const (
	EventEnter    = "enter"
	EventLeave    = "leave"
	EventActivate = "activate"
	EventClose    = "close"
	EventResize   = "resize"
)

// ErrUnknownElement is returned for events naming an element that is not
// an annotated element of the page.
var ErrUnknownElement = errors.New("unknown annotated element")

// Event is one browser event.
type Event struct {
	Type     string           `json:"type"`
	ID       string           `json:"id,omitempty"`
	Geometry popover.Geometry `json:"geometry"`
}

// Session is the popover state of one open page.
type Session struct {
	ID string

	mu   sync.Mutex
	doc  *RemoteDocument
	ctrl *popover.Controller
}

// NewSession mirrors page and attaches a popover to every element carrying
// the configured trigger class.
func NewSession(page string, cfg config.Config) (*Session, error) {
	id := uuid.NewString()
	doc, err := NewRemoteDocument(page, "texotip-live-"+id[:8]+"-")
	if err != nil {
		return nil, fmt.Errorf("mirroring page: %w", err)
	}
	ctrl := popover.NewController(doc, popover.Options{Config: cfg.Popover})
	ctrl.Attach(doc.Mirror().Root(), cfg.TriggerClass())
	return &Session{ID: id, doc: doc, ctrl: ctrl}, nil
}

// Popovers reports how many annotated elements the session manages.
func (s *Session) Popovers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ctrl.Popovers())
}

// Handle applies one event and returns the resulting DOM ops.
func (s *Session) Handle(ev Event) ([]Op, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Type == EventResize {
		s.ctrl.OnResize()
		return s.doc.Flush(), nil
	}

	p, err := s.lookup(ev.ID)
	if err != nil {
		return nil, err
	}
	switch ev.Type {
	case EventEnter:
		p.OnHoverEnter(ev.Geometry)
	case EventLeave:
		p.OnHoverLeave()
	case EventActivate:
		p.OnActivate()
	case EventClose:
		p.OnClose()
	default:
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
	return s.doc.Flush(), nil
}

func (s *Session) lookup(id string) (*popover.Popover, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: missing id", ErrUnknownElement)
	}
	n := s.doc.Mirror().ElementByID(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	p, ok := s.ctrl.Lookup(n)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	return p, nil
}
