package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/texotip/internal/config"
)

// ErrPageNotFound is returned by a PageSource for unknown pages.
var ErrPageNotFound = errors.New("page not found")

// PageSource returns the annotated markup the browser loaded for name.
type PageSource func(ctx context.Context, name string) (string, error)

// message is the outgoing websocket message format.
type message struct {
	Type     string `json:"type"` // "ready", "ops" or "error"
	Session  string `json:"session,omitempty"`
	Popovers int    `json:"popovers,omitempty"`
	Ops      []Op   `json:"ops,omitempty"`
	Content  string `json:"content,omitempty"`
}

// Handler upgrades /live requests and runs one Session per connection.
type Handler struct {
	cfg      config.Config
	pages    PageSource
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a Handler. When allowAll is false only same-origin
// browsers may connect.
func NewHandler(cfg config.Config, pages PageSource, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{cfg: cfg, pages: pages, logger: logger}
	if cfg.Server.AllowAll {
		h.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("page")
	page, err := h.pages(r.Context(), name)
	if err != nil {
		if errors.Is(err, ErrPageNotFound) {
			http.Error(w, "page not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Loading live page", "page", name, "error", err)
		http.Error(w, "loading page failed", http.StatusInternalServerError)
		return
	}

	sess, err := NewSession(page, h.cfg)
	if err != nil {
		h.logger.Error("Creating live session", "page", name, "error", err)
		http.Error(w, "creating session failed", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	h.logger.Debug("Live session started", "session", sess.ID, "page", name, "popovers", sess.Popovers())
	h.send(conn, message{Type: "ready", Session: sess.ID, Popovers: sess.Popovers()})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("Websocket read failed", "session", sess.ID, "error", err)
			}
			h.logger.Debug("Live session ended", "session", sess.ID)
			return
		}

		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			h.send(conn, message{Type: "error", Session: sess.ID, Content: "invalid message format"})
			continue
		}

		ops, err := sess.Handle(ev)
		if err != nil {
			h.send(conn, message{Type: "error", Session: sess.ID, Content: err.Error()})
			continue
		}
		h.send(conn, message{Type: "ops", Session: sess.ID, Ops: ops})
	}
}

func (h *Handler) send(conn *websocket.Conn, m message) {
	if err := conn.WriteJSON(m); err != nil {
		h.logger.Warn("Websocket write failed", "error", err)
	}
}
