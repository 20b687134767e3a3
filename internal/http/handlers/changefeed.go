package handlers

import (
	"net/http"

	"golang.org/x/net/websocket"

	"github.com/clinicdesk/clinicdesk/internal/clinic"
	"github.com/clinicdesk/clinicdesk/pkg/logging"
)

// ChangeFeedHandler streams store change events to the shell UI over a
// websocket so open views can re-render without polling.
type ChangeFeedHandler struct {
	store  *clinic.Store
	logger *logging.Logger
}

func NewChangeFeedHandler(store *clinic.Store, logger *logging.Logger) *ChangeFeedHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChangeFeedHandler{store: store, logger: logger}
}

// ServeHTTP upgrades to a websocket and forwards change events until
// the client disconnects.
// Route: GET /ws/changes
func (h *ChangeFeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn)
	}).ServeHTTP(w, r)
}

func (h *ChangeFeedHandler) serveWS(conn *websocket.Conn) {
	events, cancel := h.store.Subscribe()
	defer cancel()
	defer conn.Close()

	h.logger.Info("change feed connected", "remote", conn.Request().RemoteAddr)

	// Drain incoming frames so we notice the peer closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			var discard string
			if err := websocket.Message.Receive(conn, &discard); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := websocket.JSON.Send(conn, ev); err != nil {
				h.logger.Warn("change feed send failed", "error", err)
				return
			}
		case <-closed:
			h.logger.Info("change feed disconnected")
			return
		}
	}
}
