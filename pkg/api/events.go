package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Sriram-PR/docnav/pkg/selection"
)

const (
	eventWriteWait = 5 * time.Second
	eventBuffer    = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// selectionEvent is pushed to every surface watching a session
type selectionEvent struct {
	Type        string              `json:"type"` // "snapshot" on connect, then "selection"
	Selection   selection.Selection `json:"selection"`
	DisplayName string              `json:"display_name"`
}

// handleEvents streams selection changes of a session over a websocket, so
// sidebar, toolbar and tab bar clients re-render from the one store.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debugf("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates := make(chan selection.Selection, eventBuffer)
	unsubscribe := sess.Store().Subscribe(func(sel selection.Selection) {
		select {
		case updates <- sel:
		default:
			// Slow reader; it will catch up from the next event or a snapshot
		}
	})
	defer unsubscribe()

	// Reader goroutine detects the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.log.Debugf("Websocket read: %v", err)
				}
				return
			}
		}
	}()

	send := func(kind string, sel selection.Selection) bool {
		conn.SetWriteDeadline(time.Now().Add(eventWriteWait))
		err := conn.WriteJSON(selectionEvent{
			Type:        kind,
			Selection:   sel,
			DisplayName: selection.DisplayName(sel, sess.Category()),
		})
		if err != nil {
			s.log.Debugf("Websocket write: %v", err)
			return false
		}
		return true
	}

	if !send("snapshot", sess.Store().Current()) {
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case sel := <-updates:
			if !send("selection", sel) {
				return
			}
		}
	}
}
