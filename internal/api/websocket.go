package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"grimm.is/netdevd/internal/events"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Enforce same-origin for browser clients.
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		if strings.Contains(origin, "://localhost:") || strings.Contains(origin, "://127.0.0.1:") {
			return true
		}

		host := r.Host
		if strings.HasPrefix(origin, "http://") {
			return origin[len("http://"):] == host
		}
		if strings.HasPrefix(origin, "https://") {
			return origin[len("https://"):] == host
		}
		return false
	},
}

// parseEventTypes reads a comma-separated ?types= filter.
func parseEventTypes(r *http.Request) []events.EventType {
	raw := r.URL.Query().Get("types")
	if raw == "" {
		return nil
	}
	var out []events.EventType
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, events.EventType(t))
		}
	}
	return out
}

// handleEventsWS streams hub events to a websocket client as JSON, one
// event per message. ?types=device.added,profile.unavailable filters.
func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		WriteErrorCtx(w, r, http.StatusServiceUnavailable, "event stream not enabled")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("failed to upgrade websocket", "error", err)
		return
	}
	defer conn.Close()

	ch := s.hub.Subscribe(256, parseEventTypes(r)...)
	defer s.hub.Unsubscribe(ch)

	// The read pump only notices the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case e := <-ch:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
