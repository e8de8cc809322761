package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ByteBallet/solara/ui"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // development server, same machine
	},
}

// client is one connected preview page. gorilla/websocket connections support
// at most one concurrent writer, and two goroutines write to each connection:
// the handler loop answering envelopes and the watcher broadcasting reloads.
// All writes go through mu.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

// envelope is a widget-scoped message from the page. The reserved action
// "resolve" asks for the widget's current HTML without dispatching anything.
type envelope struct {
	WidgetID string                 `json:"widgetID"`
	Action   string                 `json:"action"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// response carries re-rendered widget HTML, or an error, back to the page.
type response struct {
	WidgetID string `json:"widgetID,omitempty"`
	HTML     string `json:"html,omitempty"`
	Error    string `json:"error,omitempty"`
	Reload   string `json:"reload,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}
	cl := &client{conn: conn}
	s.register(cl)
	defer func() {
		s.unregister(cl)
		conn.Close()
	}()

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			return
		}
		resp := handleEnvelope(s.renderer.Registry(), env)
		if err := cl.writeJSON(resp); err != nil {
			return
		}
	}
}

// handleEnvelope routes one widget message through the registry.
func handleEnvelope(registry *ui.Registry, env envelope) response {
	if env.Action == "resolve" {
		widget, ok := registry.Resolve(env.WidgetID)
		if !ok {
			return response{WidgetID: env.WidgetID, Error: "widget not found"}
		}
		return response{WidgetID: env.WidgetID, HTML: widget.HTML()}
	}

	html, err := registry.Dispatch(env.WidgetID, env.Action, env.Data)
	if err != nil {
		if errors.Is(err, ui.ErrWidgetNotFound) {
			return response{WidgetID: env.WidgetID, Error: "widget not found"}
		}
		log.Printf("[WS] Dispatch %q to %s failed: %v", env.Action, env.WidgetID, err)
		return response{WidgetID: env.WidgetID, Error: err.Error()}
	}
	return response{WidgetID: env.WidgetID, HTML: html}
}

func (s *Server) register(cl *client) {
	s.mu.Lock()
	s.connections[cl] = true
	count := len(s.connections)
	s.mu.Unlock()
	log.Printf("[WS] Connection registered: %d active", count)
}

func (s *Server) unregister(cl *client) {
	s.mu.Lock()
	delete(s.connections, cl)
	count := len(s.connections)
	s.mu.Unlock()
	log.Printf("[WS] Connection unregistered: %d active", count)
}

// broadcastReload tells every connected page that relPath changed.
func (s *Server) broadcastReload(relPath string) {
	msg, err := json.Marshal(response{Reload: relPath})
	if err != nil {
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	log.Printf("[WS] Broadcasting reload for %s to %d connections", relPath, len(s.connections))
	for cl := range s.connections {
		if err := cl.writeMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("[WS] Failed to send reload: %v", err)
		}
	}
}
