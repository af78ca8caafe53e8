package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// ghostPayload mirrors a hovered column to every connected client so
// spectators see where the next piece would land before it is played.
type ghostPayload struct {
	Column int  `json:"column"`
	Row    int  `json:"row"`
	Player int  `json:"player"`
	Active bool `json:"active"`
}

type ghostHover struct {
	Column int `json:"column"`
}

type GhostClient struct {
	hub  *GhostHub
	conn *websocket.Conn
	send chan []byte
}

type GhostHub struct {
	mu        sync.Mutex
	clients   map[*GhostClient]struct{}
	broadcast chan ghostPayload
}

func NewGhostHub() *GhostHub {
	return &GhostHub{
		clients:   make(map[*GhostClient]struct{}),
		broadcast: make(chan ghostPayload, 32),
	}
}

func (h *GhostHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcast:
			h.mu.Lock()
			if len(h.clients) == 0 {
				h.mu.Unlock()
				continue
			}
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "ghost", Payload: mustMarshal(payload)})
			}
			h.mu.Unlock()
		}
	}
}

func (h *GhostHub) Register(c *GhostClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Publish drops the payload when the broadcast buffer is full; a stale hover
// is worthless by the time the buffer drains.
func (h *GhostHub) Publish(payload ghostPayload) {
	select {
	case h.broadcast <- payload:
	default:
	}
}

func (h *GhostHub) Unregister(c *GhostClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *GhostHub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *GhostClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func serveGhostWS(hub *GhostHub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &GhostClient{hub: hub, conn: conn, send: make(chan []byte, 16)}
	hub.Register(client)

	go func() {
		defer client.conn.Close()
		if err := runClientWriter(client.conn, client.send); err != nil {
			return
		}
	}()

	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			client.hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "hover":
			var hover ghostHover
			if err := json.Unmarshal(msg.Payload, &hover); err != nil {
				continue
			}
			hub.Publish(ghostPreview(controller, hover.Column))
		case "clear":
			hub.Publish(ghostPayload{Active: false})
		}
	}
}

// ghostPreview computes where a piece dropped into col would land. An
// unplayable column yields an inactive payload.
func ghostPreview(controller *GameController, col int) ghostPayload {
	board := controller.Board()
	if board.Result() != ResultOngoing {
		return ghostPayload{Active: false}
	}
	if col < 0 || col >= board.ColumnCount() {
		return ghostPayload{Active: false}
	}
	row := board.ColumnHeight(col)
	if row >= board.RowCount() {
		return ghostPayload{Active: false}
	}
	return ghostPayload{
		Column: col,
		Row:    row,
		Player: playerToInt(board.Turn()),
		Active: true,
	}
}
