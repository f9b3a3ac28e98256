package server

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub fans game updates out to the websocket clients watching each game.
type Hub struct {
	mu        sync.Mutex
	clients   map[*Client]struct{}
	broadcast chan event
}

// Client is one websocket connection subscribed to a game.
type Client struct {
	hub    *Hub
	gameID string
	send   chan []byte
}

type event struct {
	gameID string
	msg    wsMessage
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewHub creates an idle hub. Run must be started for broadcasts to flow.
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan event, 32),
	}
}

// Run delivers broadcasts until done is closed.
func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev := <-h.broadcast:
			data, err := json.Marshal(ev.msg)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if client.gameID == ev.gameID {
					client.sendRaw(data)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues msg for every client of gameID. A full queue drops it.
func (h *Hub) Publish(gameID, typ string, payload any) {
	select {
	case h.broadcast <- event{gameID: gameID, msg: wsMessage{Type: typ, Payload: mustMarshal(payload)}}:
	default:
		log.Printf("[server] broadcast queue full, dropping %s for game %s", typ, gameID)
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Watchers returns the number of clients subscribed to gameID.
func (h *Hub) Watchers(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for c := range h.clients {
		if c.gameID == gameID {
			n++
		}
	}
	return n
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.sendRaw(data)
}

func (c *Client) sendRaw(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}
