package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const wsIdlePingInterval = 30 * time.Second

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type wsMove struct {
	Move string `json:"move"`
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: s.hub, gameID: sess.id, send: make(chan []byte, 16)}
	s.hub.Register(client)
	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(sess.snapshot())})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(sess.snapshot())})
		case "move":
			var mv wsMove
			if err := json.Unmarshal(msg.Payload, &mv); err != nil {
				client.sendJSON(errorMessage("invalid payload"))
				continue
			}
			// Success is broadcast to every watcher including this one.
			if _, err := s.playHuman(sess, mv.Move); err != nil {
				client.sendJSON(errorMessage(err.Error()))
			}
		}
	}
}

func errorMessage(text string) wsMessage {
	return wsMessage{Type: "error", Payload: mustMarshal(map[string]string{"error": text})}
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
