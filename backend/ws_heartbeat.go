package main

import (
	"time"

	"github.com/gorilla/websocket"
)

// clientPingInterval is how long a connection may sit idle before the writer
// sends a keepalive ping message.
const clientPingInterval = 30 * time.Second

// runClientWriter drains send onto the connection. Broadcasts during a live
// game keep the socket busy; a client that only watches gets a ping message
// whenever the connection has been idle for a full interval.
func runClientWriter(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(clientPingInterval)
	defer ticker.Stop()
	ping := mustMarshal(wsMessage{Type: "ping"})
	lastWrite := time.Now()

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
			if time.Since(lastWrite) < clientPingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
