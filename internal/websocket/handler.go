package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches an operator dashboard connection to the hub.
func ServeWs(hub *Hub, c *websocket.Conn, operatorId string) {
	client := &Client{Hub: hub, Conn: c, OperatorID: operatorId, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
