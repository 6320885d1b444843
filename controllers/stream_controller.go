package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gee-graphics/gee-graphics-api/models"
	"github.com/gee-graphics/gee-graphics-api/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // The dashboard runs on a different origin
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// orderSnapshot is the message pushed to dashboard sessions whenever the
// user's orders change
type orderSnapshot struct {
	Type   string         `json:"type"`
	Orders []models.Order `json:"orders"`
}

// StreamOrders handles GET /api/v1/orders/stream - upgrades to a
// WebSocket and pushes the user's full order snapshot on connect and
// after every change. Backends without push deliver the initial
// snapshot only.
func StreamOrders(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	send := make(chan []byte, 16)

	unsubscribe, err := services.GetOrderStore().SubscribeOrders(userID, func(orders []models.Order) {
		payload, marshalErr := json.Marshal(orderSnapshot{Type: "orders", Orders: orders})
		if marshalErr != nil {
			log.Printf("Failed to marshal order snapshot: %v", marshalErr)
			return
		}
		select {
		case send <- payload:
		default:
			// Slow consumer; drop this snapshot, a newer one will follow
		}
	})
	if err != nil {
		log.Printf("Failed to subscribe to orders: %v", err)
		conn.Close()
		return
	}

	go writePump(conn, send, unsubscribe)
	go readPump(conn)
}

// readPump drains client messages so pongs are processed. The stream is
// one-way; inbound payloads are ignored.
func readPump(conn *websocket.Conn) {
	defer conn.Close()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pushes snapshots to the connection and keeps it alive with
// pings
func writePump(conn *websocket.Conn, send chan []byte, unsubscribe func()) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		unsubscribe()
		conn.Close()
	}()

	for {
		select {
		case message := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
