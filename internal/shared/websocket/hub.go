package websocket

import (
	"context"
	"time"

	"github.com/cristianortiz/auctionStore/internal/shared/logger"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Hub keeps the registry of connected clients grouped by productID and fans
// broadcast messages out to every watcher of the same product
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	// InboundMessages is listened to by module-specific handlers (the auction
	// ws handler consumes bid messages from here)
	InboundMessages chan *ClientMessage
}

// Client represents one ws connection watching a single product
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	// Buffered channel of outbound messages.
	Send chan []byte
	// ProductID this client is subscribed to.
	ProductID string
	ID        string
}

type Message struct {
	ProductID string
	Data      []byte
}

// ClientMessage wraps an inbound payload with the client that sent it
type ClientMessage struct {
	Client *Client
	Data   []byte
}

func NewHub() *Hub {
	return &Hub{
		broadcast:       make(chan *Message, 64),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		clients:         make(map[string]map[*Client]bool),
		InboundMessages: make(chan *ClientMessage, 64),
	}
}

// Run starts the hub loop, it owns the clients map so no locking is needed
func (h *Hub) Run(ctx context.Context) {
	log.Info("Websocket Hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info("Websocket Hub shutting down")
			return

		case client := <-h.register:
			if _, ok := h.clients[client.ProductID]; !ok {
				h.clients[client.ProductID] = make(map[*Client]bool)
			}
			h.clients[client.ProductID][client] = true
			log.Info("Client registered",
				zap.String("clientID", client.ID),
				zap.String("productID", client.ProductID),
			)

		case client := <-h.unregister:
			if clients, ok := h.clients[client.ProductID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(h.clients, client.ProductID)
					}
					log.Info("Client unregistered",
						zap.String("clientID", client.ID),
						zap.String("productID", client.ProductID),
					)
				}
			}

		case message := <-h.broadcast:
			for client := range h.clients[message.ProductID] {
				select {
				case client.Send <- message.Data:
				default:
					// client not draining its queue, drop it
					close(client.Send)
					delete(h.clients[message.ProductID], client)
					log.Warn("Slow ws client dropped",
						zap.String("clientID", client.ID),
						zap.String("productID", client.ProductID),
					)
				}
			}
		}
	}
}

func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	default:
		// hub already stopping, nothing left to do
	}
}

// BroadcastToProduct queues a message for every client watching productID
func (h *Hub) BroadcastToProduct(productID string, data []byte) {
	select {
	case h.broadcast <- &Message{ProductID: productID, Data: data}:
	default:
		log.Error("Broadcast channel is full, message dropped", zap.String("productID", productID))
	}
}

// ReadPump reads messages from the ws connection and forwards them to the
// hub's inbound channel. Must run in its own goroutine per client.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("WebSocket read error",
					zap.String("clientID", c.ID),
					zap.String("productID", c.ProductID),
					zap.Error(err),
				)
			}
			return
		}

		select {
		case c.Hub.InboundMessages <- &ClientMessage{Client: c, Data: message}:
		default:
			log.Error("Hub inbound channel is full, dropping message",
				zap.String("clientID", c.ID),
				zap.String("productID", c.ProductID),
			)
		}
	}
}

// WritePump pumps messages from the hub to the ws connection and keeps the
// connection alive with pings. One goroutine per client, single writer.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Hub.UnregisterClient(c)
		c.Conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.Conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return

		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// the hub closed the channel
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("Failed to write message to client",
					zap.String("clientID", c.ID),
					zap.String("productID", c.ProductID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
