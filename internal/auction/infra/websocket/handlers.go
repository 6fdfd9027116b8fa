package websocket

import (
	"context"
	"encoding/json"

	"github.com/cristianortiz/auctionStore/internal/auction/application"
	"github.com/cristianortiz/auctionStore/internal/auction/domain"
	"github.com/cristianortiz/auctionStore/internal/shared/logger"
	ws "github.com/cristianortiz/auctionStore/internal/shared/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionWSHandler handles the inbound ws messages of the auction module and
// pushes committed state updates to every watcher of a product
type AuctionWSHandler struct {
	auctionService application.AuctionService
	hub            *ws.Hub
}

// NewAuctionWSHandler creates a new instance of AuctionWSHandler
func NewAuctionWSHandler(auctionService application.AuctionService, hub *ws.Hub) *AuctionWSHandler {
	return &AuctionWSHandler{
		auctionService: auctionService,
		hub:            hub,
	}
}

// RegisterRoutes mounts the ws upgrade endpoint, one subscription per product
func (h *AuctionWSHandler) RegisterRoutes(ctx context.Context, app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/products/:productID", websocket.New(func(conn *websocket.Conn) {
		productID := conn.Params("productID")
		if _, err := uuid.Parse(productID); err != nil {
			_ = conn.Close()
			return
		}

		client := &ws.Client{
			Hub:       h.hub,
			Conn:      conn,
			Send:      make(chan []byte, 16),
			ProductID: productID,
			ID:        uuid.New().String(),
		}
		h.hub.RegisterClient(client)
		h.sendInitialState(ctx, client)

		go client.WritePump(ctx)
		// ReadPump blocks so the fiber ws handler keeps the connection alive
		client.ReadPump(ctx)
	}))
}

// ListenForMessages consumes the hub inbound channel, must run in its own
// goroutine
func (h *AuctionWSHandler) ListenForMessages(ctx context.Context) {
	log.Info("AuctionWSHandler started listening for inbound messages")
	for {
		select {
		case <-ctx.Done():
			log.Info("AuctionWSHandler stopped listening for inbound messages")
			return
		case msg := <-h.hub.InboundMessages:
			go h.processMessage(ctx, msg.Client, msg.Data)
		}
	}
}

// processMessage dispatches the message by its type
func (h *AuctionWSHandler) processMessage(ctx context.Context, client *ws.Client, data []byte) {
	var baseMsg BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		h.sendErrorToClient(client, "invalid message format", "")
		return
	}
	switch baseMsg.Type {
	case MessageTypeClientBid:
		h.handleClientBidMessage(ctx, client, data)
	default:
		h.sendErrorToClient(client, "unknown message type", "")
	}
}

func (h *AuctionWSHandler) handleClientBidMessage(ctx context.Context, client *ws.Client, data []byte) {
	var bidMsg ClientBidMessage
	if err := json.Unmarshal(data, &bidMsg); err != nil {
		h.sendErrorToClient(client, "invalid bid message format", "")
		return
	}

	// the bid must target the product this socket is subscribed to
	if bidMsg.Payload.ProductID.String() != client.ProductID {
		h.sendErrorToClient(client, "product ID mismatch", "")
		return
	}

	price, err := decimal.NewFromString(bidMsg.Payload.Price)
	if err != nil {
		h.sendErrorToClient(client, "invalid price", "")
		return
	}

	_, err = h.auctionService.SubmitBid(ctx, application.SubmitBidDTO{
		ProductID: bidMsg.Payload.ProductID,
		BidderID:  bidMsg.Payload.BidderID,
		Price:     price,
	})
	if err != nil {
		reason, _ := domain.ReasonFor(err)
		h.sendErrorToClient(client, err.Error(), string(reason))
		return
	}

	h.BroadcastState(ctx, bidMsg.Payload.ProductID)
}

// BroadcastState pushes the latest committed state to every watcher of the
// product
func (h *AuctionWSHandler) BroadcastState(ctx context.Context, productID uuid.UUID) {
	state, err := h.auctionService.GetAuctionState(ctx, productID)
	if err != nil {
		log.Error("failed to load auction state for broadcast",
			zap.String("productID", productID.String()),
			zap.Error(err),
		)
		return
	}

	updateMsg := ServerUpdateMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerUpdate},
		Payload:     toUpdatePayload(state),
	}
	data, err := json.Marshal(updateMsg)
	if err != nil {
		log.Error("failed to marshal auction update", zap.Error(err))
		return
	}
	h.hub.BroadcastToProduct(productID.String(), data)
}

func (h *AuctionWSHandler) sendInitialState(ctx context.Context, client *ws.Client) {
	productID, err := uuid.Parse(client.ProductID)
	if err != nil {
		return
	}
	state, err := h.auctionService.GetAuctionState(ctx, productID)
	if err != nil {
		h.sendErrorToClient(client, "failed to load auction state", "")
		return
	}

	initMsg := ServerInitialStateMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerInitialState},
		Payload:     toUpdatePayload(state),
	}
	data, err := json.Marshal(initMsg)
	if err != nil {
		return
	}
	select {
	case client.Send <- data:
	default:
		log.Warn("client send channel full, initial state dropped", zap.String("clientID", client.ID))
	}
}

// sendErrorToClient serializes and sends an error msg to a single client
func (h *AuctionWSHandler) sendErrorToClient(client *ws.Client, errorMessage, reason string) {
	errMsg := ServerErrorMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerError},
	}
	errMsg.Payload.Error = errorMessage
	errMsg.Payload.Reason = reason
	data, err := json.Marshal(errMsg)
	if err != nil {
		log.Error("failed to marshal ServerErrorMessage", zap.Error(err))
		return
	}
	select {
	case client.Send <- data:
	default:
		log.Warn("client send channel full or closed, could not send error msg",
			zap.String("clientID", client.ID))
	}
}

func toUpdatePayload(state *application.AuctionStateDTO) AuctionUpdatePayload {
	return AuctionUpdatePayload{
		ProductID:    state.ProductID,
		CurrentPrice: state.CurrentPrice,
		MinimumBid:   state.MinimumBid,
		EndDate:      state.EndDate,
		Status:       state.Status,
		HolderID:     state.HolderID,
		LastBidTime:  state.LastBidTime,
	}
}
