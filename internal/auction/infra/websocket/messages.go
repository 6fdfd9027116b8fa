package websocket

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MessageType identifies the ws message kind
type MessageType string

const (
	MessageTypeClientBid          MessageType = "client_bid"           // client msg to place a bid
	MessageTypeServerUpdate       MessageType = "server_auction_update" // server msg with the committed auction state
	MessageTypeServerError        MessageType = "server_error"          // server msg indicating an error or rejection
	MessageTypeServerInitialState MessageType = "server_initial_state"  // server msg with the state at subscribe time
)

// BaseMessage is the envelope every ws message shares
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// ClientBidMessage is the DTO for a bid placed over the socket. The price is
// a string for the same reason as on the REST boundary
type ClientBidMessage struct {
	BaseMessage
	Payload struct {
		ProductID uuid.UUID `json:"product_id"`
		BidderID  uuid.UUID `json:"bidder_id"`
		Price     string    `json:"price"`
	} `json:"payload"`
}

// AuctionUpdatePayload mirrors the committed auction state pushed to watchers
type AuctionUpdatePayload struct {
	ProductID    uuid.UUID       `json:"product_id"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	MinimumBid   decimal.Decimal `json:"minimum_bid"`
	EndDate      time.Time       `json:"end_date"`
	Status       string          `json:"status"`
	HolderID     *uuid.UUID      `json:"holder_id,omitempty"`
	LastBidTime  *time.Time      `json:"last_bid_time,omitempty"`
}

type ServerUpdateMessage struct {
	BaseMessage
	Payload AuctionUpdatePayload `json:"payload"`
}

type ServerInitialStateMessage struct {
	BaseMessage
	Payload AuctionUpdatePayload `json:"payload"`
}

type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Error  string `json:"error"`
		Reason string `json:"reason,omitempty"`
	} `json:"payload"`
}
