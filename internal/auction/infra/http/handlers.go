package http

import (
	"errors"
	"time"

	"github.com/cristianortiz/auctionStore/internal/auction/application"
	"github.com/cristianortiz/auctionStore/internal/auction/domain"
	"github.com/cristianortiz/auctionStore/internal/shared/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// SubmitBidRequest is the wire shape of a bid submission. Price travels as a
// string and is parsed into a decimal at this boundary, a malformed body is a
// boundary error (400) and never reaches the validator
type SubmitBidRequest struct {
	BidderID string `json:"bidder_id"`
	Price    string `json:"price"`
}

// AuctionHandler mounts the auction module's REST surface
type AuctionHandler struct {
	service application.AuctionService
}

func NewAuctionHandler(service application.AuctionService) *AuctionHandler {
	return &AuctionHandler{service: service}
}

func (h *AuctionHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/products/open", h.listOpen)
	api.Get("/products/ending-soon", h.listEndingSoon)
	api.Get("/products/:productID", h.getAuctionState)
	api.Get("/products/:productID/bids", h.getBidHistory)
	api.Post("/products/:productID/bids", h.submitBid)
}

func (h *AuctionHandler) submitBid(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productID"))
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	var req SubmitBidRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	bidderID, err := uuid.Parse(req.BidderID)
	if err != nil {
		return badRequest(c, "invalid bidder id")
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return badRequest(c, "invalid price")
	}

	receipt, err := h.service.SubmitBid(c.Context(), application.SubmitBidDTO{
		ProductID: productID,
		BidderID:  bidderID,
		Price:     price,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"bid_id":        receipt.BidID,
		"product_id":    receipt.ProductID,
		"current_price": receipt.CurrentPrice,
		"end_date":      receipt.EndDate,
		"settled":       receipt.Settled,
		"extended":      receipt.Extended,
	})
}

func (h *AuctionHandler) getAuctionState(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productID"))
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	state, err := h.service.GetAuctionState(c.Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(state)
}

func (h *AuctionHandler) getBidHistory(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productID"))
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	history, err := h.service.GetBidHistory(c.Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(history)
}

func (h *AuctionHandler) listOpen(c *fiber.Ctx) error {
	listings, err := h.service.ListOpen(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(listings)
}

func (h *AuctionHandler) listEndingSoon(c *fiber.Ctx) error {
	threshold := time.Hour
	if v := c.Query("within"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return badRequest(c, "invalid within duration")
		}
		threshold = parsed
	}

	listings, err := h.service.ListEndingSoon(c.Context(), threshold)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(listings)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// writeError maps domain errors to HTTP statuses: rejections are expected
// outcomes (409 with a typed reason), busy is retryable (429), everything
// else is operational
func writeError(c *fiber.Ctx, err error) error {
	if reason, ok := domain.ReasonFor(err); ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"rejected": true,
			"reason":   reason,
			"error":    err.Error(),
		})
	}

	switch {
	case errors.Is(err, domain.ErrAuctionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidPrice):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrAuctionBusy):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": err.Error(), "retryable": true})
	default:
		log.Error("unhandled error in auction handler", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
