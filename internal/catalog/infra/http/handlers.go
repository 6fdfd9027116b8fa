package http

import (
	"errors"
	"time"

	"github.com/cristianortiz/auctionStore/internal/catalog/application"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateListingRequest is the wire shape of a new listing. Prices travel as
// strings and are parsed into decimals at this boundary
type CreateListingRequest struct {
	Seller         string `json:"seller"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	BeginPrice     string `json:"begin_price"`
	StepPrice      string `json:"step_price"`
	ImmediatePrice string `json:"immediate_price,omitempty"`
	EndDate        string `json:"end_date,omitempty"` // RFC3339, defaults to one week out
	AutoExtend     bool   `json:"auto_extend"`
}

// CatalogHandler mounts the listing creation endpoint
type CatalogHandler struct {
	createListingUC *application.CreateListingUseCase
}

func NewCatalogHandler(createListingUC *application.CreateListingUseCase) *CatalogHandler {
	return &CatalogHandler{createListingUC: createListingUC}
}

func (h *CatalogHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/api/products", h.createListing)
}

func (h *CatalogHandler) createListing(c *fiber.Ctx) error {
	var req CreateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	seller, err := uuid.Parse(req.Seller)
	if err != nil {
		return badRequest(c, "invalid seller id")
	}
	beginPrice, err := decimal.NewFromString(req.BeginPrice)
	if err != nil {
		return badRequest(c, "invalid begin price")
	}
	stepPrice, err := decimal.NewFromString(req.StepPrice)
	if err != nil {
		return badRequest(c, "invalid step price")
	}

	var immediatePrice decimal.NullDecimal
	if req.ImmediatePrice != "" {
		p, err := decimal.NewFromString(req.ImmediatePrice)
		if err != nil {
			return badRequest(c, "invalid immediate price")
		}
		immediatePrice = decimal.NewNullDecimal(p)
	}

	var endDate time.Time
	if req.EndDate != "" {
		endDate, err = time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return badRequest(c, "invalid end date")
		}
	}

	auction, err := h.createListingUC.Execute(c.Context(), application.CreateListingDTO{
		Seller:         seller,
		Title:          req.Title,
		Description:    req.Description,
		BeginPrice:     beginPrice,
		StepPrice:      stepPrice,
		ImmediatePrice: immediatePrice,
		EndDate:        endDate,
		AutoExtend:     req.AutoExtend,
	})
	if err != nil {
		if errors.Is(err, application.ErrInvalidListing) {
			return badRequest(c, err.Error())
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"product_id":    auction.ProductID,
		"current_price": auction.CurrentPrice,
		"end_date":      auction.EndDate,
		"status":        auction.Status,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}
