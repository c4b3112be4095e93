package rest

import (
	orderDomain "github.com/dset/Cloud-Market/services/venue/internal/domain/order"
	orderbookDomain "github.com/dset/Cloud-Market/services/venue/internal/domain/orderbook"
	tradeDomain "github.com/dset/Cloud-Market/services/venue/internal/domain/trade"
	"github.com/gofiber/fiber/v2"
)

// HeaderIdempotencyKey makes order submissions safe to retry.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLength = 200

// Handler serves the venue API.
type Handler struct {
	orders              orderDomain.Usecase
	trades              tradeDomain.Usecase
	books               orderbookDomain.Usecase
	selfTradePrevention bool
}

// NewHandler creates a new Handler. selfTradePrevention applies to every
// submission it accepts.
func NewHandler(orders orderDomain.Usecase, trades tradeDomain.Usecase, books orderbookDomain.Usecase, selfTradePrevention bool) *Handler {
	return &Handler{
		orders:              orders,
		trades:              trades,
		books:               books,
		selfTradePrevention: selfTradePrevention,
	}
}

// Register mounts the routes on r.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/", h.Root)
	r.Post("/orders", h.CreateOrder)
	r.Get("/orders/:id", h.GetOrder)
	r.Delete("/orders/:id", h.CancelOrder)
	r.Get("/trades/:id", h.GetTrade)
	r.Get("/orderbooks/:instrument", h.GetOrderBook)
	r.Get("/user/orders", h.ListUserOrders)
}

// Root serves GET /
func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{})
}

// CreateOrder serves POST /orders
func (h *Handler) CreateOrder(c *fiber.Ctx) error {
	payload := new(CreateOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest("invalid request body", "body")
	}
	if err := validateStruct(payload); err != nil {
		return err
	}

	key := c.Get(HeaderIdempotencyKey)
	if len(key) > maxIdempotencyKeyLength {
		return badRequest("idempotency key is too long", "idempotency_key")
	}

	id, err := h.orders.SubmitOrder(c.UserContext(), payload.ToSubmitOrderRequest(ownerOf(c), key, h.selfTradePrevention))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(CreateOrderResponse{ID: id})
}

// GetOrder serves GET /orders/:id
func (h *Handler) GetOrder(c *fiber.Ctx) error {
	o, err := h.orders.GetOrder(c.UserContext(), c.Params("id"), ownerOf(c))
	if err != nil {
		return err
	}

	return c.JSON(NewOrderResponse(o))
}

// CancelOrder serves DELETE /orders/:id
func (h *Handler) CancelOrder(c *fiber.Ctx) error {
	if err := h.orders.CancelOrder(c.UserContext(), c.Params("id"), ownerOf(c)); err != nil {
		return err
	}

	return c.JSON(fiber.Map{})
}

// GetTrade serves GET /trades/:id
func (h *Handler) GetTrade(c *fiber.Ctx) error {
	t, err := h.trades.GetTrade(c.UserContext(), c.Params("id"), ownerOf(c))
	if err != nil {
		return err
	}

	return c.JSON(NewTradeResponse(t))
}

// GetOrderBook serves GET /orderbooks/:instrument
func (h *Handler) GetOrderBook(c *fiber.Ctx) error {
	book, err := h.books.GetOrderBook(c.UserContext(), c.Params("instrument"))
	if err != nil {
		return err
	}

	return c.JSON(NewOrderBookResponse(book))
}

// ListUserOrders serves GET /user/orders
func (h *Handler) ListUserOrders(c *fiber.Ctx) error {
	orders, err := h.orders.ListOrders(c.UserContext(), ownerOf(c))
	if err != nil {
		return err
	}

	return c.JSON(NewOrderResponses(orders))
}
