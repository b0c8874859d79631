package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storefront-service/internal/api/dto"
	"github.com/spec-kit/storefront-service/internal/auth"
	"github.com/spec-kit/storefront-service/internal/service"
	apperrors "github.com/spec-kit/storefront-service/pkg/util"
)

// OrdersHandler lists and places orders for the authenticated user.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// List GET /api/orders.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c.UserContext())
	if !ok {
		return apperrors.NewUnauthorized()
	}
	orders, err := h.orders.ListOrders(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Orders fetched successfully",
		"orders":  dto.NewOrderResponses(orders),
	})
}

// Create POST /api/create-order.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.IdentityFromContext(c.UserContext())
	if !ok {
		return apperrors.NewUnauthorized()
	}
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest(msgInvalidPayload)
	}

	order, err := h.orders.CreateOrder(c.UserContext(), user.ID, req.Products)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Order created successfully",
		"order":   dto.NewOrderResponse(order),
	})
}
