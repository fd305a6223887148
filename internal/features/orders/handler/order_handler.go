package handler

import (
	"errors"
	"net/http"

	"ozon-orders/internal/core/logger"
	"ozon-orders/internal/features/orders/domain"
	"ozon-orders/internal/features/orders/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests related to new orders.
type OrderHandler struct {
	// service runs the sync and reports the polling window.
	service ports.OrderSyncService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s ports.OrderSyncService) *OrderHandler {
	return &OrderHandler{
		service: s,
	}
}

// SyncOrders triggers one poll of new orders outside the schedule.
// @Summary Sync new orders
// @Description Fetch postings awaiting packaging from Ozon and store the new ones.
// @Produce json
// @Success 200 {object} domain.SyncResult
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /orders/sync [post]
func (h *OrderHandler) SyncOrders(c *fiber.Ctx) error {
	rayID := rayIDFrom(c)

	result, err := h.service.SyncNewOrders(c.UserContext())
	if errors.Is(err, domain.ErrSyncInProgress) {
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Message: "Sync already in progress",
			RayID:   rayID,
		})
	}
	if err != nil {
		logger.Get().Error("Failed to sync new orders",
			zap.String("ray_id", rayID),
			zap.Error(err),
		)

		status := http.StatusInternalServerError
		msg := "Internal Server Error"

		if errors.Is(err, domain.ErrUpstreamRejected) {
			status = http.StatusBadGateway
			msg = "Ozon API rejected the request"
		}

		return c.Status(status).JSON(ErrorResponse{
			Message: msg,
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(result)
}

// GetWindow reports the current lower bound of the polling window.
// @Summary Polling window
// @Description Current since value and window mode of the new orders fetcher.
// @Produce json
// @Success 200 {object} ports.WindowState
// @Router /orders/window [get]
func (h *OrderHandler) GetWindow(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(h.service.Window())
}

// RegisterRoutes mounts the order endpoints on router.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/orders/sync", h.SyncOrders)
	router.Get("/orders/window", h.GetWindow)
}

func rayIDFrom(c *fiber.Ctx) string {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return rayID
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}
