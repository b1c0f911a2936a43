package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"logistics/internal/domain"
	"logistics/internal/service"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrderRequest is the HTTP request body for creating an order.
type CreateOrderRequest struct {
	ID                    string    `json:"id"`
	ValueRs               float64   `json:"value_rs"`
	RouteID               string    `json:"route_id"`
	Priority              string    `json:"priority"`
	ScheduledDeliveryTime time.Time `json:"scheduled_delivery_time"`
}

// UpdateOrderRequest is the HTTP request body for updating an order.
type UpdateOrderRequest struct {
	ValueRs               *float64   `json:"value_rs"`
	RouteID               *string    `json:"route_id"`
	Priority              *string    `json:"priority"`
	Status                *string    `json:"status"`
	ScheduledDeliveryTime *time.Time `json:"scheduled_delivery_time"`
}

// AssignOrderRequest is the HTTP request body for assigning an order.
type AssignOrderRequest struct {
	DriverID string `json:"driver_id"`
}

// DeliverOrderRequest is the HTTP request body for completing a delivery.
type DeliverOrderRequest struct {
	DeliveredAt        *time.Time `json:"delivered_at"`
	ActualDeliveryTime int        `json:"actual_delivery_time"`
}

// OrderResponse is the HTTP response for order data.
type OrderResponse struct {
	ID                    string     `json:"id"`
	ValueRs               float64    `json:"value_rs"`
	RouteID               string     `json:"route_id"`
	AssignedDriverID      string     `json:"assigned_driver_id,omitempty"`
	Priority              string     `json:"priority"`
	Status                string     `json:"status"`
	IsHighValue           bool       `json:"is_high_value"`
	IsLate                bool       `json:"is_late"`
	DeliveryBonus         float64    `json:"delivery_bonus"`
	ScheduledDeliveryTime time.Time  `json:"scheduled_delivery_time"`
	DeliveryTimestamp     *time.Time `json:"delivery_timestamp,omitempty"`
	ActualDeliveryTime    *int       `json:"actual_delivery_time,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:                    o.ID,
		ValueRs:               o.ValueRs,
		RouteID:               o.RouteID,
		AssignedDriverID:      o.AssignedDriverID,
		Priority:              string(o.Priority),
		Status:                string(o.Status),
		IsHighValue:           o.IsHighValue,
		IsLate:                o.IsLate(),
		DeliveryBonus:         domain.RoundHalfUp(o.DeliveryBonus()),
		ScheduledDeliveryTime: o.ScheduledDeliveryTime,
		DeliveryTimestamp:     o.DeliveryTimestamp,
		ActualDeliveryTime:    o.ActualDeliveryTime,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
	}
}

// Create handles POST /v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), service.CreateOrderInput{
		ID:                    req.ID,
		ValueRs:               req.ValueRs,
		RouteID:               req.RouteID,
		Priority:              domain.OrderPriority(req.Priority),
		ScheduledDeliveryTime: req.ScheduledDeliveryTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toOrderResponse(order))
}

// GetAll handles GET /v1/orders
func (h *OrderHandler) GetAll(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}

	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// Update handles PUT /v1/orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	in := service.UpdateOrderInput{
		ValueRs:               req.ValueRs,
		RouteID:               req.RouteID,
		ScheduledDeliveryTime: req.ScheduledDeliveryTime,
	}
	if req.Priority != nil {
		p := domain.OrderPriority(*req.Priority)
		in.Priority = &p
	}
	if req.Status != nil {
		s := domain.OrderStatus(*req.Status)
		in.Status = &s
	}

	order, err := h.orderService.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// Delete handles DELETE /v1/orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orderService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Assign handles POST /v1/orders/:id/assign
func (h *OrderHandler) Assign(c *gin.Context) {
	var req AssignOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.orderService.Assign(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// Start handles POST /v1/orders/:id/start
func (h *OrderHandler) Start(c *gin.Context) {
	order, err := h.orderService.StartDelivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// Deliver handles POST /v1/orders/:id/deliver
func (h *OrderHandler) Deliver(c *gin.Context) {
	var req DeliverOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.orderService.CompleteDelivery(c.Request.Context(), service.CompleteDeliveryRequest{
		OrderID:       c.Param("id"),
		DeliveredAt:   req.DeliveredAt,
		ActualMinutes: req.ActualDeliveryTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}

// Cancel handles POST /v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	order, err := h.orderService.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toOrderResponse(order))
}
