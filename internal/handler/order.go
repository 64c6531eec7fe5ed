package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zahrashop/backend/internal/domain/order"
)

type checkoutRequest struct {
	PaymentMethod string        `json:"paymentMethod" binding:"required,oneof=cash_on_delivery card gateway"`
	ShippingType  string        `json:"shippingType" binding:"required,oneof=normal express"`
	Address       order.Address `json:"shippingAddress" binding:"required"`
	Notes         string        `json:"notes"`
}

// Checkout creates an order from the cart.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	o, err := h.svc.Orders.Checkout(c.Request.Context(), userID(c), order.CheckoutRequest{
		PaymentMethod:   order.PaymentMethod(req.PaymentMethod),
		ShippingType:    order.ShippingType(req.ShippingType),
		ShippingAddress: req.Address,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderResponse(o))
}

// CheckoutInfo prices the cart plus shipping without placing an order.
func (h *Handler) CheckoutInfo(c *gin.Context) {
	shipping := order.ShippingNormal
	if t := c.Query("shippingType"); t != "" {
		shipping = order.ShippingType(t)
	}

	info, err := h.svc.Orders.CheckoutInfo(c.Request.Context(), userID(c), shipping)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetOrder returns one of the user's orders.
func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.svc.Orders.Get(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(o))
}

// ListOrders returns the user's orders, newest first.
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListByUser(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orderResponses(orders)})
}

// AdminListOrders returns every order. Admin only.
func (h *Handler) AdminListOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orderResponses(orders)})
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid failed shipped delivered canceled"`
}

// UpdateOrderStatus moves an order through the lifecycle. Admin only.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	o, err := h.svc.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), order.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(o))
}

// orderResponse shapes an order for JSON without exposing internal naming.
func orderResponse(o *order.Order) gin.H {
	return gin.H{
		"id":              o.ID,
		"items":           o.Items,
		"subtotal":        o.Subtotal,
		"shippingCost":    o.ShippingCost,
		"total":           o.TotalAmount,
		"currency":        o.Currency,
		"status":          o.Status,
		"paymentMethod":   o.PaymentMethod,
		"paymentStatus":   o.PaymentStatus,
		"shippingAddress": o.ShippingAddress,
		"shippingType":    o.ShippingType,
		"notes":           o.Notes,
		"createdAt":       o.CreatedAt,
		"updatedAt":       o.UpdatedAt,
	}
}

func orderResponses(orders []order.Order) []gin.H {
	out := make([]gin.H, len(orders))
	for i := range orders {
		out[i] = orderResponse(&orders[i])
	}
	return out
}
