package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zahrashop/backend/internal/domain/cart"
)

// GetCart returns the priced cart view.
func (h *Handler) GetCart(c *gin.Context) {
	priced, err := h.svc.Cart.Get(c.Request.Context(), userID(c), requestLanguage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, priced)
}

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	SizeID    string `json:"sizeId" binding:"required,uuid"`
	ColorID   string `json:"colorId" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

func (req cartItemRequest) item() cart.Item {
	return cart.Item{
		ProductID: req.ProductID,
		SizeID:    req.SizeID,
		ColorID:   req.ColorID,
		Quantity:  req.Quantity,
	}
}

// AddCartItem adds quantity units of a variant to the cart.
func (h *Handler) AddCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := h.svc.Cart.Add(c.Request.Context(), userID(c), req.item()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetCartItemQuantity replaces the quantity of an existing line.
func (h *Handler) SetCartItemQuantity(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := h.svc.Cart.SetQuantity(c.Request.Context(), userID(c), req.item()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type removeCartItemRequest struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	SizeID    string `json:"sizeId" binding:"required,uuid"`
	ColorID   string `json:"colorId" binding:"required,uuid"`
}

// RemoveCartItem deletes one cart line.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	var req removeCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if err := h.svc.Cart.Remove(c.Request.Context(), userID(c), req.ProductID, req.SizeID, req.ColorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.svc.Cart.Clear(c.Request.Context(), userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
