package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ToggleWishlist flips the product in or out of the user's wishlist.
func (h *Handler) ToggleWishlist(c *gin.Context) {
	in, err := h.svc.Wishlist.Toggle(c.Request.Context(), userID(c), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inFavourite": in})
}

// ListWishlist returns the user's wishlist as formatted products.
func (h *Handler) ListWishlist(c *gin.Context) {
	items, err := h.svc.Wishlist.List(c.Request.Context(), userID(c), requestLanguage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
