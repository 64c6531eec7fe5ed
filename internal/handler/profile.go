package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zahrashop/backend/internal/domain/user"
)

// GetProfile returns the caller's own account.
func (h *Handler) GetProfile(c *gin.Context) {
	u, err := h.svc.Profile.Profile(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse(u))
}

type updateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Phone *string `json:"phone" binding:"omitempty,min=1"`
}

// UpdateProfile changes the caller's name or phone. Omitted fields are left
// as they are.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	u, err := h.svc.Profile.UpdateProfile(c.Request.Context(), userID(c), user.ProfileUpdate{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse(u))
}

func profileResponse(u *user.User) gin.H {
	return gin.H{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"phone": u.Phone,
		"role":  u.Role,
	}
}

// ListAddresses returns the caller's saved addresses.
func (h *Handler) ListAddresses(c *gin.Context) {
	addrs, err := h.svc.Profile.Addresses(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": addrs})
}

// GetAddress returns one saved address.
func (h *Handler) GetAddress(c *gin.Context) {
	a, err := h.svc.Profile.Address(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

type addressRequest struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Street      string `json:"street" binding:"required"`
	City        string `json:"city" binding:"required"`
	Governorate string `json:"governorate"`
	Notes       string `json:"notes"`
}

func (req *addressRequest) toDomain(id, userID string) *user.Address {
	return &user.Address{
		ID:          id,
		UserID:      userID,
		Name:        req.Name,
		Phone:       req.Phone,
		Street:      req.Street,
		City:        req.City,
		Governorate: req.Governorate,
		Notes:       req.Notes,
	}
}

// CreateAddress saves a new address in the caller's address book.
func (h *Handler) CreateAddress(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	a := req.toDomain(uuid.New().String(), userID(c))
	if err := h.svc.Profile.CreateAddress(c.Request.Context(), a); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": a.ID})
}

// UpdateAddress rewrites a saved address.
func (h *Handler) UpdateAddress(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if err := h.svc.Profile.UpdateAddress(c.Request.Context(), req.toDomain(c.Param("id"), userID(c))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteAddress removes a saved address.
func (h *Handler) DeleteAddress(c *gin.Context) {
	if err := h.svc.Profile.DeleteAddress(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
