package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zahrashop/backend/internal/domain/pricing"
	"github.com/zahrashop/backend/internal/i18n"
)

// ListOffers returns the offers currently in their validity window.
func (h *Handler) ListOffers(c *gin.Context) {
	offers, err := h.svc.Offers.ListActive(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	lang := requestLanguage(c)
	items := make([]gin.H, 0, len(offers))
	for _, o := range offers {
		items = append(items, gin.H{
			"id":      o.ID,
			"title":   o.Title.Localize(lang),
			"image":   o.Image,
			"scope":   o.Scope,
			"type":    o.Type,
			"value":   o.Value,
			"endDate": o.EndDate,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AdminListOffers returns every offer including inactive and expired ones.
func (h *Handler) AdminListOffers(c *gin.Context) {
	offers, err := h.svc.Offers.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": offers})
}

type offerRequest struct {
	Title         i18n.Text       `json:"title" binding:"required"`
	Image         string          `json:"image"`
	Scope         string          `json:"scope" binding:"required,oneof=global product category sub_category"`
	ProductID     string          `json:"productId"`
	CategoryID    string          `json:"categoryId"`
	SubCategoryID string          `json:"subCategoryId"`
	Type          string          `json:"type" binding:"required,oneof=percentage fixed"`
	Value         decimal.Decimal `json:"value" binding:"required"`
	StartDate     time.Time       `json:"startDate" binding:"required"`
	EndDate       time.Time       `json:"endDate" binding:"required"`
	IsActive      *bool           `json:"isActive"`
}

func (req *offerRequest) toDomain(id string) *pricing.Offer {
	o := &pricing.Offer{
		ID:            id,
		Title:         req.Title,
		Image:         req.Image,
		Scope:         pricing.Scope(req.Scope),
		ProductID:     req.ProductID,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		Type:          pricing.DiscountType(req.Type),
		Value:         req.Value,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		IsActive:      true,
	}
	if req.IsActive != nil {
		o.IsActive = *req.IsActive
	}
	return o
}

// CreateOffer creates an offer. Admin only.
func (h *Handler) CreateOffer(c *gin.Context) {
	var req offerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	o := req.toDomain(uuid.New().String())
	if err := o.Validate(); err != nil {
		respondError(c, err)
		return
	}
	if err := h.svc.Offers.Create(c.Request.Context(), o); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": o.ID})
}

// UpdateOffer rewrites an offer. Admin only.
func (h *Handler) UpdateOffer(c *gin.Context) {
	var req offerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	o := req.toDomain(c.Param("id"))
	if err := o.Validate(); err != nil {
		respondError(c, err)
		return
	}
	if err := h.svc.Offers.Update(c.Request.Context(), o); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteOffer removes an offer. Admin only.
func (h *Handler) DeleteOffer(c *gin.Context) {
	if err := h.svc.Offers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
