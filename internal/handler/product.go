package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zahrashop/backend/internal/domain/catalog"
	"github.com/zahrashop/backend/internal/i18n"
)

type listProductsQuery struct {
	CategoryID    string           `form:"categoryId"`
	SubCategoryID string           `form:"subCategoryId"`
	SizeIDs       []string         `form:"sizeId"`
	ColorIDs      []string         `form:"colorId"`
	MinPrice      *decimal.Decimal `form:"minPrice"`
	MaxPrice      *decimal.Decimal `form:"maxPrice"`
	Kind          string           `form:"kind"`
	Limit         int              `form:"limit"`
}

// ListProducts returns active products matching the query filters, localized
// and priced against the live offers.
func (h *Handler) ListProducts(c *gin.Context) {
	var q listProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c)
		return
	}

	ctx := c.Request.Context()
	products, err := h.svc.Products.List(ctx, catalog.Filter{
		CategoryID:    q.CategoryID,
		SubCategoryID: q.SubCategoryID,
		SizeIDs:       q.SizeIDs,
		ColorIDs:      q.ColorIDs,
		MinPrice:      q.MinPrice,
		MaxPrice:      q.MaxPrice,
		Kind:          catalog.Kind(q.Kind),
		ActiveOnly:    true,
		Limit:         q.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	offers, err := h.svc.Offers.ListActive(ctx, now)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": catalog.FormatAll(products, offers, requestLanguage(c), now),
	})
}

// GetProduct returns one product and bumps its view counter.
func (h *Handler) GetProduct(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	p, err := h.svc.Products.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	offers, err := h.svc.Offers.ListActive(ctx, now)
	if err != nil {
		respondError(c, err)
		return
	}

	// A lost view bump never fails the read.
	if err := h.svc.Views.IncrementViews(ctx, id); err != nil {
		zctx.From(ctx).Warn("increment product views", zap.String("product_id", id), zap.Error(err))
	}

	c.JSON(http.StatusOK, catalog.Format(p, offers, requestLanguage(c), now))
}

type variantRequest struct {
	SizeID  string           `json:"sizeId" binding:"required"`
	ColorID string           `json:"colorId" binding:"required"`
	Stock   int              `json:"stock"`
	Price   *decimal.Decimal `json:"price"`
}

type productRequest struct {
	Name          i18n.Text        `json:"name" binding:"required"`
	Description   i18n.Text        `json:"description"`
	Images        []string         `json:"images"`
	Price         decimal.Decimal  `json:"price" binding:"required"`
	Currency      string           `json:"currency"`
	SizeIDs       []string         `json:"sizeIds"`
	ColorIDs      []string         `json:"colorIds"`
	CategoryID    string           `json:"categoryId"`
	SubCategoryID string           `json:"subCategoryId"`
	Variants      []variantRequest `json:"variants"`
	Kind          string           `json:"kind"`
	IsActive      *bool            `json:"isActive"`
}

func (req *productRequest) toDomain(id string) *catalog.Product {
	p := &catalog.Product{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		Images:        req.Images,
		Price:         req.Price,
		Currency:      req.Currency,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		Kind:          catalog.Kind(req.Kind),
		IsActive:      true,
	}
	if p.Currency == "" {
		p.Currency = catalog.DefaultCurrency
	}
	if p.Kind == "" {
		p.Kind = catalog.KindNormal
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	for _, id := range req.SizeIDs {
		p.Sizes = append(p.Sizes, catalog.Size{ID: id})
	}
	for _, id := range req.ColorIDs {
		p.Colors = append(p.Colors, catalog.Color{ID: id})
	}
	for _, v := range req.Variants {
		p.Variants = append(p.Variants, catalog.Variant{
			SizeID: v.SizeID, ColorID: v.ColorID, Stock: v.Stock, Price: v.Price,
		})
	}
	return p
}

// CreateProduct creates a catalog product. Admin only.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	p := req.toDomain(uuid.New().String())
	if err := h.svc.Products.Create(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": p.ID})
}

// UpdateProduct rewrites a catalog product. Admin only.
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	p := req.toDomain(c.Param("id"))
	if err := h.svc.Products.Update(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteProduct removes a catalog product. Admin only.
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.svc.Products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
