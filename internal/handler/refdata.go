package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zahrashop/backend/internal/domain/catalog"
	"github.com/zahrashop/backend/internal/i18n"
)

// ListCategories returns active categories, localized.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.svc.Categories.List(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}

	lang := requestLanguage(c)
	items := make([]gin.H, 0, len(categories))
	for _, cat := range categories {
		items = append(items, gin.H{
			"id":    cat.ID,
			"name":  cat.Name.Localize(lang),
			"image": cat.Image,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListSubCategories returns a category's sub-categories, localized.
func (h *Handler) ListSubCategories(c *gin.Context) {
	subs, err := h.svc.SubCategories.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	lang := requestLanguage(c)
	items := make([]gin.H, 0, len(subs))
	for _, sc := range subs {
		if !sc.IsActive {
			continue
		}
		items = append(items, gin.H{
			"id":         sc.ID,
			"name":       sc.Name.Localize(lang),
			"categoryId": sc.CategoryID,
			"image":      sc.Image,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListSizes returns all sizes.
func (h *Handler) ListSizes(c *gin.Context) {
	sizes, err := h.svc.Sizes.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": sizes})
}

// ListColors returns all colors.
func (h *Handler) ListColors(c *gin.Context) {
	colors, err := h.svc.Colors.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": colors})
}

type categoryRequest struct {
	Name     i18n.Text `json:"name" binding:"required"`
	Image    string    `json:"image"`
	IsActive *bool     `json:"isActive"`
}

// CreateCategory creates a category. Admin only.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	cat := &catalog.Category{ID: uuid.New().String(), Name: req.Name, Image: req.Image, IsActive: true}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}
	if err := h.svc.Categories.Create(c.Request.Context(), cat); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": cat.ID})
}

// UpdateCategory rewrites a category. Admin only.
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	cat := &catalog.Category{ID: c.Param("id"), Name: req.Name, Image: req.Image, IsActive: true}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}
	if err := h.svc.Categories.Update(c.Request.Context(), cat); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteCategory removes a category. Admin only.
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.svc.Categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type subCategoryRequest struct {
	Name       i18n.Text `json:"name" binding:"required"`
	CategoryID string    `json:"categoryId" binding:"required,uuid"`
	Image      string    `json:"image"`
	IsActive   *bool     `json:"isActive"`
}

// CreateSubCategory creates a sub-category. Admin only.
func (h *Handler) CreateSubCategory(c *gin.Context) {
	var req subCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	sc := &catalog.SubCategory{
		ID: uuid.New().String(), Name: req.Name, CategoryID: req.CategoryID,
		Image: req.Image, IsActive: true,
	}
	if req.IsActive != nil {
		sc.IsActive = *req.IsActive
	}
	if err := h.svc.SubCategories.Create(c.Request.Context(), sc); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": sc.ID})
}

// UpdateSubCategory rewrites a sub-category. Admin only.
func (h *Handler) UpdateSubCategory(c *gin.Context) {
	var req subCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	sc := &catalog.SubCategory{
		ID: c.Param("id"), Name: req.Name, CategoryID: req.CategoryID,
		Image: req.Image, IsActive: true,
	}
	if req.IsActive != nil {
		sc.IsActive = *req.IsActive
	}
	if err := h.svc.SubCategories.Update(c.Request.Context(), sc); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteSubCategory removes a sub-category. Admin only.
func (h *Handler) DeleteSubCategory(c *gin.Context) {
	if err := h.svc.SubCategories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type sizeRequest struct {
	Name     string `json:"name" binding:"required"`
	IsActive *bool  `json:"isActive"`
}

// CreateSize creates a size. Admin only.
func (h *Handler) CreateSize(c *gin.Context) {
	var req sizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	s := &catalog.Size{ID: uuid.New().String(), Name: req.Name, IsActive: true}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	if err := h.svc.Sizes.Create(c.Request.Context(), s); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": s.ID})
}

// UpdateSize rewrites a size. Admin only.
func (h *Handler) UpdateSize(c *gin.Context) {
	var req sizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	s := &catalog.Size{ID: c.Param("id"), Name: req.Name, IsActive: true}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	if err := h.svc.Sizes.Update(c.Request.Context(), s); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteSize removes a size. Admin only.
func (h *Handler) DeleteSize(c *gin.Context) {
	if err := h.svc.Sizes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type colorRequest struct {
	Name     string `json:"name" binding:"required"`
	HexCode  string `json:"hexCode"`
	IsActive *bool  `json:"isActive"`
}

// CreateColor creates a color. Admin only.
func (h *Handler) CreateColor(c *gin.Context) {
	var req colorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	col := &catalog.Color{ID: uuid.New().String(), Name: req.Name, HexCode: req.HexCode, IsActive: true}
	if req.IsActive != nil {
		col.IsActive = *req.IsActive
	}
	if err := h.svc.Colors.Create(c.Request.Context(), col); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": col.ID})
}

// UpdateColor rewrites a color. Admin only.
func (h *Handler) UpdateColor(c *gin.Context) {
	var req colorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	col := &catalog.Color{ID: c.Param("id"), Name: req.Name, HexCode: req.HexCode, IsActive: true}
	if req.IsActive != nil {
		col.IsActive = *req.IsActive
	}
	if err := h.svc.Colors.Update(c.Request.Context(), col); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteColor removes a color. Admin only.
func (h *Handler) DeleteColor(c *gin.Context) {
	if err := h.svc.Colors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
