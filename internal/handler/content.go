package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zahrashop/backend/internal/domain/content"
	"github.com/zahrashop/backend/internal/i18n"
)

// Home returns the aggregated home feed.
func (h *Handler) Home(c *gin.Context) {
	feed, err := h.svc.Content.Home(c.Request.Context(), userID(c), requestLanguage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// ListBanners returns the currently displayable banners.
func (h *Handler) ListBanners(c *gin.Context) {
	banners, err := h.svc.Content.Banners(c.Request.Context(), requestLanguage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": banners})
}

// ListStories returns the latest stories with the user's seen state.
func (h *Handler) ListStories(c *gin.Context) {
	stories, err := h.svc.Content.Stories(c.Request.Context(), userID(c), requestLanguage(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": stories})
}

// MarkStorySeen records a story view for the user.
func (h *Handler) MarkStorySeen(c *gin.Context) {
	if err := h.svc.Content.MarkStorySeen(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type bannerRequest struct {
	Title     i18n.Text  `json:"title" binding:"required"`
	Image     string     `json:"image" binding:"required"`
	Link      string     `json:"link"`
	Order     int        `json:"order"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	IsActive  *bool      `json:"isActive"`
}

func (req *bannerRequest) toDomain(id string) *content.Banner {
	b := &content.Banner{
		ID:        id,
		Title:     req.Title,
		Image:     req.Image,
		Link:      req.Link,
		Order:     req.Order,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  true,
	}
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}
	return b
}

// AdminListBanners returns every banner regardless of window. Admin only.
func (h *Handler) AdminListBanners(c *gin.Context) {
	banners, err := h.svc.Content.ListAllBanners(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": banners})
}

// CreateBanner creates a banner. Admin only.
func (h *Handler) CreateBanner(c *gin.Context) {
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	b := req.toDomain(uuid.New().String())
	if err := h.svc.Content.CreateBanner(c.Request.Context(), b); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": b.ID})
}

// UpdateBanner rewrites a banner. Admin only.
func (h *Handler) UpdateBanner(c *gin.Context) {
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if err := h.svc.Content.UpdateBanner(c.Request.Context(), req.toDomain(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteBanner removes a banner. Admin only.
func (h *Handler) DeleteBanner(c *gin.Context) {
	if err := h.svc.Content.DeleteBanner(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type storyRequest struct {
	Title     i18n.Text `json:"title" binding:"required"`
	Image     string    `json:"image" binding:"required"`
	ProductID string    `json:"productId"`
	IsActive  *bool     `json:"isActive"`
}

func (req *storyRequest) toDomain(id string) *content.Story {
	s := &content.Story{
		ID:        id,
		Title:     req.Title,
		Image:     req.Image,
		ProductID: req.ProductID,
		IsActive:  true,
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	return s
}

// AdminListStories returns every story. Admin only.
func (h *Handler) AdminListStories(c *gin.Context) {
	stories, err := h.svc.Content.ListAllStories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": stories})
}

// CreateStory creates a story. Admin only.
func (h *Handler) CreateStory(c *gin.Context) {
	var req storyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	s := req.toDomain(uuid.New().String())
	if err := h.svc.Content.CreateStory(c.Request.Context(), s); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": s.ID})
}

// UpdateStory rewrites a story. Admin only.
func (h *Handler) UpdateStory(c *gin.Context) {
	var req storyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if err := h.svc.Content.UpdateStory(c.Request.Context(), req.toDomain(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteStory removes a story. Admin only.
func (h *Handler) DeleteStory(c *gin.Context) {
	if err := h.svc.Content.DeleteStory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
