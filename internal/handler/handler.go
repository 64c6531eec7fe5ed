// Package handler exposes the REST API over gin and maps domain errors to
// localized HTTP responses.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zahrashop/backend/internal/domain/cart"
	"github.com/zahrashop/backend/internal/domain/catalog"
	"github.com/zahrashop/backend/internal/domain/content"
	"github.com/zahrashop/backend/internal/domain/order"
	"github.com/zahrashop/backend/internal/domain/pricing"
	"github.com/zahrashop/backend/internal/domain/user"
	"github.com/zahrashop/backend/internal/payment"
)

// ProductViews records product detail views feeding the popular feed.
type ProductViews interface {
	IncrementViews(ctx context.Context, id string) error
}

// Services bundles everything the HTTP layer depends on.
type Services struct {
	Products      catalog.Repository
	Sizes         catalog.SizeRepository
	Colors        catalog.ColorRepository
	Categories    catalog.CategoryRepository
	SubCategories catalog.SubCategoryRepository
	Offers        pricing.Repository
	Views         ProductViews

	Cart     *cart.Service
	Orders   *order.Service
	Payments *payment.Service
	Profile  *user.Service
	Wishlist *user.WishlistService
	Content  *content.Service
}

// Handler carries the service dependencies for all routes.
type Handler struct {
	svc Services
}

func New(svc Services) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts every API route on the engine.
func (h *Handler) Routes(r *gin.Engine, verifier *JWTVerifier) {
	api := r.Group("/api/v1")

	public := api.Group("", OptionalAuth(verifier))
	{
		public.GET("/home", h.Home)
		public.GET("/banners", h.ListBanners)
		public.GET("/stories", h.ListStories)
		public.GET("/products", h.ListProducts)
		public.GET("/products/:id", h.GetProduct)
		public.GET("/categories", h.ListCategories)
		public.GET("/categories/:id/subcategories", h.ListSubCategories)
		public.GET("/sizes", h.ListSizes)
		public.GET("/colors", h.ListColors)
		public.GET("/offers", h.ListOffers)
	}

	// The gateway calls back without a user token.
	api.POST("/payments/gateway/callback", h.GatewayCallback)
	api.POST("/payments/stripe/webhook", h.StripeWebhook)

	authed := api.Group("", Auth(verifier))
	{
		authed.GET("/cart", h.GetCart)
		authed.POST("/cart/items", h.AddCartItem)
		authed.PUT("/cart/items", h.SetCartItemQuantity)
		authed.DELETE("/cart/items", h.RemoveCartItem)
		authed.DELETE("/cart", h.ClearCart)

		authed.GET("/checkout", h.CheckoutInfo)
		authed.POST("/orders", h.Checkout)
		authed.GET("/orders", h.ListOrders)
		authed.GET("/orders/:id", h.GetOrder)

		authed.POST("/orders/:id/payments/cod", h.ConfirmCashOnDelivery)
		authed.POST("/orders/:id/payments/stripe", h.CreateStripeIntent)
		authed.POST("/orders/:id/payments/gateway", h.CreateGatewaySession)

		authed.GET("/users/me", h.GetProfile)
		authed.PUT("/users/me", h.UpdateProfile)

		authed.GET("/addresses", h.ListAddresses)
		authed.POST("/addresses", h.CreateAddress)
		authed.GET("/addresses/:id", h.GetAddress)
		authed.PUT("/addresses/:id", h.UpdateAddress)
		authed.DELETE("/addresses/:id", h.DeleteAddress)

		authed.POST("/wishlist/:productId", h.ToggleWishlist)
		authed.GET("/wishlist", h.ListWishlist)

		authed.POST("/stories/:id/seen", h.MarkStorySeen)
	}

	admin := api.Group("/admin", Auth(verifier), RequireAdmin())
	{
		admin.POST("/products", h.CreateProduct)
		admin.PUT("/products/:id", h.UpdateProduct)
		admin.DELETE("/products/:id", h.DeleteProduct)

		admin.GET("/offers", h.AdminListOffers)
		admin.POST("/offers", h.CreateOffer)
		admin.PUT("/offers/:id", h.UpdateOffer)
		admin.DELETE("/offers/:id", h.DeleteOffer)

		admin.POST("/categories", h.CreateCategory)
		admin.PUT("/categories/:id", h.UpdateCategory)
		admin.DELETE("/categories/:id", h.DeleteCategory)

		admin.POST("/subcategories", h.CreateSubCategory)
		admin.PUT("/subcategories/:id", h.UpdateSubCategory)
		admin.DELETE("/subcategories/:id", h.DeleteSubCategory)

		admin.POST("/sizes", h.CreateSize)
		admin.PUT("/sizes/:id", h.UpdateSize)
		admin.DELETE("/sizes/:id", h.DeleteSize)

		admin.POST("/colors", h.CreateColor)
		admin.PUT("/colors/:id", h.UpdateColor)
		admin.DELETE("/colors/:id", h.DeleteColor)

		admin.GET("/banners", h.AdminListBanners)
		admin.POST("/banners", h.CreateBanner)
		admin.PUT("/banners/:id", h.UpdateBanner)
		admin.DELETE("/banners/:id", h.DeleteBanner)

		admin.GET("/stories", h.AdminListStories)
		admin.POST("/stories", h.CreateStory)
		admin.PUT("/stories/:id", h.UpdateStory)
		admin.DELETE("/stories/:id", h.DeleteStory)

		admin.GET("/orders", h.AdminListOrders)
		admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}
