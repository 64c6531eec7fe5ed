package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/zahrashop/backend/internal/domain/cart"
	"github.com/zahrashop/backend/internal/domain/catalog"
	"github.com/zahrashop/backend/internal/domain/content"
	"github.com/zahrashop/backend/internal/domain/order"
	"github.com/zahrashop/backend/internal/domain/pricing"
	"github.com/zahrashop/backend/internal/domain/user"
	"github.com/zahrashop/backend/internal/i18n"
	"github.com/zahrashop/backend/internal/payment"
)

// respondError maps domain errors to HTTP statuses with a message localized
// for the request's language.
func respondError(c *gin.Context, err error) {
	status, key := classify(err)
	if status == http.StatusInternalServerError {
		zctx.From(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": i18n.Message(key, requestLanguage(c))})
}

func classify(err error) (int, string) {
	var (
		productMissing    *order.ProductNotFoundError
		invalidTransition *order.InvalidTransitionError
	)
	switch {
	case errors.As(err, &productMissing):
		return http.StatusNotFound, "cart.product_not_found"
	case errors.As(err, &invalidTransition):
		return http.StatusBadRequest, "order.invalid_status"
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, "product.not_found"
	case errors.Is(err, catalog.ErrSizeNotFound):
		return http.StatusNotFound, "size.not_found"
	case errors.Is(err, catalog.ErrColorNotFound):
		return http.StatusNotFound, "color.not_found"
	case errors.Is(err, catalog.ErrCategoryNotFound):
		return http.StatusNotFound, "category.not_found"
	case errors.Is(err, catalog.ErrSubCategoryNotFound):
		return http.StatusNotFound, "subcategory.not_found"
	case errors.Is(err, pricing.ErrNotFound):
		return http.StatusNotFound, "offer.not_found"
	case errors.Is(err, pricing.ErrTargetRequired):
		return http.StatusBadRequest, "offer.target_required"
	case errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound, "order.not_found"
	case errors.Is(err, cart.ErrEmpty):
		return http.StatusBadRequest, "cart.empty"
	case errors.Is(err, cart.ErrItemNotFound):
		return http.StatusNotFound, "cart.item_not_found"
	case errors.Is(err, content.ErrBannerNotFound):
		return http.StatusNotFound, "banner.not_found"
	case errors.Is(err, content.ErrStoryNotFound):
		return http.StatusNotFound, "story.not_found"
	case errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound, "user.not_found"
	case errors.Is(err, user.ErrAddressNotFound):
		return http.StatusNotFound, "address.not_found"
	case errors.Is(err, payment.ErrAlreadyPaid):
		return http.StatusBadRequest, "order.already_paid"
	case errors.Is(err, payment.ErrWrongMethod):
		return http.StatusBadRequest, "order.payment_method_invalid"
	case errors.Is(err, payment.ErrSessionFailed):
		return http.StatusBadGateway, "payment.session_failed"
	default:
		return http.StatusInternalServerError, "error.internal_server"
	}
}

// badRequest rejects a malformed request body or parameter.
func badRequest(c *gin.Context) {
	abortLocalized(c, http.StatusBadRequest, "validation.failed")
}

func abortLocalized(c *gin.Context, status int, key string) {
	c.AbortWithStatusJSON(status, gin.H{"error": i18n.Message(key, requestLanguage(c))})
}
