package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// ConfirmCashOnDelivery acknowledges a COD order.
func (h *Handler) ConfirmCashOnDelivery(c *gin.Context) {
	o, err := h.svc.Payments.ConfirmCashOnDelivery(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderResponse(o))
}

// CreateStripeIntent opens a Stripe payment intent for a card order.
func (h *Handler) CreateStripeIntent(c *gin.Context) {
	intent, err := h.svc.Payments.CreateStripeIntent(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}

// CreateGatewaySession opens an external gateway session for the order.
func (h *Handler) CreateGatewaySession(c *gin.Context) {
	session, err := h.svc.Payments.CreateGatewaySession(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

type gatewayCallbackRequest struct {
	TransactionID string `json:"transactionId" binding:"required"`
	Status        string `json:"status" binding:"required"`
}

// GatewayCallback settles a gateway payment. Called by the gateway, not the
// client.
func (h *Handler) GatewayCallback(c *gin.Context) {
	var req gatewayCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if err := h.svc.Payments.HandleGatewayCallback(c.Request.Context(), req.TransactionID, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StripeWebhook settles card payments reported by Stripe. Unhandled event
// types are acknowledged without action so Stripe stops retrying them.
func (h *Handler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		badRequest(c)
		return
	}

	event, err := h.svc.Payments.ParseStripeWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		zctx.From(c.Request.Context()).Warn("stripe webhook rejected", zap.Error(err))
		badRequest(c)
		return
	}
	if event == nil {
		c.Status(http.StatusOK)
		return
	}

	if err := h.svc.Payments.SettleIntent(c.Request.Context(), event.IntentID, event.Succeeded); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
