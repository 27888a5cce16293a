package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookboo/internal/httpapi/service"
)

type WebhookHandler struct {
	svc    service.WebhookService
	logger *slog.Logger
}

func NewWebhookHandler(svc service.WebhookService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{svc: svc, logger: logger}
}

func (h *WebhookHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/webhooks", h.Receive)
}

// Receive handles identity-provider lifecycle deliveries. The raw body is
// read before any parsing because the signature covers the exact bytes.
func (h *WebhookHandler) Receive(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to read request body"})
		return
	}

	headers := service.WebhookHeaders{
		ID:        c.GetHeader("svix-id"),
		Timestamp: c.GetHeader("svix-timestamp"),
		Signature: c.GetHeader("svix-signature"),
	}

	evt, err := h.svc.VerifyAndParse(headers, payload)
	if err != nil {
		h.logger.Warn("webhook failed to verify", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	h.logger.Info("webhook received", "id", headers.ID, "type", evt.Type)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Process(ctx, evt); err != nil {
		// The provider retries on failure; log and let it.
		h.logger.Error("webhook processing failed", "id", headers.ID, "type", evt.Type, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Webhook received"})
}
