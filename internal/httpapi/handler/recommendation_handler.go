package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bookboo/internal/httpapi/service"
)

type RecommendationHandler struct {
	svc service.RecommendationService
}

func NewRecommendationHandler(svc service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

func (h *RecommendationHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/recommend", h.Recommend)
}

func (h *RecommendationHandler) Recommend(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Query("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters", "details": "book_id must be an integer"})
		return
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters", "details": "limit must be an integer"})
		return
	}
	method := c.Query("method")

	// Upstream similarity lookups can be slow on cold caches.
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	books, err := h.svc.Recommend(ctx, bookID, method, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}
