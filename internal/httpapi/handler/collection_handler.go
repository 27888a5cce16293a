package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bookboo/internal/httpapi/dto"
	"bookboo/internal/httpapi/middleware"
	"bookboo/internal/httpapi/service"
)

type CollectionHandler struct {
	svc  service.CollectionService
	auth *middleware.Verifier
}

func NewCollectionHandler(svc service.CollectionService, auth *middleware.Verifier) *CollectionHandler {
	return &CollectionHandler{svc: svc, auth: auth}
}

// RegisterRoutes mounts the collection surface. Details uses optional
// auth because public collections are readable anonymously; everything
// else requires a caller identity.
func (h *CollectionHandler) RegisterRoutes(api *gin.RouterGroup) {
	col := api.Group("/collection")
	{
		col.GET("", h.Public)
		col.GET("/:collectionId", middleware.OptionalAuth(h.auth), h.Details)
		col.POST("", middleware.RequireAuth(h.auth), h.Create)
		col.PATCH("/:collectionId", middleware.RequireAuth(h.auth), h.Update)
		col.DELETE("/:collectionId", middleware.RequireAuth(h.auth), h.Delete)
		col.POST("/:collectionId/book", middleware.RequireAuth(h.auth), h.AddBook)
		col.DELETE("/:collectionId/book/:bookId", middleware.RequireAuth(h.auth), h.RemoveBook)
	}
	api.GET("/users/:userId/collections", middleware.RequireAuth(h.auth), h.ForUser)
}

// Public lists all public collections. Empty results surface as 404;
// the mobile client treats that as its empty state.
func (h *CollectionHandler) Public(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.svc.Public(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *CollectionHandler) ForUser(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.ForUser(ctx, middleware.CallerID(c), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CollectionHandler) Details(c *gin.Context) {
	collectionID, ok := h.collectionID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	details, err := h.svc.Details(ctx, middleware.CallerID(c), collectionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *CollectionHandler) Create(c *gin.Context) {
	var req dto.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters", "details": err.Error()})
		return
	}

	public := false
	if req.Public != nil {
		public = *req.Public
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	created, err := h.svc.Create(ctx, middleware.CallerID(c), req.UserID, req.Name, public)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CollectionToResponse(*created))
}

func (h *CollectionHandler) AddBook(c *gin.Context) {
	collectionID, ok := h.collectionID(c)
	if !ok {
		return
	}

	var req dto.AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	added, err := h.svc.AddBook(ctx, middleware.CallerID(c), collectionID, req.BookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Book added to collection successfully",
		"addedBook": dto.MembershipToResponse(*added),
	})
}

func (h *CollectionHandler) RemoveBook(c *gin.Context) {
	collectionID, ok := h.collectionID(c)
	if !ok {
		return
	}
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL parameters"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.RemoveBook(ctx, middleware.CallerID(c), collectionID, bookID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book removed from collection successfully"})
}

func (h *CollectionHandler) Update(c *gin.Context) {
	collectionID, ok := h.collectionID(c)
	if !ok {
		return
	}

	var req dto.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.svc.Update(ctx, middleware.CallerID(c), collectionID, req.Name, req.Public)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CollectionToResponse(*updated))
}

func (h *CollectionHandler) Delete(c *gin.Context) {
	collectionID, ok := h.collectionID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.CallerID(c), collectionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collection deleted successfully"})
}

func (h *CollectionHandler) collectionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("collectionId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL parameter"})
		return 0, false
	}
	return id, true
}
