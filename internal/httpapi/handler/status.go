package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookboo/internal/httpapi/service"
)

// respondError maps service sentinel errors onto statuses. Anything
// unrecognized is reduced to a generic 500; internal detail never reaches
// the caller.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: Access denied"})
	case errors.Is(err, service.ErrCollectionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
	case errors.Is(err, service.ErrBookNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
	case errors.Is(err, service.ErrBookNotInCollection):
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found in the collection"})
	case errors.Is(err, service.ErrNoCollections):
		c.JSON(http.StatusNotFound, gin.H{"error": "No collections found"})
	case errors.Is(err, service.ErrNoPublicCollections):
		c.JSON(http.StatusNotFound, gin.H{"error": "No public collections found"})
	case errors.Is(err, service.ErrNoBooksFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No books found matching the query."})
	case errors.Is(err, service.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": "User already has a collection with this name"})
	case errors.Is(err, service.ErrAlreadyInCollection):
		c.JSON(http.StatusConflict, gin.H{"error": "This book is already in the collection"})
	case errors.Is(err, service.ErrNothingToUpdate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields to update"})
	case errors.Is(err, service.ErrInvalidRecommendRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters", "details": err.Error()})
	case errors.Is(err, service.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error from recommendation service"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
