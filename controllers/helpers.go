package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"school-results-api/services"
)

// respondServiceError maps the service error classes onto HTTP
// statuses. Unknown errors become a generic 500 so lower-layer detail
// does not leak to callers.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrExhausted):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}

// currentUserID reads the authenticated user id set by the auth
// middleware.
func currentUserID(c *gin.Context) int {
	userID, _ := c.Get("userID")
	id, _ := userID.(int)
	return id
}

func currentRoleID(c *gin.Context) int {
	roleID, _ := c.Get("roleID")
	id, _ := roleID.(int)
	return id
}
