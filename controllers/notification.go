package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"school-results-api/config"
	"school-results-api/services"
)

// GetNotifications returns the caller's unread notifications.
func GetNotifications(c *gin.Context) {
	notifications := services.NewNotificationService(config.DB)
	unread, err := notifications.Unread(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": unread,
		"total":         len(unread),
	})
}

// MarkNotificationRead flags one of the caller's notifications read.
func MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}

	notifications := services.NewNotificationService(config.DB)
	if err := notifications.MarkRead(uint(id), currentUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
