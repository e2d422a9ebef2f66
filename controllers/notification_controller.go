package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"pio-submission-api/config"
	"pio-submission-api/middleware"
	"pio-submission-api/models"

	"github.com/gin-gonic/gin"
)

// Notifications are always recipient-scoped: a user only ever sees and
// mutates their own rows.

func GetNotifications(c *gin.Context) {
	userID := middleware.GetUserID(c)

	unreadOnly := strings.TrimSpace(c.Query("unreadOnly"))
	limitStr := strings.TrimSpace(c.Query("limit"))
	offsetStr := strings.TrimSpace(c.Query("offset"))

	limit := 20
	offset := 0
	if v, err := strconv.Atoi(limitStr); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(offsetStr); err == nil && v >= 0 {
		offset = v
	}

	q := config.DB.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly == "1" || strings.EqualFold(unreadOnly, "true") {
		q = q.Where("is_read = 0")
	}

	var items []models.Notification
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func GetNotificationCounter(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var unread int64
	if err := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = 0", userID).
		Count(&unread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": unread})
}

func MarkNotificationRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	now := time.Now()
	res := config.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"is_read": true, "updated_at": now})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func MarkAllNotificationsRead(c *gin.Context) {
	userID := middleware.GetUserID(c)

	now := time.Now()
	if err := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = 0", userID).
		Updates(map[string]interface{}{"is_read": true, "updated_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
