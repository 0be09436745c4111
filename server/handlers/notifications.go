package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bitejournal/bitejournal/model"
	"github.com/bitejournal/bitejournal/server/middlewares"
	. "github.com/bitejournal/bitejournal/utils/log"
)

// notify records an interaction notification, at most once, best-effort.
// Failures are logged and swallowed: a notification must never fail the action
// that triggered it. Self-notification is suppressed here as a last line of
// defense even though callers already skip it.
func (h *Handler) notify(recipientID, senderID, blogID, notificationType, message string) {
	if recipientID == senderID {
		return
	}
	notification := model.Notification{
		Id:          uuid.New().String(),
		RecipientID: recipientID,
		SenderID:    senderID,
		BlogID:      blogID,
		Type:        notificationType,
		Message:     message,
	}
	if err := h.DB.Create(&notification).Error; err != nil {
		Log.Warn("fail to create notification: ", err)
	}
}

// ListNotifications returns the caller's notifications, most recent first, with
// the sender and the review title attached.
func (h *Handler) ListNotifications(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}

	var notifications []*model.Notification
	err := h.DB.Preload("Sender").Preload("Blog").
		Where("recipient_id = ?", caller.UserID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead flips isRead. Recipient only.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}

	var notification model.Notification
	if result := h.DB.Where("id = ?", c.Param("id")).First(&notification); result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
		return
	}

	if !middlewares.CanModify(caller, &notification) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
		return
	}

	if err := h.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// DeleteNotification removes a notification. Recipient only.
func (h *Handler) DeleteNotification(c *gin.Context) {
	caller, ok := mustIdentity(c)
	if !ok {
		return
	}

	var notification model.Notification
	if result := h.DB.Where("id = ?", c.Param("id")).First(&notification); result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
		return
	}

	if !middlewares.CanModify(caller, &notification) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
		return
	}

	if err := h.DB.Delete(&notification).Error; err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
