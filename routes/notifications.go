package routes

import (
	"time"

	"darkom-server/models"
	"darkom-server/storage"
	"darkom-server/utils"

	"github.com/kataras/iris/v12"
)

// GetUserNotifications returns the caller's notifications, newest first.
func GetUserNotifications(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var notifications []models.Notification
	query := storage.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100)

	if ctx.URLParamDefault("unread", "") == "true" {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Find(&notifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var unreadCount int64
	storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unreadCount)

	ctx.JSON(iris.Map{
		"notifications": notifications,
		"unreadCount":   unreadCount,
	})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func MarkNotificationRead(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().GetUintDefault("id", 0)

	var notification models.Notification
	result := storage.DB.Where("id = ? AND user_id = ?", id, userID).First(&notification)
	if result.Error != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if !notification.IsRead {
		now := time.Now()
		notification.IsRead = true
		notification.ReadAt = &now
		if err := storage.DB.Save(&notification).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(notification)
}
