package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/taskhub/internal/logic"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationLogic *logic.NotificationLogic
}

func NewNotificationHandler(notificationLogic *logic.NotificationLogic) *NotificationHandler {
	return &NotificationHandler{notificationLogic: notificationLogic}
}

// GetNotifications 自己的通知列表
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	notifications, total, err := h.notificationLogic.ListNotifications(CurrentUser(c), unreadOnly, page, pageSize)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "ok", gin.H{
		"notifications": notifications,
		"pagination": Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	})
}

// GetUnreadCount 未读通知数量
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	count, err := h.notificationLogic.UnreadCount(CurrentUser(c))
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"unread": count})
}

// MarkRead 标记单条通知已读
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id", "无效的通知ID")
	if !ok {
		return
	}

	if err := h.notificationLogic.MarkRead(CurrentUser(c), id); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "已标记为已读", nil)
}

// MarkAllRead 全部标记已读
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationLogic.MarkAllRead(CurrentUser(c)); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "全部已读", nil)
}
