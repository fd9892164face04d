package logic

import (
	"errors"

	"github.com/blues/taskhub/internal/errs"
	"github.com/blues/taskhub/internal/model"
	"gorm.io/gorm"
)

// NotificationLogic 站内通知业务逻辑
type NotificationLogic struct {
	db *gorm.DB
}

// NewNotificationLogic 创建通知业务逻辑
func NewNotificationLogic(db *gorm.DB) *NotificationLogic {
	return &NotificationLogic{db: db}
}

// ListNotifications 自己的通知列表，新的在前
func (n *NotificationLogic) ListNotifications(caller *model.User, unreadOnly bool, page, pageSize int) ([]model.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := n.db.Model(&model.Notification{}).Where("user_id = ?", caller.Id)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.Upstream(err, "查询通知失败")
	}

	var notifications []model.Notification
	if err := query.Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&notifications).Error; err != nil {
		return nil, 0, errs.Upstream(err, "查询通知失败")
	}
	return notifications, total, nil
}

// UnreadCount 未读通知数量
func (n *NotificationLogic) UnreadCount(caller *model.User) (int64, error) {
	var count int64
	err := n.db.Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", caller.Id, false).
		Count(&count).Error
	if err != nil {
		return 0, errs.Upstream(err, "查询未读通知失败")
	}
	return count, nil
}

// MarkRead 标记已读。重复标记是幂等的成功。
func (n *NotificationLogic) MarkRead(caller *model.User, id int64) error {
	var notification model.Notification
	err := n.db.Where("id = ? AND user_id = ?", id, caller.Id).First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("通知不存在")
	}
	if err != nil {
		return errs.Upstream(err, "查询通知失败")
	}

	if notification.Read {
		return nil
	}
	if err := n.db.Model(&notification).Update("read", true).Error; err != nil {
		return errs.Upstream(err, "更新通知失败")
	}
	return nil
}

// MarkAllRead 全部标记已读
func (n *NotificationLogic) MarkAllRead(caller *model.User) error {
	err := n.db.Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", caller.Id, false).
		Update("read", true).Error
	if err != nil {
		return errs.Upstream(err, "更新通知失败")
	}
	return nil
}
