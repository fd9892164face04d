package model

import (
	"time"
)

// Notification 站内通知，创建后只允许修改已读标记
type Notification struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	UserID int64 `json:"user_id" gorm:"not null;index"`

	Type    NotificationType `json:"type" gorm:"not null"`
	Message string           `json:"message" gorm:"type:text"`
	LinkURL string           `json:"link_url"`

	// 附加信息，JSON字符串
	Metadata string `json:"metadata" gorm:"type:text"`

	Read bool `json:"read" gorm:"default:false;index"`
}

// NotificationType 通知类型
type NotificationType string

const (
	NotificationTaskUpdate       NotificationType = "task_update"       // 任务状态变更
	NotificationMention          NotificationType = "mention"           // 评论提及
	NotificationTaskAssigned     NotificationType = "task_assigned"     // 任务指派
	NotificationDeadlineReminder NotificationType = "deadline_reminder" // 截止提醒
	NotificationOverdue          NotificationType = "overdue"           // 任务逾期
	NotificationDailyDigest      NotificationType = "daily_digest"      // 每日汇总
)

// TableName 自定义表名
func (Notification) TableName() string {
	return "notification"
}
