package notify

import (
	"fmt"

	"github.com/blues/taskhub/internal/logger"
	"github.com/blues/taskhub/internal/mailer"
	"github.com/blues/taskhub/internal/model"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// Item 发给单个接收者的一条通知。站内通知行先写，邮件尽力而为。
type Item struct {
	UserID   int64
	Email    string // 为空时不发邮件
	Type     model.NotificationType
	Message  string
	LinkURL  string
	Metadata string

	EmailSubject string
	EmailHTML    string
}

// Notifier 通知分发器。每个接收者独立投递，单个失败不影响其他人，
// 也绝不向触发通知的业务操作抛错。
type Notifier struct {
	db      *gorm.DB
	mailer  *mailer.Mailer
	pool    *ants.Pool // 协程池
	baseURL string
}

// New 创建通知分发器
func New(db *gorm.DB, m *mailer.Mailer, baseURL string, poolSize int) (*Notifier, error) {
	if poolSize <= 0 {
		poolSize = 16
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("create notify pool: %w", err)
	}

	return &Notifier{
		db:      db,
		mailer:  m,
		pool:    pool,
		baseURL: baseURL,
	}, nil
}

// Dispatch 把一批通知提交到协程池。提交失败就同步投递，保证不丢。
func (n *Notifier) Dispatch(items []Item) {
	for _, item := range items {
		item := item
		if err := n.pool.Submit(func() {
			n.deliver(item)
		}); err != nil {
			logger.Warn("Notify pool submit failed, delivering inline: %v", err)
			n.deliver(item)
		}
	}
}

// deliver 投递单条通知：先写站内通知行，再尝试发邮件。
// 两步的失败都只记日志，不回滚已写入的数据。
func (n *Notifier) deliver(item Item) {
	notification := model.Notification{
		UserID:   item.UserID,
		Type:     item.Type,
		Message:  item.Message,
		LinkURL:  item.LinkURL,
		Metadata: item.Metadata,
	}
	if err := n.db.Create(&notification).Error; err != nil {
		logger.Error("Failed to create notification for user %d: %v", item.UserID, err)
	}

	if item.Email == "" || item.EmailSubject == "" {
		return
	}
	if err := n.mailer.Send(item.Email, item.EmailSubject, item.EmailHTML); err != nil {
		logger.Error("Failed to send %s email to %s: %v", item.Type, item.Email, err)
	}
}

// Close 释放协程池
func (n *Notifier) Close() {
	n.pool.Release()
}

// TaskLink 任务的前端链接
func (n *Notifier) TaskLink(task *model.Task) string {
	if task.ProjectID != nil {
		return fmt.Sprintf("%s/projects/%d/tasks/%d", n.baseURL, *task.ProjectID, task.Id)
	}
	return fmt.Sprintf("%s/tasks/%d", n.baseURL, task.Id)
}
