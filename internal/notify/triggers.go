package notify

import (
	"encoding/json"
	"fmt"

	"github.com/blues/taskhub/internal/mailer"
	"github.com/blues/taskhub/internal/model"
)

// 触发矩阵：任务/评论变更和定时扫描在这里换算成具体的通知条目。
// 所有方法都不返回错误，投递语义见 Notifier.Dispatch。

// TaskAssigned 任务创建时通知除操作者之外的所有指派人
func (n *Notifier) TaskAssigned(task *model.Task, actor *model.User, recipients []model.User) {
	n.Dispatch(taskAssignedItems(task, actor, recipients, n.TaskLink(task)))
}

// TaskStatusChanged 状态变更时通知全部当前指派人，包括操作者自己
func (n *Notifier) TaskStatusChanged(task *model.Task, actor *model.User, recipients []model.User) {
	n.Dispatch(statusChangeItems(task, actor, recipients, n.TaskLink(task)))
}

// Mention 评论提及，snippet为评论前100个字符。提到自己不通知。
func (n *Notifier) Mention(task *model.Task, actor *model.User, snippet string, recipients []model.User) {
	n.Dispatch(mentionItems(task, actor, snippet, recipients, n.TaskLink(task)))
}

// DeadlineReminder 截止提醒，发给所有指派人
func (n *Notifier) DeadlineReminder(task *model.Task, recipients []model.User) {
	n.Dispatch(deadlineItems(task, recipients, n.TaskLink(task)))
}

// Overdue 逾期提醒，发给所有指派人
func (n *Notifier) Overdue(task *model.Task, recipients []model.User) {
	n.Dispatch(overdueItems(task, recipients, n.TaskLink(task)))
}

// DailyDigest 每日汇总
func (n *Notifier) DailyDigest(user *model.User, data mailer.DigestData) {
	subject, html := mailer.DailyDigestEmail(user.DisplayName, data)
	n.Dispatch([]Item{{
		UserID:       user.Id,
		Email:        user.Email,
		Type:         model.NotificationDailyDigest,
		Message:      fmt.Sprintf("%s 任务汇总", data.Date),
		LinkURL:      n.baseURL + "/dashboard",
		EmailSubject: subject,
		EmailHTML:    html,
	}})
}

func taskAssignedItems(task *model.Task, actor *model.User, recipients []model.User, link string) []Item {
	items := make([]Item, 0, len(recipients))
	for _, user := range recipients {
		if user.Id == actor.Id {
			continue
		}
		subject, html := mailer.TaskAssignedEmail(task.Title, actor.DisplayName, link)
		items = append(items, Item{
			UserID:       user.Id,
			Email:        user.Email,
			Type:         model.NotificationTaskAssigned,
			Message:      fmt.Sprintf("%s 给你指派了任务「%s」", actor.DisplayName, task.Title),
			LinkURL:      link,
			Metadata:     taskMetadata(task),
			EmailSubject: subject,
			EmailHTML:    html,
		})
	}
	return items
}

// statusChangeItems 状态变更条目。操作者不豁免：自己也是指派人时同样收到记录。
func statusChangeItems(task *model.Task, actor *model.User, recipients []model.User, link string) []Item {
	items := make([]Item, 0, len(recipients))
	for _, user := range recipients {
		subject, html := mailer.TaskStatusUpdatedEmail(task.Title, string(task.Status), actor.DisplayName, link)
		items = append(items, Item{
			UserID:       user.Id,
			Email:        user.Email,
			Type:         model.NotificationTaskUpdate,
			Message:      fmt.Sprintf("任务「%s」的状态变更为 %s", task.Title, task.Status),
			LinkURL:      link,
			Metadata:     taskMetadata(task),
			EmailSubject: subject,
			EmailHTML:    html,
		})
	}
	return items
}

func mentionItems(task *model.Task, actor *model.User, snippet string, recipients []model.User, link string) []Item {
	items := make([]Item, 0, len(recipients))
	for _, user := range recipients {
		if user.Id == actor.Id {
			continue
		}
		subject, html := mailer.MentionEmail(actor.DisplayName, task.Title, snippet, link)
		items = append(items, Item{
			UserID:       user.Id,
			Email:        user.Email,
			Type:         model.NotificationMention,
			Message:      fmt.Sprintf("%s 在任务「%s」的评论中提到了你", actor.DisplayName, task.Title),
			LinkURL:      link,
			Metadata:     taskMetadata(task),
			EmailSubject: subject,
			EmailHTML:    html,
		})
	}
	return items
}

func deadlineItems(task *model.Task, recipients []model.User, link string) []Item {
	due := dueDateString(task)
	items := make([]Item, 0, len(recipients))
	for _, user := range recipients {
		subject, html := mailer.DeadlineReminderEmail(task.Title, due, link)
		items = append(items, Item{
			UserID:       user.Id,
			Email:        user.Email,
			Type:         model.NotificationDeadlineReminder,
			Message:      fmt.Sprintf("任务「%s」将于 %s 到期", task.Title, due),
			LinkURL:      link,
			Metadata:     taskMetadata(task),
			EmailSubject: subject,
			EmailHTML:    html,
		})
	}
	return items
}

func overdueItems(task *model.Task, recipients []model.User, link string) []Item {
	due := dueDateString(task)
	items := make([]Item, 0, len(recipients))
	for _, user := range recipients {
		subject, html := mailer.OverdueEmail(task.Title, due, link)
		items = append(items, Item{
			UserID:       user.Id,
			Email:        user.Email,
			Type:         model.NotificationOverdue,
			Message:      fmt.Sprintf("任务「%s」已于 %s 逾期", task.Title, due),
			LinkURL:      link,
			Metadata:     taskMetadata(task),
			EmailSubject: subject,
			EmailHTML:    html,
		})
	}
	return items
}

func dueDateString(task *model.Task) string {
	if task.DueDate == nil {
		return ""
	}
	return task.DueDate.Format("2006-01-02")
}

func taskMetadata(task *model.Task) string {
	meta := map[string]interface{}{
		"task_id": task.Id,
		"status":  task.Status,
	}
	if task.ProjectID != nil {
		meta["project_id"] = *task.ProjectID
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(raw)
}
