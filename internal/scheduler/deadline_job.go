package scheduler

import (
	"time"

	"github.com/blues/taskhub/internal/config"
	"github.com/blues/taskhub/internal/logger"
	"github.com/blues/taskhub/internal/model"
	"github.com/blues/taskhub/internal/notify"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// 日期型截止时间按当天结束计算到期时刻
func dueMoment(due time.Time) time.Time {
	return due.Add(24 * time.Hour)
}

// inDeadlineWindow 到期时刻落在未来[23h, 25h)内。
// 扫描间隔为小时级时每个任务只会命中一个扫描周期。
func inDeadlineWindow(now, due time.Time) bool {
	ahead := dueMoment(due).Sub(now)
	return ahead >= 23*time.Hour && ahead < 25*time.Hour
}

// inOverdueWindow 到期时刻已过去[24h, 48h)
func inOverdueWindow(now, due time.Time) bool {
	past := now.Sub(dueMoment(due))
	return past >= 24*time.Hour && past < 48*time.Hour
}

// DeadlineJob 截止提醒任务
type DeadlineJob struct {
	db       *gorm.DB
	notifier *notify.Notifier
	config   *config.Config
}

// NewDeadlineJob 创建截止提醒任务
func NewDeadlineJob(db *gorm.DB, notifier *notify.Notifier, cfg *config.Config) *DeadlineJob {
	return &DeadlineJob{db: db, notifier: notifier, config: cfg}
}

// GetName 获取任务名称
func (j *DeadlineJob) GetName() string {
	return "deadline_reminder"
}

// GetSchedule 获取调度配置
func (j *DeadlineJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.ScanIntervalSec) * time.Second)
}

// Execute 扫描即将到期的任务并通知所有指派人
func (j *DeadlineJob) Execute() {
	now := time.Now()

	tasks, err := scanDatedTasks(j.db, now.Add(-2*24*time.Hour), now.Add(2*24*time.Hour))
	if err != nil {
		logger.Error("deadline scan failed: %v", err)
		return
	}

	notified := 0
	for i := range tasks {
		task := &tasks[i]
		if !inDeadlineWindow(now, *task.DueDate) {
			continue
		}
		recipients, err := loadAssignees(j.db, task.AssigneeIDs)
		if err != nil {
			logger.Error("load assignees for task %d failed: %v", task.Id, err)
			continue
		}
		j.notifier.DeadlineReminder(task, recipients)
		notified++
	}

	logger.Info("deadline scan completed, %d tasks due soon", notified)
}

// scanDatedTasks 取出指定到期区间内未完成的正常任务
func scanDatedTasks(db *gorm.DB, from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := db.Where("due_date IS NOT NULL").
		Where("due_date >= ? AND due_date < ?", from, to).
		Where("status <> ?", model.TaskStatusCompleted).
		Where("type = ?", model.TaskTypeActive).
		Find(&tasks).Error
	return tasks, err
}

// loadAssignees 按指派人ID加载用户
func loadAssignees(db *gorm.DB, ids model.Int64List) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := db.Where("id IN ?", []int64(ids)).Find(&users).Error
	return users, err
}
