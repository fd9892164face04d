package scheduler

import (
	"time"

	"github.com/blues/taskhub/internal/config"
	"github.com/blues/taskhub/internal/logger"
	"github.com/blues/taskhub/internal/notify"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// OverdueJob 逾期提醒任务
type OverdueJob struct {
	db       *gorm.DB
	notifier *notify.Notifier
	config   *config.Config
}

// NewOverdueJob 创建逾期提醒任务
func NewOverdueJob(db *gorm.DB, notifier *notify.Notifier, cfg *config.Config) *OverdueJob {
	return &OverdueJob{db: db, notifier: notifier, config: cfg}
}

// GetName 获取任务名称
func (j *OverdueJob) GetName() string {
	return "overdue_reminder"
}

// GetSchedule 获取调度配置
func (j *OverdueJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Scheduler.ScanIntervalSec) * time.Second)
}

// Execute 扫描逾期一到两天的任务并通知所有指派人
func (j *OverdueJob) Execute() {
	now := time.Now()

	tasks, err := scanDatedTasks(j.db, now.Add(-4*24*time.Hour), now)
	if err != nil {
		logger.Error("overdue scan failed: %v", err)
		return
	}

	notified := 0
	for i := range tasks {
		task := &tasks[i]
		if !inOverdueWindow(now, *task.DueDate) {
			continue
		}
		recipients, err := loadAssignees(j.db, task.AssigneeIDs)
		if err != nil {
			logger.Error("load assignees for task %d failed: %v", task.Id, err)
			continue
		}
		j.notifier.Overdue(task, recipients)
		notified++
	}

	logger.Info("overdue scan completed, %d tasks overdue", notified)
}
