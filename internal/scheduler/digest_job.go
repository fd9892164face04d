package scheduler

import (
	"time"

	"github.com/blues/taskhub/internal/config"
	"github.com/blues/taskhub/internal/logger"
	"github.com/blues/taskhub/internal/logic"
	"github.com/blues/taskhub/internal/notify"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// DigestJob 每日汇总任务
type DigestJob struct {
	digestLogic *logic.DigestLogic
	notifier    *notify.Notifier
	config      *config.Config
}

// NewDigestJob 创建每日汇总任务
func NewDigestJob(db *gorm.DB, notifier *notify.Notifier, cfg *config.Config) *DigestJob {
	return &DigestJob{
		digestLogic: logic.NewDigestLogic(db),
		notifier:    notifier,
		config:      cfg,
	}
}

// GetName 获取任务名称
func (j *DigestJob) GetName() string {
	return "daily_digest"
}

// GetSchedule 每天在配置的整点执行
func (j *DigestJob) GetSchedule() gocron.JobDefinition {
	return gocron.DailyJob(1, gocron.NewAtTimes(
		gocron.NewAtTime(uint(j.config.Scheduler.DigestHour), 0, 0),
	))
}

// Execute 给所有管理类用户发送每日汇总。单个收件人失败不影响其他人。
func (j *DigestJob) Execute() {
	now := time.Now()

	recipients, err := j.digestLogic.Recipients()
	if err != nil {
		logger.Error("digest recipients query failed: %v", err)
		return
	}

	sent := 0
	for i := range recipients {
		user := &recipients[i]
		data, err := j.digestLogic.BuildForUser(user, now)
		if err != nil {
			logger.Error("build digest for user %d failed: %v", user.Id, err)
			continue
		}
		j.notifier.DailyDigest(user, data)
		sent++
	}

	logger.Info("daily digest dispatched to %d recipients", sent)
}
