package scheduler

import (
	"github.com/blues/taskhub/internal/config"
	"github.com/blues/taskhub/internal/logger"
	"github.com/blues/taskhub/internal/notify"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Job 定时任务接口
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager 定时任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
	notifier  *notify.Notifier
	config    *config.Config
}

// NewManager 创建定时任务管理器
func NewManager(db *gorm.DB, notifier *notify.Notifier, cfg *config.Config) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: s,
		db:        db,
		notifier:  notifier,
		config:    cfg,
	}, nil
}

// Start 注册所有任务并启动调度器
func (m *Manager) Start() {
	m.register(NewDeadlineJob(m.db, m.notifier, m.config))
	m.register(NewOverdueJob(m.db, m.notifier, m.config))
	m.register(NewDigestJob(m.db, m.notifier, m.config))

	m.scheduler.Start()
	logger.Info("scheduler started")
}

// register 注册单个任务，同一任务不并发执行
func (m *Manager) register(job Job) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止调度器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("scheduler stopped")
}
