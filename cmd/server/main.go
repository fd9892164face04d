package main

import (
	"time"

	"github.com/blues/taskhub/internal/auth"
	"github.com/blues/taskhub/internal/config"
	"github.com/blues/taskhub/internal/database"
	"github.com/blues/taskhub/internal/logger"
	"github.com/blues/taskhub/internal/logic"
	"github.com/blues/taskhub/internal/mailer"
	"github.com/blues/taskhub/internal/notify"
	"github.com/blues/taskhub/internal/router"
	"github.com/blues/taskhub/internal/scheduler"
	"github.com/blues/taskhub/internal/storage"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	setupLogger(cfg)
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化文件存储
	store, err := storage.New(cfg.Storage.UploadDir, cfg.Storage.MaxSizeMB)
	if err != nil {
		logger.Fatal("Failed to initialize storage: %v", err)
	}

	// 邮件与通知分发
	m := mailer.New(cfg.SMTP)
	notifier, err := notify.New(db, m, cfg.Frontend.BaseURL, cfg.Notify.PoolSize)
	if err != nil {
		logger.Fatal("Failed to initialize notifier: %v", err)
	}
	defer notifier.Close()

	// 认证组件
	jwtService := auth.NewJWTService(
		[]byte(cfg.JWT.Secret),
		time.Duration(cfg.JWT.AccessTTLMin)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTLHours)*time.Hour,
	)
	tokenCache := auth.NewTokenCache(
		time.Duration(cfg.JWT.CacheTTLMin)*time.Minute,
		cfg.JWT.CacheCapacity,
	)

	// 业务逻辑
	lockoutLogic := logic.NewLockoutLogic(db, cfg.Lockout.Threshold,
		time.Duration(cfg.Lockout.DurationMin)*time.Minute)
	authLogic := logic.NewAuthLogic(db, jwtService, tokenCache, lockoutLogic, m, cfg.Frontend.BaseURL)
	userLogic := logic.NewUserLogic(db)
	projectLogic := logic.NewProjectLogic(db)
	taskLogic := logic.NewTaskLogic(db, projectLogic, userLogic, notifier)
	subtaskLogic := logic.NewSubTaskLogic(db, taskLogic)
	commentLogic := logic.NewCommentLogic(db, taskLogic, userLogic, notifier)
	fileLogic := logic.NewFileLogic(db, store, taskLogic, subtaskLogic)
	teamLogic := logic.NewTeamLogic(db)
	notificationLogic := logic.NewNotificationLogic(db)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(cfg, &router.Deps{
		Auth:         authLogic,
		User:         userLogic,
		Lockout:      lockoutLogic,
		Project:      projectLogic,
		Task:         taskLogic,
		SubTask:      subtaskLogic,
		Comment:      commentLogic,
		File:         fileLogic,
		Team:         teamLogic,
		Notification: notificationLogic,
		Store:        store,
	})

	// 启动定时任务
	manager, err := scheduler.NewManager(db, notifier, cfg)
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}
	manager.Start()
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

// setupLogger 按配置初始化全局日志
func setupLogger(cfg *config.Config) {
	level := logger.ParseLogLevel(cfg.Log.Level)

	var l *logger.Logger
	var err error
	if cfg.Log.Output == "file" {
		l, err = logger.NewWithFileRotation(level, cfg.Log.File)
	} else {
		l, err = logger.New(level)
	}
	if err != nil {
		panic(err)
	}
	logger.SetDefaultLogger(l)
}
