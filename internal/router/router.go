package router

import (
	"github.com/blues/taskhub/internal/config"
	"github.com/blues/taskhub/internal/handler"
	"github.com/blues/taskhub/internal/logic"
	"github.com/blues/taskhub/internal/storage"
	"github.com/gin-gonic/gin"
)

// Deps 路由依赖的业务逻辑集合
type Deps struct {
	Auth         *logic.AuthLogic
	User         *logic.UserLogic
	Lockout      *logic.LockoutLogic
	Project      *logic.ProjectLogic
	Task         *logic.TaskLogic
	SubTask      *logic.SubTaskLogic
	Comment      *logic.CommentLogic
	File         *logic.FileLogic
	Team         *logic.TeamLogic
	Notification *logic.NotificationLogic
	Store        *storage.Store
}

func Setup(cfg *config.Config, d *Deps) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(cfg.CORS.AllowOrigin))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "taskhub",
		})
	})

	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.User, d.Lockout)
	projectHandler := handler.NewProjectHandler(d.Project, d.Task, d.Store)
	taskHandler := handler.NewTaskHandler(d.Task, d.Store)
	subtaskHandler := handler.NewSubTaskHandler(d.SubTask, d.Store)
	commentHandler := handler.NewCommentHandler(d.Comment)
	fileHandler := handler.NewFileHandler(d.File, d.Store)
	teamHandler := handler.NewTeamHandler(d.Team)
	notificationHandler := handler.NewNotificationHandler(d.Notification)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 无需登录的认证路由
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
		}

		// 登录后才能访问的路由
		authed := v1.Group("")
		authed.Use(handler.AuthMiddleware(d.Auth))
		{
			authed.GET("/auth/me", authHandler.Me)

			users := authed.Group("/users")
			{
				users.GET("", userHandler.GetUsers)
				users.GET("/:id", userHandler.GetUser)
				users.POST("/unlock", userHandler.Unlock)
			}

			projects := authed.Group("/projects")
			{
				projects.POST("", projectHandler.CreateProject)
				projects.GET("", projectHandler.GetProjects)
				projects.GET("/:id", projectHandler.GetProject)
				projects.PUT("/:id", projectHandler.UpdateProject)
				projects.POST("/:id/archive", projectHandler.ArchiveProject)
				projects.POST("/:id/restore", projectHandler.RestoreProject)
				projects.DELETE("/:id", projectHandler.DeleteProject)
				projects.GET("/:id/members", projectHandler.GetMembers)
				projects.POST("/:id/members", projectHandler.AddMember)
				projects.PUT("/:id/members/:user_id", projectHandler.ChangeMemberRole)
				projects.DELETE("/:id/members/:user_id", projectHandler.RemoveMember)
				projects.GET("/:id/tasks", projectHandler.GetProjectTasks)
			}

			tasks := authed.Group("/tasks")
			{
				tasks.POST("", taskHandler.CreateTask)
				tasks.GET("/mine", taskHandler.GetMyTasks)
				tasks.GET("/:id", taskHandler.GetTask)
				tasks.PUT("/:id", taskHandler.UpdateTask)
				tasks.POST("/:id/archive", taskHandler.ArchiveTask)
				tasks.DELETE("/:id", taskHandler.DeleteTask)
				tasks.POST("/:id/subtasks", subtaskHandler.CreateSubTask)
				tasks.GET("/:id/subtasks", subtaskHandler.GetSubTasks)
				tasks.POST("/:id/comments", commentHandler.CreateComment)
				tasks.GET("/:id/comments", commentHandler.GetComments)
				tasks.POST("/:id/files", fileHandler.UploadToTask)
				tasks.GET("/:id/files", fileHandler.GetTaskFiles)
			}

			subtasks := authed.Group("/subtasks")
			{
				subtasks.GET("/:id", subtaskHandler.GetSubTask)
				subtasks.PUT("/:id", subtaskHandler.UpdateSubTask)
				subtasks.DELETE("/:id", subtaskHandler.DeleteSubTask)
				subtasks.POST("/:id/files", fileHandler.UploadToSubTask)
			}

			files := authed.Group("/files")
			{
				files.GET("/:id/download", fileHandler.Download)
				files.DELETE("/:id", fileHandler.DeleteFile)
			}

			comments := authed.Group("/comments")
			{
				comments.DELETE("/:id", commentHandler.DeleteComment)
			}

			teams := authed.Group("/teams")
			{
				teams.POST("", teamHandler.CreateTeam)
				teams.GET("", teamHandler.GetTeams)
				teams.GET("/:id", teamHandler.GetTeam)
				teams.PUT("/:id", teamHandler.UpdateTeam)
				teams.DELETE("/:id", teamHandler.DeleteTeam)
				teams.GET("/:id/members", teamHandler.GetMembers)
				teams.POST("/:id/members", teamHandler.AddMember)
				teams.DELETE("/:id/members/:user_id", teamHandler.RemoveMember)
			}

			notifications := authed.Group("/notifications")
			{
				notifications.GET("", notificationHandler.GetNotifications)
				notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
				notifications.POST("/:id/read", notificationHandler.MarkRead)
				notifications.POST("/read-all", notificationHandler.MarkAllRead)
			}
		}
	}

	return r
}

// CORS中间件
func corsMiddleware(allowOrigin string) gin.HandlerFunc {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
