package model

import (
	"time"
)

// 任务约束
const (
	MaxAssignees = 5 // 单任务最大指派人数
	MaxTags      = 5 // 单任务最大标签数
)

// Task 任务模型
type Task struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 所属项目，为空表示独立任务
	ProjectID *int64 `json:"project_id" gorm:"index"`
	CreatorID int64  `json:"creator_id" gorm:"not null;index"`

	// 基本信息
	Title       string `json:"title" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`

	// 截止日期，只取日期部分
	DueDate *time.Time `json:"due_date" gorm:"index"`

	// 指派人，有序，创建者始终在列表内
	AssigneeIDs Int64List `json:"assignee_ids" gorm:"type:text"`

	// 标签
	Tags StringList `json:"tags" gorm:"type:text"`

	// 状态
	Status TaskStatus `json:"status" gorm:"default:'todo'"`

	// 归档标记，与状态独立
	Type TaskType `json:"type" gorm:"default:'active'"`
}

// TaskStatus 任务状态
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"        // 待办
	TaskStatusInProgress TaskStatus = "in_progress" // 进行中
	TaskStatusCompleted  TaskStatus = "completed"   // 已完成
	TaskStatusBlocked    TaskStatus = "blocked"     // 受阻
)

// ValidTaskStatus 校验任务状态取值
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked:
		return true
	}
	return false
}

// TaskType 任务归档标记
type TaskType string

const (
	TaskTypeActive   TaskType = "active"   // 正常
	TaskTypeArchived TaskType = "archived" // 已归档
)

// TableName 自定义表名
func (Task) TableName() string {
	return "task"
}
